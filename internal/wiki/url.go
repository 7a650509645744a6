package wiki

import (
	"fmt"
	"net/url"
	"strings"
)

// EscapeQuery percent-encodes s for use as a query value or path segment.
// Spaces become %20 so the result is valid in both positions.
func EscapeQuery(s string) string {
	// QueryEscape emits a literal '+' only for spaces; real plus signs are %2B.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildSearchURL returns the search URL for gameName on the site identified by siteID.
// Unknown site ids resolve against the default site.
func BuildSearchURL(gameName, siteID string) string {
	return fmt.Sprintf(Template(siteID), EscapeQuery(gameName))
}
