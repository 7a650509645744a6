// Package browser hands URLs to the system web browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	pkgbrowser "github.com/pkg/browser"

	"github.com/ryanm101/gameswiki/internal/logging"
)

// Opener opens URLs with the platform default browser, or with a configured
// command when one is set. The command may contain "{url}"; otherwise the URL
// is appended as the last argument.
type Opener struct {
	command []string
	run     func(name string, args ...string) error
	open    func(u string) error
}

// New creates an Opener. An empty command uses the platform default.
func New(command string) *Opener {
	return &Opener{
		command: strings.Fields(command),
		run:     runCommand,
		open:    pkgbrowser.OpenURL,
	}
}

// OpenURL launches the browser for u. Only absolute http(s) URLs are accepted.
func (o *Opener) OpenURL(u string) error {
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("refusing to open %q: unsupported scheme", u)
	}

	if len(o.command) == 0 {
		logging.Debug("opening url", "url", u)
		return o.open(u)
	}

	name, args := o.argv(u)
	logging.Debug("opening url", "url", u, "command", name)
	if err := o.run(name, args...); err != nil {
		return fmt.Errorf("browser command %s failed: %w", name, err)
	}
	return nil
}

func (o *Opener) argv(u string) (string, []string) {
	args := make([]string, 0, len(o.command))
	substituted := false
	for _, a := range o.command[1:] {
		if strings.Contains(a, "{url}") {
			a = strings.ReplaceAll(a, "{url}", u)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, u)
	}
	return o.command[0], args
}

// runCommand starts the browser without waiting for it to exit.
func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...) //nolint:gosec // user-configured browser
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
