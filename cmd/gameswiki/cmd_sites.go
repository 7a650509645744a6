package main

import (
	"fmt"
	"strings"

	"github.com/ryanm101/gameswiki/internal/wiki"
)

func handleSitesCommand() error {
	current := cfg.GetDefaultSite()
	var rows [][]string
	for _, s := range wiki.Sites() {
		marker := ""
		if s.ID == current {
			marker = "*"
		}
		rows = append(rows, []string{s.ID, s.Label, marker})
	}
	PrintTable([]string{"ID", "LABEL", "DEFAULT"}, rows)
	return nil
}

func handleURLCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: gameswiki url <site> <name...>")
	}
	siteID := strings.ToLower(args[0])
	name := strings.Join(args[1:], " ")

	if _, ok := wiki.Lookup(siteID); !ok {
		PrintError("Warning: unknown site %q, using %s\n", siteID, wiki.Label(wiki.DefaultSiteID))
	}
	u := wiki.BuildSearchURL(name, siteID)

	if outputCfg.JSON {
		PrintResult(map[string]string{"site": siteID, "name": name, "url": u})
		return nil
	}
	PrintResult(u)
	return nil
}
