package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ryanm101/gameswiki/internal/db"
	"github.com/ryanm101/gameswiki/internal/wiki"
)

const defaultHistoryLimit = 10

func handleHistoryCommand(ctx context.Context, args []string) error {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count: %s", args[0])
		}
		limit = n
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	recent, err := database.Recent(ctx, limit)
	if err != nil {
		return err
	}
	counts, err := database.CountBySite(ctx)
	if err != nil {
		return err
	}

	if outputCfg.JSON {
		PrintResult(map[string]interface{}{
			"recent":  recent,
			"by_site": counts,
		})
		return nil
	}

	if len(recent) == 0 {
		PrintInfo("No lookups recorded yet.\n")
		return nil
	}

	rows := make([][]string, 0, len(recent))
	for _, l := range recent {
		result := "opened"
		if !l.Succeeded {
			result = "failed"
		}
		rows = append(rows, []string{
			l.OpenedAt.Local().Format("2006-01-02 15:04"),
			wiki.Label(l.SiteID),
			l.GameName,
			result,
		})
	}
	PrintTable([]string{"TIME", "SITE", "GAME", "RESULT"}, rows)

	PrintInfo("\nLookups by site:\n")
	for _, c := range counts {
		PrintInfo("  %-16s %d\n", wiki.Label(c.SiteID), c.Count)
	}
	return nil
}
