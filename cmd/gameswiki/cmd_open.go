package main

import (
	"context"
	"errors"
	"strings"

	"github.com/ryanm101/gameswiki/internal/games"
)

// parseOpenArgs splits "open" arguments into the game name and an optional --site.
func parseOpenArgs(args []string) (name, siteID string, err error) {
	var words []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--site" || arg == "-s":
			if i+1 >= len(args) {
				return "", "", errors.New("--site requires a value")
			}
			siteID = strings.ToLower(args[i+1])
			i++
		case strings.HasPrefix(arg, "--site="):
			siteID = strings.ToLower(strings.TrimPrefix(arg, "--site="))
		default:
			words = append(words, arg)
		}
	}
	name = strings.TrimSpace(strings.Join(words, " "))
	if name == "" {
		return "", "", errors.New("usage: gameswiki open <name...> [--site id]")
	}
	return name, siteID, nil
}

func handleOpenCommand(ctx context.Context, args []string) error {
	name, siteID, err := parseOpenArgs(args)
	if err != nil {
		return err
	}

	c := *cfg
	if siteID != "" {
		c.DefaultSite = siteID
	}
	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	game := games.Game{Name: name}
	// Attach the app id when the game is installed so history rows carry it.
	if list, err := a.Steam.InstalledGames(ctx); err == nil {
		if g, ok := findInstalled(list, name); ok {
			game = g
		}
	}

	ok := a.Session.OpenGame(ctx, game)
	toast, _ := a.Notices.Latest()

	if outputCfg.JSON {
		PrintResult(map[string]interface{}{
			"name":   game.Name,
			"appid":  game.AppID,
			"site":   a.Session.Snapshot().SelectedSiteID,
			"opened": ok,
			"title":  toast.Title,
			"body":   toast.Body,
		})
	} else if ok {
		PrintInfo("%s\n", toast.Body)
	}

	if !ok {
		return errors.New("failed to open wiki link")
	}
	return nil
}
