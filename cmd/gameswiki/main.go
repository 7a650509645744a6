package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/baggage"

	"github.com/ryanm101/gameswiki/internal/config"
	"github.com/ryanm101/gameswiki/internal/logging"
	"github.com/ryanm101/gameswiki/internal/tracing"
)

const version = "0.3.0"

var cfg *config.Config

func main() {
	ctx := context.Background()

	m, _ := baggage.NewMember("app.version", version)
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	var err error
	cfg, err = config.Load()
	if err != nil {
		PrintError("Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		PrintError("Warning: %v\n", err)
	}

	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
		shutdown = func(context.Context) error { return nil }
	}

	args := parseGlobalFlags(os.Args[1:])
	code := 0
	if len(args) < 1 {
		printUsage()
		code = 1
	} else if err := run(ctx, args); err != nil {
		PrintError("Error: %v\n", err)
		code = 1
	}

	if err := shutdown(ctx); err != nil {
		logging.Error("failed to shutdown tracing", "error", err)
	}
	if logCloser != nil {
		_ = logCloser.Close()
	}
	os.Exit(code)
}

func run(ctx context.Context, args []string) error {
	switch args[0] {
	case "sites":
		return handleSitesCommand()
	case "games":
		return handleGamesCommand(ctx, args[1:])
	case "url":
		return handleURLCommand(args[1:])
	case "open":
		return handleOpenCommand(ctx, args[1:])
	case "history":
		return handleHistoryCommand(ctx, args[1:])
	case "config":
		return handleConfigCommand(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	case "version", "--version":
		PrintResult("gameswiki " + version)
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage() {
	lines := []string{
		"gameswiki - look up installed games on wiki and review sites",
		"",
		"Usage: gameswiki [global options] <command> [options]",
		"",
		"Global Options:",
		"  --json                        Output in JSON format",
		"  --quiet, -q                   Suppress non-error output",
		"",
		"Commands:",
		"  sites                         List supported sites",
		"  games [--all]                 List installed Steam games",
		"  url <site> <name...>          Print the search URL for a game",
		"  open <name...> [--site id]    Open the search page in the browser",
		"  history [n]                   Show recent lookups",
		"  config show                   Show active configuration",
		"  config init [path]            Write an example config file",
		"  version                       Show version",
		"  help                          Show this help",
		"",
		"Environment:",
		"  GAMESWIKI_CONFIG              Config file path",
		"  GAMESWIKI_STEAM_ROOT          Steam installation (default: ~/.local/share/Steam)",
		"  GAMESWIKI_DEFAULT_SITE        Site used by open (default: pcgamingwiki)",
		"  GAMESWIKI_DB                  History database path",
	}
	for _, l := range lines {
		_, _ = fmt.Fprintln(stdout, l)
	}
}
