package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ryanm101/gameswiki/internal/config"
)

const defaultConfigPath = ".gameswiki.yaml"

func handleConfigCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: gameswiki config <show|init>")
	}

	switch args[0] {
	case "show":
		return showConfig()
	case "init":
		path := defaultConfigPath
		if len(args) > 1 {
			path = args[1]
		}
		return initConfig(path)
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func showConfig() error {
	if outputCfg.JSON {
		PrintResult(cfg)
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, _ = fmt.Fprintln(stdout, "# Active Configuration")
	_, _ = fmt.Fprintln(stdout, string(data))
	return nil
}

func initConfig(path string) error {
	if err := config.WriteExample(path); err != nil {
		return err
	}

	if outputCfg.JSON {
		PrintResult(map[string]string{"path": path, "status": "created"})
	} else {
		PrintInfo("Created config file: %s\n", path)
	}
	return nil
}
