package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// OutputConfig holds global output settings
type OutputConfig struct {
	JSON  bool
	Quiet bool
}

var (
	outputCfg OutputConfig
	stdout    io.Writer = os.Stdout
	stderr    io.Writer = os.Stderr
)

// parseGlobalFlags extracts --json and --quiet from args, returns remaining args
func parseGlobalFlags(args []string) []string {
	var remaining []string
	for _, arg := range args {
		switch arg {
		case "--json":
			outputCfg.JSON = true
		case "--quiet", "-q":
			outputCfg.Quiet = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining
}

func printJSON(data interface{}) {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// PrintResult outputs data based on output config
func PrintResult(data interface{}) {
	if outputCfg.JSON {
		printJSON(data)
		return
	}

	switch v := data.(type) {
	case string:
		_, _ = fmt.Fprintln(stdout, v)
	case []string:
		for _, s := range v {
			_, _ = fmt.Fprintln(stdout, s)
		}
	default:
		// Fall back to JSON for complex types
		printJSON(data)
	}
}

// PrintTable outputs tabular data
func PrintTable(headers []string, rows [][]string) {
	if outputCfg.JSON {
		result := make([]map[string]string, len(rows))
		for i, row := range rows {
			m := make(map[string]string)
			for j, h := range headers {
				if j < len(row) {
					m[strings.ToLower(h)] = row[j]
				}
			}
			result[i] = m
		}
		printJSON(result)
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&b, "%-*s  ", widths[i], h)
	}
	b.WriteString("\n")
	for i := range headers {
		b.WriteString(strings.Repeat("-", widths[i]) + "  ")
	}
	b.WriteString("\n")
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&b, "%-*s  ", widths[i], cell)
			}
		}
		b.WriteString("\n")
	}
	_, _ = io.WriteString(stdout, b.String())
}

// PrintInfo prints info message if not quiet
func PrintInfo(format string, args ...interface{}) {
	if !outputCfg.Quiet && !outputCfg.JSON {
		_, _ = fmt.Fprintf(stdout, format, args...)
	}
}

// PrintError prints error to stderr
func PrintError(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(stderr, format, args...)
}
