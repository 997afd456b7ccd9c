// Package cmd implements the CLI command structure for chaos.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chaos-tools/chaos-assistant/internal/config"
	"github.com/chaos-tools/chaos-assistant/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the chaos CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chaos", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	subcommand := ""
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "validate":
		return validateCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "schema":
		return schemaCommand(cfg, remainingArgs)
	case "tui":
		return ui.Run(ctx, cfg, remainingArgs)
	case "version", "--version":
		return versionCommand()
	case "help", "--help":
		printUsage(fs, os.Stdout)
		return nil
	case "":
		printUsage(fs, os.Stdout)
		return nil
	default:
		// An existing directory as the first arg means validate it.
		if fi, err := os.Stat(subcommand); err == nil && fi.IsDir() {
			cfg.ChaosDir = subcommand
			return validateCommand(ctx, cfg, remainingArgs)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// resolveChaosDir picks the chaos directory from a positional arg, if any.
func resolveChaosDir(cfg *config.Config, remaining []string) (string, error) {
	if len(remaining) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		return remaining[0], nil
	}
	return cfg.ChaosDir, nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("chaos version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Chaos Assistant - TODO app for chaotic project management")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  chaos [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  validate [dir]  Check directory layout, schemas, and references")
	fmt.Fprintln(w, "  ls [dir]        Render the resolved task tree")
	fmt.Fprintln(w, "  export [dir]    Export the internal resolved model as YAML")
	fmt.Fprintln(w, "  schema          Write the JSON Schema files for editor integration")
	fmt.Fprintln(w, "  tui [dir]       Launch the terminal tree browser")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -labels")
	fmt.Fprintln(w, "        Show resolved labels per item")
	fmt.Fprintln(w, "  -all")
	fmt.Fprintln(w, "        Include disabled items")
	fmt.Fprintln(w, "  -depth int")
	fmt.Fprintln(w, "        Maximum tree depth (0 = unlimited)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options (use with 'export' command):")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Output path for the YAML file (required)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Schema Options (use with 'schema' command):")
	fmt.Fprintln(w, "  -dir string")
	fmt.Fprintln(w, "        Output directory for schema files")
}
