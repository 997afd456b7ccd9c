package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/chaos-tools/chaos-assistant/internal/config"
	"github.com/chaos-tools/chaos-assistant/internal/logging"
)

// exportCommand writes the internal resolved model to a YAML file.
func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("chaos export", flag.ContinueOnError)
	output := fs.String("o", "", "Output path for the YAML file (required)")
	fs.StringVar(output, "output", "", "Output path for the YAML file (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("missing required -o flag")
	}
	dir, err := resolveChaosDir(cfg, fs.Args())
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg)
	logger.Info("loading chaos directory", "dir", dir)

	tree, err := loadAndBuild(dir)
	if err != nil {
		return err
	}

	logger.Info("exporting internal model", "output", *output)
	if err := tree.ExportYAML(*output); err != nil {
		return fmt.Errorf("exporting internal model: %w", err)
	}
	return nil
}
