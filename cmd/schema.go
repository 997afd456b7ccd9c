package cmd

import (
	"flag"
	"os"

	"github.com/chaos-tools/chaos-assistant/internal/config"
	"github.com/chaos-tools/chaos-assistant/internal/logging"
	"github.com/chaos-tools/chaos-assistant/internal/schema"
)

// schemaCommand writes the embedded JSON Schema files for editor
// integration.
func schemaCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("chaos schema", flag.ContinueOnError)
	dir := fs.String("dir", cfg.SchemaDir, "Output directory for schema files")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg)
	paths, err := schema.Export(*dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		logger.Info("wrote schema", "path", path)
	}
	return nil
}
