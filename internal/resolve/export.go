package resolve

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encode writes the resolved tree as YAML.
func (t *Tree) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t.Root); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return enc.Close()
}

// ExportYAML writes the resolved tree to a .yaml/.yml file.
func (t *Tree) ExportYAML(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("output path cannot be a directory")
	}
	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
		return fmt.Errorf("output file needs a .yaml extension")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := t.Encode(f); err != nil {
		return err
	}
	return f.Close()
}
