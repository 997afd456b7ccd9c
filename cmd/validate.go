package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chaos-tools/chaos-assistant/internal/chaosdir"
	"github.com/chaos-tools/chaos-assistant/internal/checker"
	"github.com/chaos-tools/chaos-assistant/internal/config"
	"github.com/chaos-tools/chaos-assistant/internal/resolve"
)

// validateCommand checks directory layout, file schemas, and reference
// resolution, and prints a per-check report.
func validateCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("chaos validate", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	dir, err := resolveChaosDir(cfg, fs.Args())
	if err != nil {
		return err
	}

	fmt.Println("Chaos Validate")
	fmt.Println("==============")
	fmt.Println()

	allOK := true

	fmt.Printf("Chaos directory: %s\n", dir)
	if info, err := os.Stat(dir); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		return fmt.Errorf("validation failed")
	} else if !info.IsDir() {
		fmt.Println("  ❌ Error: path is not a directory")
		return fmt.Errorf("validation failed")
	}
	fmt.Println("  ✅ OK")
	fmt.Println()

	fmt.Println("Files:")
	filesOK := validateFiles(ctx, dir, cfg.Workers, *verbose)
	if !filesOK {
		allOK = false
	}
	fmt.Println()

	fmt.Println("References:")
	if !filesOK {
		fmt.Println("  ⚠️  Skipped (fix file errors first)")
	} else if tree, err := loadAndBuild(dir); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Printf("  ✅ %d items indexed, labels and ids resolved\n", tree.Index.Len())
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("validation failed")
}

// validateFiles schema-checks every chaos file in the tree, fanning the
// checks out over a bounded worker pool, and prints one line per finding.
func validateFiles(ctx context.Context, dir string, workers int, verbose bool) bool {
	pool := checker.NewPool(ctx, workers)
	ok := discoverTree(dir, pool)

	for _, c := range pool.Wait() {
		switch {
		case c.Err != nil:
			fmt.Printf("  ❌ %s\n     - %v\n", c.Path, c.Err)
			ok = false
		case !c.Result.Valid:
			fmt.Printf("  ❌ %s\n", c.Path)
			for _, e := range c.Result.Errors {
				fmt.Printf("     - %v\n", e)
			}
			ok = false
		case verbose:
			fmt.Printf("  ✅ %s\n", c.Path)
		}
	}
	return ok
}

// discoverTree walks the directory layout, reporting layout errors and
// feeding every discovered file to the pool.
func discoverTree(dir string, pool *checker.Pool) bool {
	fileSet, err := chaosdir.Discover(dir)
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		return false
	}
	pool.SubmitSet(fileSet)

	ok := true
	for _, sub := range fileSet.Subdirs {
		ok = discoverTree(sub, pool) && ok
	}
	return ok
}

// loadAndBuild loads a chaos directory and resolves it.
func loadAndBuild(dir string) (*resolve.Tree, error) {
	loaded, err := chaosdir.Load(dir)
	if err != nil {
		return nil, err
	}
	return resolve.Build(loaded)
}
