package checker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/chaos-tools/chaos-assistant/internal/chaosdir"
	"github.com/chaos-tools/chaos-assistant/internal/schema"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewPool(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pool with max workers", func(t *testing.T) {
		pool := NewPool(ctx, 4)
		if pool == nil {
			t.Fatal("NewPool returned nil")
		}
		if pool.maxWorkers != 4 {
			t.Errorf("expected maxWorkers=4, got %d", pool.maxWorkers)
		}
	})

	t.Run("creates pool with unbounded workers", func(t *testing.T) {
		pool := NewPool(ctx, 0)
		if pool.maxWorkers != 0 {
			t.Errorf("expected maxWorkers=0 for unbounded, got %d", pool.maxWorkers)
		}
	})
}

func TestPoolSubmitAndWait(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	good := writeFile(t, dir, "task-good.yaml", "name: Fine\n")
	bad := writeFile(t, dir, "task-bad.yaml", "name: Broken\npriority: -1\n")
	broken := writeFile(t, dir, "task-parse.yaml", "name: [unclosed\n")

	pool := NewPool(ctx, 2)
	pool.Submit(schema.KindTask, good)
	pool.Submit(schema.KindTask, bad)
	pool.Submit(schema.KindTask, broken)

	checks := pool.Wait()
	if len(checks) != 3 {
		t.Fatalf("checks: got %d, want 3", len(checks))
	}

	// Wait orders by path
	if checks[0].Path != bad || checks[1].Path != good || checks[2].Path != broken {
		t.Errorf("unexpected order: %v %v %v", checks[0].Path, checks[1].Path, checks[2].Path)
	}

	byPath := make(map[string]FileCheck, len(checks))
	for _, c := range checks {
		byPath[c.Path] = c
	}
	if !byPath[good].OK() {
		t.Errorf("%s should pass: %+v", good, byPath[good])
	}
	if byPath[bad].OK() || byPath[bad].Result == nil || byPath[bad].Result.Valid {
		t.Errorf("%s should fail schema validation: %+v", bad, byPath[bad])
	}
	if byPath[broken].OK() || byPath[broken].Err == nil {
		t.Errorf("%s should fail with a parse error: %+v", broken, byPath[broken])
	}
}

func TestPoolBoundedConcurrency(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	pool := NewPool(ctx, 1)
	for i := 0; i < 10; i++ {
		pool.Submit(schema.KindTask, writeFile(t, dir, fmt.Sprintf("task-%02d.yaml", i), "name: X\n"))
	}

	checks := pool.Wait()
	if len(checks) != 10 {
		t.Fatalf("checks: got %d, want 10", len(checks))
	}
	for _, c := range checks {
		if !c.OK() {
			t.Errorf("%s should pass: %+v", c.Path, c)
		}
	}
}

func TestPoolCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	path := writeFile(t, dir, "task-a.yaml", "name: X\n")

	pool := NewPool(ctx, 1)
	pool.Submit(schema.KindTask, path)

	if checks := pool.Wait(); len(checks) != 0 {
		t.Errorf("checks after cancel: got %d, want 0", len(checks))
	}
}

func TestSubmitSet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "category.yaml", "name: Root\n")
	writeFile(t, dir, "labels.yaml", "labels: [home]\n")
	writeFile(t, dir, "task-a.yaml", "name: A\n")

	fs, err := chaosdir.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}

	pool := NewPool(context.Background(), 2)
	pool.SubmitSet(fs)

	checks := pool.Wait()
	if len(checks) != 3 {
		t.Fatalf("checks: got %d, want 3", len(checks))
	}
	for _, c := range checks {
		if !c.OK() {
			t.Errorf("%s should pass: %+v", c.Path, c)
		}
	}
}
