package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// writeChaosDir lays out a small chaos tree for the browser to load.
func writeChaosDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"category.yaml":      "id: root\nname: Root\n",
		"labels.yaml":        "labels: [home]\n",
		"task-plan.yaml":     "id: plan\nname: Plan\nlabels: [home]\nsubtasks:\n  - name: Step\n    complete: true\n",
		"task-off.yaml":      "name: Shelved\nenabled: false\n",
		"work/category.yaml": "id: work\nname: Work\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTreeModelView(t *testing.T) {
	m := newTreeModel(writeChaosDir(t))
	m.Init()

	view := m.View()
	for _, want := range []string{"Chaos Browser", "[C-root]", "[C-work]", "[T-plan]", "Root"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	// disabled items start hidden
	if strings.Contains(view, "Shelved") {
		t.Errorf("view should hide disabled items:\n%s", view)
	}
}

func TestTreeModelToggles(t *testing.T) {
	m := newTreeModel(writeChaosDir(t))
	m.Init()

	m.Update(key("a"))
	if view := m.View(); !strings.Contains(view, "Shelved") {
		t.Errorf("view should show disabled items after 'a':\n%s", view)
	}

	m.Update(key("l"))
	if view := m.View(); !strings.Contains(view, "home") {
		t.Errorf("view should show labels after 'l':\n%s", view)
	}

	m.Update(key("h"))
	if view := m.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Errorf("view should show help after 'h':\n%s", view)
	}
	m.Update(key("?"))
	if view := m.View(); strings.Contains(view, "Keyboard Shortcuts") {
		t.Errorf("view should hide help after '?':\n%s", view)
	}
}

func TestTreeModelCollapse(t *testing.T) {
	m := newTreeModel(writeChaosDir(t))
	m.Init()

	before := len(m.rows)
	if before == 0 {
		t.Fatal("expected rows after init")
	}

	// cursor starts on the root category; folding it hides everything below
	m.Update(key(" "))
	if len(m.rows) >= before {
		t.Errorf("rows after collapse: got %d, want fewer than %d", len(m.rows), before)
	}
	m.Update(key(" "))
	if len(m.rows) != before {
		t.Errorf("rows after expand: got %d, want %d", len(m.rows), before)
	}
}

func TestTreeModelCursorBounds(t *testing.T) {
	m := newTreeModel(writeChaosDir(t))
	m.Init()

	m.Update(key("k"))
	if m.cursor != 0 {
		t.Errorf("cursor above top: got %d, want 0", m.cursor)
	}
	for i := 0; i < len(m.rows)+5; i++ {
		m.Update(key("j"))
	}
	if m.cursor != len(m.rows)-1 {
		t.Errorf("cursor below bottom: got %d, want %d", m.cursor, len(m.rows)-1)
	}
}

func TestTreeModelLoadError(t *testing.T) {
	m := newTreeModel(filepath.Join(t.TempDir(), "missing"))
	m.Init()

	if view := m.View(); !strings.Contains(view, "Error loading chaos directory") {
		t.Errorf("view should report the load error:\n%s", view)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&strings.Builder{}) {
		t.Error("a plain writer is not a TTY")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("a regular file is not a TTY")
	}
}

func TestTreeModelQuit(t *testing.T) {
	m := newTreeModel(writeChaosDir(t))
	m.Init()

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
