// Package ui provides the terminal tree browser.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chaos-tools/chaos-assistant/internal/chaosdir"
	"github.com/chaos-tools/chaos-assistant/internal/config"
	"github.com/chaos-tools/chaos-assistant/internal/resolve"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	disabledStyle = lipgloss.NewStyle().Faint(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
)

// Run starts the tree browser on a chaos directory.
func Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	dir := cfg.ChaosDir
	if len(args) == 1 {
		dir = args[0]
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTreeModel(dir)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// row is one rendered line of the tree.
type row struct {
	key      string // tid, or a synthetic key for placeholders
	depth    int
	text     string
	disabled bool
	children bool
}

type treeModel struct {
	dir        string
	tree       *resolve.Tree
	loadErr    error
	rows       []row
	cursor     int
	collapsed  map[string]bool
	showAll    bool
	showLabels bool
	showHelp   bool
	height     int
}

func newTreeModel(dir string) *treeModel {
	return &treeModel{
		dir:       dir,
		collapsed: make(map[string]bool),
	}
}

func (m *treeModel) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.toggleCollapse()
		case "a":
			m.showAll = !m.showAll
			m.rebuildRows()
		case "l":
			m.showLabels = !m.showLabels
			m.rebuildRows()
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m *treeModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chaos Browser") + "\n")
	b.WriteString(strings.Repeat("=", len("Chaos Browser")) + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading chaos directory:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		m.writeFooter(&b)
		return b.String()
	}

	for i, r := range m.rows {
		line := strings.Repeat("  ", r.depth) + r.text
		if r.disabled {
			line = disabledStyle.Render(line)
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	m.writeFooter(&b)
	return b.String()
}

func (m *treeModel) writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"%s | enter: fold | a: disabled | l: labels | r: reload | h: help | q: quit", m.dir)) + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Reload the chaos directory\n")
	b.WriteString("  up/k down/j  Move the cursor\n")
	b.WriteString("  enter, space Collapse or expand the current item\n")
	b.WriteString("  a            Toggle disabled items\n")
	b.WriteString("  l            Toggle label display\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

// refresh reloads the chaos directory from disk.
func (m *treeModel) refresh() {
	loaded, err := chaosdir.Load(m.dir)
	if err != nil {
		m.loadErr = err
		m.tree = nil
		m.rows = nil
		return
	}
	tree, err := resolve.Build(loaded)
	if err != nil {
		m.loadErr = err
		m.tree = nil
		m.rows = nil
		return
	}
	m.loadErr = nil
	m.tree = tree
	m.rebuildRows()
}

// toggleCollapse folds or unfolds the row under the cursor.
func (m *treeModel) toggleCollapse() {
	if m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	if !r.children {
		return
	}
	m.collapsed[r.key] = !m.collapsed[r.key]
	m.rebuildRows()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

// rebuildRows flattens the visible part of the tree.
func (m *treeModel) rebuildRows() {
	m.rows = nil
	if m.tree == nil {
		return
	}
	m.appendCategory(m.tree.Root, 0)
	if m.cursor >= len(m.rows) && len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
}

func (m *treeModel) appendCategory(cat *resolve.Category, depth int) {
	if !cat.Enabled && !m.showAll {
		return
	}
	children := len(cat.Subcategories) > 0 || len(cat.Tasks) > 0
	m.rows = append(m.rows, row{
		key:      cat.Tid,
		depth:    depth,
		text:     fmt.Sprintf("📁 [%s] (P%d) %s", cat.Tid, cat.Priority, cat.Name),
		disabled: !cat.Enabled,
		children: children,
	})
	m.appendLabels(cat.Labels, depth+1)
	if m.collapsed[cat.Tid] {
		return
	}
	for _, sub := range cat.Subcategories {
		m.appendCategory(sub, depth+1)
	}
	for _, task := range cat.Tasks {
		m.appendTask(task, depth+1)
	}
}

func (m *treeModel) appendTask(task resolve.Task, depth int) {
	switch t := task.(type) {
	case *resolve.Group:
		if !t.Enabled && !m.showAll {
			return
		}
		m.rows = append(m.rows, row{
			key:      t.Tid,
			depth:    depth,
			text:     fmt.Sprintf("🗂  [%s] (P%d) %s", t.Tid, t.Priority, t.Name),
			disabled: !t.Enabled,
			children: len(t.Subtasks) > 0,
		})
		m.appendLabels(t.Labels, depth+1)
		if m.collapsed[t.Tid] {
			return
		}
		for _, sub := range t.Subtasks {
			m.appendTask(sub, depth+1)
		}
	case *resolve.Workable:
		if !t.Enabled && !m.showAll {
			return
		}
		glyph := "☐"
		if t.Complete.Done() {
			glyph = "☑"
		}
		text := fmt.Sprintf("%s [%s] (P%d) %s", glyph, t.Tid, t.Priority, t.Name)
		if t.Complete.IsPercent() && !t.Complete.Done() {
			text += fmt.Sprintf(" %g%%", t.Complete.Percent())
		}
		m.rows = append(m.rows, row{
			key:      t.Tid,
			depth:    depth,
			text:     text,
			disabled: !t.Enabled,
		})
		m.appendLabels(t.Labels, depth+1)
	case resolve.Ellipsis:
		m.rows = append(m.rows, row{
			key:   fmt.Sprintf("ellipsis-%d", len(m.rows)),
			depth: depth,
			text:  "⋯",
		})
	}
}

func (m *treeModel) appendLabels(labels []*resolve.Label, depth int) {
	if !m.showLabels || len(labels) == 0 {
		return
	}
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	m.rows = append(m.rows, row{
		key:   fmt.Sprintf("labels-%d", len(m.rows)),
		depth: depth,
		text:  "🏷  " + strings.Join(names, ", "),
	})
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
