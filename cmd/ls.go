package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/chaos-tools/chaos-assistant/internal/config"
	"github.com/chaos-tools/chaos-assistant/internal/resolve"
)

// lsCommand renders the resolved tree.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("chaos ls", flag.ContinueOnError)
	showLabels := fs.Bool("labels", cfg.ShowLabels, "Show resolved labels per item")
	showAll := fs.Bool("all", cfg.ShowDisabled, "Include disabled items")
	maxDepth := fs.Int("depth", cfg.MaxDepth, "Maximum tree depth (0 = unlimited)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	dir, err := resolveChaosDir(cfg, fs.Args())
	if err != nil {
		return err
	}

	tree, err := loadAndBuild(dir)
	if err != nil {
		return err
	}

	p := treePrinter{
		showLabels: *showLabels,
		showAll:    *showAll,
		maxDepth:   *maxDepth,
	}
	p.printCategory(tree.Root, 0)
	return nil
}

type treePrinter struct {
	showLabels bool
	showAll    bool
	maxDepth   int
}

// printCategory prints a category and its children.
func (p treePrinter) printCategory(cat *resolve.Category, depth int) {
	if p.pruned(cat.Enabled, depth) {
		return
	}
	fmt.Printf("%s📁 [%s] (P%d) %s%s\n", indent(depth), cat.Tid, cat.Priority, cat.Name, disabledSuffix(cat.Enabled))
	p.printLabels(cat.Labels, depth+1)
	for _, sub := range cat.Subcategories {
		p.printCategory(sub, depth+1)
	}
	for _, task := range cat.Tasks {
		p.printTask(task, depth+1)
	}
}

// printTask prints a task node and, for groups, its subtree.
func (p treePrinter) printTask(task resolve.Task, depth int) {
	switch t := task.(type) {
	case *resolve.Group:
		if p.pruned(t.Enabled, depth) {
			return
		}
		fmt.Printf("%s🗂  [%s] (P%d) %s%s\n", indent(depth), t.Tid, t.Priority, t.Name, disabledSuffix(t.Enabled))
		p.printLabels(t.Labels, depth+1)
		for _, sub := range t.Subtasks {
			p.printTask(sub, depth+1)
		}
	case *resolve.Workable:
		if p.pruned(t.Enabled, depth) {
			return
		}
		glyph := "☐"
		if t.Complete.Done() {
			glyph = "☑"
		}
		progress := ""
		if t.Complete.IsPercent() && !t.Complete.Done() {
			progress = fmt.Sprintf(" %g%%", t.Complete.Percent())
		}
		fmt.Printf("%s%s [%s] (P%d) %s%s%s\n", indent(depth), glyph, t.Tid, t.Priority, t.Name, progress, disabledSuffix(t.Enabled))
		p.printLabels(t.Labels, depth+1)
	case resolve.Ellipsis:
		if p.tooDeep(depth) {
			return
		}
		fmt.Printf("%s⋯\n", indent(depth))
	}
}

// printLabels prints an item's resolved label names.
func (p treePrinter) printLabels(labels []*resolve.Label, depth int) {
	if !p.showLabels || len(labels) == 0 || p.tooDeep(depth) {
		return
	}
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	fmt.Printf("%s🏷  %s\n", indent(depth), strings.Join(names, ", "))
}

// pruned reports whether an item should be hidden at this depth.
func (p treePrinter) pruned(enabled bool, depth int) bool {
	if !enabled && !p.showAll {
		return true
	}
	return p.tooDeep(depth)
}

func (p treePrinter) tooDeep(depth int) bool {
	return p.maxDepth > 0 && depth >= p.maxDepth
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func disabledSuffix(enabled bool) string {
	if enabled {
		return ""
	}
	return " (disabled)"
}
