// Package resolve builds the internal resolved model from a loaded chaos
// directory: typed ids, scoped label resolution, and a tree-wide id index.
package resolve

import (
	"fmt"

	"github.com/chaos-tools/chaos-assistant/internal/chaosdir"
	"github.com/chaos-tools/chaos-assistant/internal/model"
)

// Item is any resolved chaos item registered in the id index.
type Item interface {
	TID() string
	ItemName() string
}

// Meta holds the resolved fields shared by every item.
type Meta struct {
	Tid      string `yaml:"tid"`
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Desc     string `yaml:"desc,omitempty"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	Path     string `yaml:"path,omitempty"`
}

// TID returns the typed id.
func (m *Meta) TID() string { return m.Tid }

// ItemName returns the item name.
func (m *Meta) ItemName() string { return m.Name }

// Label is a resolved label. Its own labels field stays as raw strings:
// labels do not reference other labels.
type Label struct {
	Meta   `yaml:",inline"`
	Labels []string `yaml:"labels,omitempty"`
}

// Category is a resolved category node. The root of the tree is a category.
type Category struct {
	Meta          `yaml:",inline"`
	Deadline      *model.Date `yaml:"deadline,omitempty"`
	Labels        []*Label    `yaml:"labels,omitempty"`
	Subcategories []*Category `yaml:"subcategories,omitempty"`
	Tasks         []Task      `yaml:"tasks,omitempty"`
}

// Task is a resolved task-tree node: a group, a workable task, or an
// ellipsis placeholder.
type Task interface {
	task()
}

// Group is a resolved group task.
type Group struct {
	Meta     `yaml:",inline"`
	Deadline *model.Date `yaml:"deadline,omitempty"`
	Labels   []*Label    `yaml:"labels,omitempty"`
	Subtasks []Task      `yaml:"subtasks"`
}

func (*Group) task() {}

// Workable is a resolved workable task.
type Workable struct {
	Meta     `yaml:",inline"`
	Deadline *model.Date    `yaml:"deadline,omitempty"`
	Labels   []*Label       `yaml:"labels,omitempty"`
	Complete model.Complete `yaml:"complete"`
	NextSlot *model.Date    `yaml:"next_slot,omitempty"`
	LastSlot *model.Date    `yaml:"last_slot,omitempty"`
}

func (*Workable) task() {}

// Ellipsis is the "..." subtask placeholder.
type Ellipsis struct{}

func (Ellipsis) task() {}

// MarshalYAML renders the placeholder as its literal marker.
func (Ellipsis) MarshalYAML() (interface{}, error) {
	return model.EllipsisMarker, nil
}

// labelKeys indexes labels by tid, plain id, and name so references may
// use any of the three.
func labelKeys(l *Label) []string {
	return []string{l.Tid, l.ID, l.Name}
}

// tidKeys indexes items by typed id only.
func tidKeys(it Item) []string {
	return []string{it.TID()}
}

// Tree is the resolved chaos tree with its tree-wide id index.
type Tree struct {
	Root  *Category
	Index *Lookup[Item]
}

// Build resolves a loaded directory into the internal model.
func Build(dir *chaosdir.Directory) (*Tree, error) {
	idx := NewLookup[Item]("id", "/", nil, tidKeys)
	root, err := buildCategory(dir, "", nil, idx)
	if err != nil {
		return nil, err
	}
	return &Tree{Root: root, Index: idx}, nil
}

// buildCategory resolves one directory level. The label scope a child
// sees is a copy of its parent's plus the labels declared locally.
func buildCategory(dir *chaosdir.Directory, parentPath string, parentScope *Lookup[*Label], idx *Lookup[Item]) (*Category, error) {
	catPath := joinPath(parentPath, dir.Category.Name)
	labelScope := NewLookup[*Label]("label", catPath, parentScope, labelKeys)

	if dir.Labels != nil {
		for i, entry := range dir.Labels.Labels {
			lm, err := entry.Resolve()
			if err != nil {
				return nil, fmt.Errorf("%s: labels[%d]: %w", dir.Path, i, err)
			}
			label := newLabel(lm)
			if err := labelScope.Add(label, false); err != nil {
				return nil, err
			}
			if err := idx.Add(label, false); err != nil {
				return nil, err
			}
		}
	}

	cat := &Category{
		Meta: Meta{
			Tid:      model.TID(model.KindCategory, dir.Category.ID),
			ID:       dir.Category.ID,
			Name:     dir.Category.Name,
			Desc:     dir.Category.Desc,
			Enabled:  dir.Category.Enabled,
			Priority: dir.Category.Priority,
			Path:     catPath,
		},
		Deadline: dir.Category.Deadline,
	}

	labels, err := resolveRefs(labelScope, dir.Category.Labels)
	if err != nil {
		return nil, err
	}
	cat.Labels = labels

	if err := idx.AddDummy(cat.Tid); err != nil {
		return nil, err
	}

	for _, sub := range dir.Subdirs {
		subCat, err := buildCategory(sub, catPath, labelScope, idx)
		if err != nil {
			return nil, err
		}
		cat.Subcategories = append(cat.Subcategories, subCat)
	}

	for _, task := range dir.Tasks {
		resolved, err := buildTaskDoc(task, catPath, labelScope, idx)
		if err != nil {
			return nil, err
		}
		cat.Tasks = append(cat.Tasks, resolved)
	}

	if err := idx.Add(cat, true); err != nil {
		return nil, err
	}
	return cat, nil
}

// buildTaskDoc resolves a task-file document.
func buildTaskDoc(task model.Task, parentPath string, scope *Lookup[*Label], idx *Lookup[Item]) (Task, error) {
	if task.Group != nil {
		return buildGroup(task.Group, parentPath, scope, idx)
	}
	return buildWorkable(task.Workable, parentPath, scope, idx)
}

// buildGroup resolves a group task and its subtask tree. The group's tid
// is reserved before its subtasks are built.
func buildGroup(g *model.GroupTask, parentPath string, scope *Lookup[*Label], idx *Lookup[Item]) (*Group, error) {
	labels, err := resolveRefs(scope, g.Labels)
	if err != nil {
		return nil, err
	}
	group := &Group{
		Meta:     newMeta(model.KindGroupTask, g.Item, parentPath),
		Deadline: g.Deadline,
		Labels:   labels,
		Subtasks: []Task{},
	}
	if err := idx.AddDummy(group.Tid); err != nil {
		return nil, err
	}
	for _, sub := range g.Subtasks {
		resolved, err := buildSubtask(sub, group.Path, scope, idx)
		if err != nil {
			return nil, err
		}
		group.Subtasks = append(group.Subtasks, resolved)
	}
	if err := idx.Add(group, true); err != nil {
		return nil, err
	}
	return group, nil
}

// buildWorkable resolves a workable task.
func buildWorkable(w *model.WorkableTask, parentPath string, scope *Lookup[*Label], idx *Lookup[Item]) (*Workable, error) {
	labels, err := resolveRefs(scope, w.Labels)
	if err != nil {
		return nil, err
	}
	workable := &Workable{
		Meta:     newMeta(model.KindWorkableTask, w.Item, parentPath),
		Deadline: w.Deadline,
		Labels:   labels,
		Complete: w.Complete,
		NextSlot: w.NextSlot,
		LastSlot: w.LastSlot,
	}
	if err := idx.Add(workable, false); err != nil {
		return nil, err
	}
	return workable, nil
}

// buildSubtask resolves one subtasks entry. Bare strings become workable
// tasks named by the string; "..." stays a placeholder.
func buildSubtask(sub model.Subtask, parentPath string, scope *Lookup[*Label], idx *Lookup[Item]) (Task, error) {
	switch {
	case sub.Group != nil:
		return buildGroup(sub.Group, parentPath, scope, idx)
	case sub.Workable != nil:
		return buildWorkable(sub.Workable, parentPath, scope, idx)
	case sub.Ellipsis:
		return Ellipsis{}, nil
	default:
		w, err := model.WorkableFromString(sub.Ref)
		if err != nil {
			return nil, err
		}
		return buildWorkable(w, parentPath, scope, idx)
	}
}

// newLabel resolves a parsed label model.
func newLabel(lm *model.Label) *Label {
	return &Label{
		Meta: Meta{
			Tid:      model.TID(model.KindLabel, lm.ID),
			ID:       lm.ID,
			Name:     lm.Name,
			Desc:     lm.Desc,
			Enabled:  lm.Enabled,
			Priority: lm.Priority,
		},
		Labels: lm.Labels,
	}
}

// newMeta builds resolved metadata for an item below parentPath.
func newMeta(kind model.Kind, it model.Item, parentPath string) Meta {
	return Meta{
		Tid:      model.TID(kind, it.ID),
		ID:       it.ID,
		Name:     it.Name,
		Desc:     it.Desc,
		Enabled:  it.Enabled,
		Priority: it.Priority,
		Path:     joinPath(parentPath, it.Name),
	}
}

// resolveRefs expands label references (name, id, or tid) to full labels
// through the given scope.
func resolveRefs(scope *Lookup[*Label], refs []string) ([]*Label, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	labels := make([]*Label, 0, len(refs))
	for _, ref := range refs {
		label, err := scope.Get(ref)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// joinPath joins item names with slashes. Names cannot contain slashes,
// so the result is unambiguous.
func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
