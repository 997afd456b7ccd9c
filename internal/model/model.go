// Package model defines the user-facing chaos item models parsed from YAML.
package model

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	// idRe matches ids: no slashes, dots, or whitespace.
	idRe = regexp.MustCompile(`^[^/.\s]+$`)
	// nameRe matches names: no slashes or newlines.
	nameRe = regexp.MustCompile(`^[^/\n]+$`)
)

// NewID generates a fresh item id (UUID4 hex, no dashes).
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Item holds the fields shared by every chaos item.
type Item struct {
	ID       string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name     string   `yaml:"name" json:"name"`
	Desc     string   `yaml:"desc,omitempty" json:"desc,omitempty"`
	Enabled  bool     `yaml:"enabled" json:"enabled"`
	Priority int      `yaml:"priority" json:"priority"`
	Labels   []string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// defaultItem returns an Item with field defaults applied.
func defaultItem() Item {
	return Item{Enabled: true, Priority: 1}
}

// normalize trims and lowercases the id, generating one when absent,
// and checks the field constraints the schemas also enforce.
func (it *Item) normalize() error {
	it.ID = strings.ToLower(strings.TrimSpace(it.ID))
	if it.ID == "" {
		it.ID = NewID()
	}
	if !idRe.MatchString(it.ID) {
		return fmt.Errorf("invalid id %q: must not contain slashes, dots, or whitespace", it.ID)
	}
	if it.Name == "" {
		return fmt.Errorf("missing name")
	}
	if !nameRe.MatchString(it.Name) {
		return fmt.Errorf("invalid name %q: must not contain slashes or newlines", it.Name)
	}
	if it.Priority < 0 {
		return fmt.Errorf("invalid priority %d: must be non-negative", it.Priority)
	}
	return nil
}

// Label is an item tag. A labels file may declare it as a full object or a
// bare name string.
type Label struct {
	Item `yaml:",inline"`
}

// UnmarshalYAML decodes a label object, applying field defaults.
func (l *Label) UnmarshalYAML(value *yaml.Node) error {
	type plain Label
	p := plain{Item: defaultItem()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*l = Label(p)
	return l.normalize()
}

// LabelFromString creates a label from a bare name string.
func LabelFromString(name string) (*Label, error) {
	l := &Label{Item: defaultItem()}
	l.Name = name
	if err := l.normalize(); err != nil {
		return nil, err
	}
	return l, nil
}

// Category describes a category.yaml document.
type Category struct {
	Item     `yaml:",inline"`
	Deadline *Date `yaml:"deadline,omitempty" json:"deadline,omitempty"`
}

// UnmarshalYAML decodes a category document, applying field defaults.
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	type plain Category
	p := plain{Item: defaultItem()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Category(p)
	return c.normalize()
}

// GroupTask is a task that exists to contain subtasks.
type GroupTask struct {
	Item     `yaml:",inline"`
	Deadline *Date     `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	Subtasks []Subtask `yaml:"subtasks" json:"subtasks"`
}

// UnmarshalYAML decodes a group task, applying field defaults.
func (g *GroupTask) UnmarshalYAML(value *yaml.Node) error {
	type plain GroupTask
	p := plain{Item: defaultItem()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*g = GroupTask(p)
	if g.Subtasks == nil {
		g.Subtasks = []Subtask{}
	}
	return g.normalize()
}

// WorkableTask is a leaf task on which progress is tracked.
type WorkableTask struct {
	Item     `yaml:",inline"`
	Deadline *Date    `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	Complete Complete `yaml:"complete" json:"complete"`
	NextSlot *Date    `yaml:"next_slot,omitempty" json:"next_slot,omitempty"`
	LastSlot *Date    `yaml:"last_slot,omitempty" json:"last_slot,omitempty"`
}

// UnmarshalYAML decodes a workable task, applying field defaults.
func (w *WorkableTask) UnmarshalYAML(value *yaml.Node) error {
	type plain WorkableTask
	p := plain{Item: defaultItem()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*w = WorkableTask(p)
	return w.normalize()
}

// WorkableFromString creates a workable task from a bare name string.
func WorkableFromString(name string) (*WorkableTask, error) {
	w := &WorkableTask{Item: defaultItem()}
	w.Name = name
	if err := w.normalize(); err != nil {
		return nil, err
	}
	return w, nil
}

// Task is the top-level document of a task file: exactly one of a group
// task or a workable task. A mapping with a subtasks key is a group.
type Task struct {
	Group    *GroupTask
	Workable *WorkableTask
}

// UnmarshalYAML dispatches on the presence of a subtasks key.
func (t *Task) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("task document must be a mapping, got %s", nodeKind(value))
	}
	if hasMappingKey(value, "subtasks") {
		var g GroupTask
		if err := value.Decode(&g); err != nil {
			return err
		}
		t.Group = &g
		return nil
	}
	var w WorkableTask
	if err := value.Decode(&w); err != nil {
		return err
	}
	t.Workable = &w
	return nil
}

// MarshalYAML renders the underlying document.
func (t Task) MarshalYAML() (interface{}, error) {
	if t.Group != nil {
		return t.Group, nil
	}
	return t.Workable, nil
}

// LabelsFile describes a labels.yaml document.
type LabelsFile struct {
	Labels []LabelEntry `yaml:"labels" json:"labels"`
}

// LabelEntry is an element of a labels list: a label object or a bare
// name string.
type LabelEntry struct {
	Label *Label
	Name  string // set when the entry was a bare string
}

// UnmarshalYAML decodes a label entry.
func (e *LabelEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		e.Name = s
		return nil
	}
	var l Label
	if err := value.Decode(&l); err != nil {
		return err
	}
	e.Label = &l
	return nil
}

// MarshalYAML renders the entry in its original shape.
func (e LabelEntry) MarshalYAML() (interface{}, error) {
	if e.Label != nil {
		return e.Label, nil
	}
	return e.Name, nil
}

// Resolve returns the entry as a full label, expanding bare strings.
func (e LabelEntry) Resolve() (*Label, error) {
	if e.Label != nil {
		return e.Label, nil
	}
	return LabelFromString(e.Name)
}

// EllipsisMarker is the literal subtask placeholder.
const EllipsisMarker = "..."

// Subtask is an element of a group task's subtasks list: a nested group
// task, a workable task, the "..." placeholder, or a bare string reference.
type Subtask struct {
	Group    *GroupTask
	Workable *WorkableTask
	Ellipsis bool
	Ref      string // set when the entry was a bare non-ellipsis string
}

// UnmarshalYAML decodes a subtask entry.
func (s *Subtask) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var str string
		if err := value.Decode(&str); err != nil {
			return err
		}
		if str == EllipsisMarker {
			s.Ellipsis = true
			return nil
		}
		s.Ref = str
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("subtask must be a mapping or string, got %s", nodeKind(value))
	}
	if hasMappingKey(value, "subtasks") {
		var g GroupTask
		if err := value.Decode(&g); err != nil {
			return err
		}
		s.Group = &g
		return nil
	}
	var w WorkableTask
	if err := value.Decode(&w); err != nil {
		return err
	}
	s.Workable = &w
	return nil
}

// MarshalYAML renders the subtask in its original shape.
func (s Subtask) MarshalYAML() (interface{}, error) {
	switch {
	case s.Group != nil:
		return s.Group, nil
	case s.Workable != nil:
		return s.Workable, nil
	case s.Ellipsis:
		return EllipsisMarker, nil
	default:
		return s.Ref, nil
	}
}

// hasMappingKey reports whether a YAML mapping node has the given key.
func hasMappingKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
