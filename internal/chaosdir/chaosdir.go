// Package chaosdir discovers and loads chaos directory trees.
//
// A chaos directory holds a single category.yaml, an optional labels.yaml,
// any number of task-*.yaml files, and subdirectories which are
// subcategories with the same layout.
package chaosdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chaos-tools/chaos-assistant/internal/model"
	"github.com/chaos-tools/chaos-assistant/internal/schema"
)

// FileSet lists the chaos files found in one directory.
type FileSet struct {
	Dir      string
	Category string   // category.yaml or category.yml
	Labels   string   // labels.yaml or labels.yml, empty if absent
	Tasks    []string // task-*.yaml / task-*.yml, sorted
	Subdirs  []string // subdirectory paths, sorted
}

// Directory is a fully loaded chaos directory tree.
type Directory struct {
	Path     string
	Category model.Category
	Labels   *model.LabelsFile
	Tasks    []model.Task
	Subdirs  []*Directory
}

// Discover finds the chaos files in a single directory without parsing them.
func Discover(dir string) (*FileSet, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat chaos directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read chaos directory: %w", err)
	}

	fs := &FileSet{Dir: dir}
	var categories, labels []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if entry.IsDir() {
			fs.Subdirs = append(fs.Subdirs, full)
			continue
		}
		switch {
		case name == "category.yaml" || name == "category.yml":
			categories = append(categories, full)
		case name == "labels.yaml" || name == "labels.yml":
			labels = append(labels, full)
		case isTaskFile(name):
			fs.Tasks = append(fs.Tasks, full)
		}
	}

	if len(categories) != 1 {
		return nil, fmt.Errorf("%s: category needs a single definition, found %d", dir, len(categories))
	}
	if len(labels) > 1 {
		return nil, fmt.Errorf("%s: there should be either labels.yaml or labels.yml, not both", dir)
	}

	fs.Category = categories[0]
	if len(labels) == 1 {
		fs.Labels = labels[0]
	}
	sort.Strings(fs.Tasks)
	sort.Strings(fs.Subdirs)
	return fs, nil
}

// isTaskFile reports whether name matches task-*.yaml or task-*.yml.
func isTaskFile(name string) bool {
	if !strings.HasPrefix(name, "task-") {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// DecodeDoc reads a YAML file into a generic document for schema validation.
func DecodeDoc(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// CheckFile validates a single chaos file against its schema.
func CheckFile(kind schema.Kind, path string) (*schema.Result, error) {
	doc, err := DecodeDoc(path)
	if err != nil {
		return nil, err
	}
	return schema.Validate(kind, doc), nil
}

// Load reads and validates a chaos directory tree. Every file is checked
// against its schema before being bound to its model; the first failure
// aborts the load.
func Load(dir string) (*Directory, error) {
	fs, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	d := &Directory{Path: dir}

	if err := loadFile(fs.Category, schema.KindCategory, &d.Category); err != nil {
		return nil, err
	}

	if fs.Labels != "" {
		var labels model.LabelsFile
		if err := loadFile(fs.Labels, schema.KindLabels, &labels); err != nil {
			return nil, err
		}
		d.Labels = &labels
	}

	for _, taskPath := range fs.Tasks {
		var task model.Task
		if err := loadFile(taskPath, schema.KindTask, &task); err != nil {
			return nil, err
		}
		d.Tasks = append(d.Tasks, task)
	}

	for _, sub := range fs.Subdirs {
		subDir, err := Load(sub)
		if err != nil {
			return nil, err
		}
		d.Subdirs = append(d.Subdirs, subDir)
	}

	return d, nil
}

// loadFile schema-validates a YAML file and decodes it into out.
func loadFile(path string, kind schema.Kind, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if result := schema.Validate(kind, doc); !result.Valid {
		return fmt.Errorf("validate %s: %w", path, result.Err())
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
