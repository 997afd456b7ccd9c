package resolve

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chaos-tools/chaos-assistant/internal/chaosdir"
	"github.com/chaos-tools/chaos-assistant/internal/model"
)

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func decodeCategory(t *testing.T, src string) model.Category {
	t.Helper()
	var c model.Category
	require.NoError(t, yaml.Unmarshal([]byte(src), &c))
	return c
}

func decodeLabels(t *testing.T, src string) *model.LabelsFile {
	t.Helper()
	var f model.LabelsFile
	require.NoError(t, yaml.Unmarshal([]byte(src), &f))
	return &f
}

func decodeTask(t *testing.T, src string) model.Task {
	t.Helper()
	var task model.Task
	require.NoError(t, yaml.Unmarshal([]byte(src), &task))
	return task
}

// fixtureDir builds the in-memory equivalent of a small chaos tree:
// a root with two labels and a task file, plus a work subcategory.
func fixtureDir(t *testing.T) *chaosdir.Directory {
	t.Helper()
	return &chaosdir.Directory{
		Path:     "root",
		Category: decodeCategory(t, "id: root\nname: Root\nlabels: [home]"),
		Labels: decodeLabels(t, `
labels:
  - home
  - {name: Deep Work, id: deep}
`),
		Tasks: []model.Task{
			decodeTask(t, `
id: report
name: Write report
complete: 45
labels: [deep, L-home]
`),
		},
		Subdirs: []*chaosdir.Directory{
			{
				Path:     "root/work",
				Category: decodeCategory(t, "id: work\nname: Work"),
				Tasks: []model.Task{
					decodeTask(t, `
id: plan
name: Plan
labels: [Deep Work]
subtasks:
  - "..."
  - buy milk
  - id: draft
    name: Draft outline
    complete: true
`),
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	tree, err := Build(fixtureDir(t))
	require.NoError(t, err)

	root := tree.Root
	assert.Equal(t, "C-root", root.Tid)
	assert.Equal(t, "Root", root.Path)
	require.Len(t, root.Labels, 1)
	assert.Equal(t, "L-home", root.Labels[0].Tid)

	// labels resolve by id, tid, or name through the scope
	require.Len(t, root.Tasks, 1)
	report, ok := root.Tasks[0].(*Workable)
	require.True(t, ok)
	assert.Equal(t, "W-report", report.Tid)
	assert.Equal(t, "Root/Write report", report.Path)
	require.Len(t, report.Labels, 2)
	assert.Equal(t, "L-deep", report.Labels[0].Tid)
	assert.Equal(t, "L-home", report.Labels[1].Tid)

	// the subcategory inherits the parent's label scope
	require.Len(t, root.Subcategories, 1)
	work := root.Subcategories[0]
	assert.Equal(t, "Root/Work", work.Path)
	require.Len(t, work.Tasks, 1)
	plan, ok := work.Tasks[0].(*Group)
	require.True(t, ok)
	assert.Equal(t, "Root/Work/Plan", plan.Path)
	require.Len(t, plan.Labels, 1)
	assert.Equal(t, "L-deep", plan.Labels[0].Tid)

	// subtask shapes: placeholder, bare-string workable, full workable
	require.Len(t, plan.Subtasks, 3)
	assert.IsType(t, Ellipsis{}, plan.Subtasks[0])
	milk, ok := plan.Subtasks[1].(*Workable)
	require.True(t, ok)
	assert.Equal(t, "buy milk", milk.Name)
	assert.Equal(t, "Root/Work/Plan/buy milk", milk.Path)
	draft, ok := plan.Subtasks[2].(*Workable)
	require.True(t, ok)
	assert.True(t, draft.Complete.Done())

	// everything except the placeholder is indexed by tid
	for _, tid := range []string{"C-root", "C-work", "L-home", "L-deep", "W-report", "T-plan", "W-draft"} {
		_, err := tree.Index.Get(tid)
		assert.NoError(t, err, tid)
	}
	got, err := tree.Index.Get("T-plan")
	require.NoError(t, err)
	assert.Same(t, plan, got.(*Group))
}

func TestBuildUnknownLabel(t *testing.T) {
	dir := &chaosdir.Directory{
		Path:     "root",
		Category: decodeCategory(t, "name: Root"),
		Tasks:    []model.Task{decodeTask(t, "name: X\nlabels: [nope]")},
	}
	_, err := Build(dir)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "nope", lookupErr.Key)
}

func TestBuildChildLabelInvisibleToParent(t *testing.T) {
	// the child declares a label; the parent's own task cannot use it
	dir := &chaosdir.Directory{
		Path:     "root",
		Category: decodeCategory(t, "name: Root"),
		Tasks:    []model.Task{decodeTask(t, "name: X\nlabels: [childonly]")},
		Subdirs: []*chaosdir.Directory{
			{
				Path:     "root/sub",
				Category: decodeCategory(t, "name: Sub"),
				Labels:   decodeLabels(t, "labels: [childonly]"),
			},
		},
	}
	_, err := Build(dir)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "childonly", lookupErr.Key)
}

func TestBuildDuplicateIDs(t *testing.T) {
	t.Run("two workables with one id", func(t *testing.T) {
		dir := &chaosdir.Directory{
			Path:     "root",
			Category: decodeCategory(t, "name: Root"),
			Tasks: []model.Task{
				decodeTask(t, "id: x\nname: First"),
				decodeTask(t, "id: x\nname: Second"),
			},
		}
		_, err := Build(dir)
		var keyErr *KeyError
		require.ErrorAs(t, err, &keyErr)
		assert.Equal(t, "W-x", keyErr.Key)
	})

	t.Run("nested group reuses its parent's id", func(t *testing.T) {
		dir := &chaosdir.Directory{
			Path:     "root",
			Category: decodeCategory(t, "name: Root"),
			Tasks: []model.Task{
				decodeTask(t, `
id: x
name: Outer
subtasks:
  - id: x
    name: Inner
    subtasks: []
`),
			},
		}
		_, err := Build(dir)
		var keyErr *KeyError
		require.ErrorAs(t, err, &keyErr)
		assert.Equal(t, "T-x", keyErr.Key)
	})

	t.Run("same id under different kinds is fine", func(t *testing.T) {
		dir := &chaosdir.Directory{
			Path:     "root",
			Category: decodeCategory(t, "id: x\nname: Root"),
			Tasks: []model.Task{
				decodeTask(t, "id: x\nname: Group\nsubtasks: []"),
				decodeTask(t, "id: x\nname: Workable"),
			},
		}
		_, err := Build(dir)
		require.NoError(t, err)
	})
}

func TestTreeEncode(t *testing.T) {
	tree, err := Build(fixtureDir(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tree.Encode(&buf))
	out := buf.String()

	for _, want := range []string{
		"tid: C-root",
		"path: Root/Work",
		"tid: W-report",
		"complete: 45",
		"...",
	} {
		assert.True(t, strings.Contains(out, want), "output missing %q:\n%s", want, out)
	}
}

func TestExportYAML(t *testing.T) {
	tree, err := Build(fixtureDir(t))
	require.NoError(t, err)

	t.Run("writes a parseable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.yaml")
		require.NoError(t, tree.ExportYAML(path))

		var doc map[string]interface{}
		data := readFile(t, path)
		require.NoError(t, yaml.Unmarshal(data, &doc))
		assert.Equal(t, "C-root", doc["tid"])
	})

	t.Run("rejects a directory path", func(t *testing.T) {
		assert.Error(t, tree.ExportYAML(t.TempDir()))
	})

	t.Run("rejects a non-yaml extension", func(t *testing.T) {
		assert.Error(t, tree.ExportYAML(filepath.Join(t.TempDir(), "export.json")))
	})
}
