// Package schema validates chaos files against the embedded JSON Schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/chaos-tools/chaos-assistant/internal/model"
)

// Kind identifies which file schema to validate against.
type Kind string

const (
	KindLabels   Kind = "labels"
	KindCategory Kind = "category"
	KindTask     Kind = "task"
)

// Kinds lists all file schema kinds.
func Kinds() []Kind {
	return []Kind{KindLabels, KindCategory, KindTask}
}

// Source returns the JSON source of a schema.
func Source(kind Kind) ([]byte, error) {
	switch kind {
	case KindLabels:
		return []byte(labelsSchema), nil
	case KindCategory:
		return []byte(categorySchema), nil
	case KindTask:
		return []byte(taskSchema), nil
	default:
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
}

// FileName returns the on-disk name of an exported schema.
func FileName(kind Kind) string {
	return string(kind) + ".schema.json"
}

var (
	compileOnce sync.Once
	compileErr  error
	compiled    map[Kind]*jsonschema.Schema
)

// compileAll compiles the embedded schemas once.
func compileAll() {
	compiled = make(map[Kind]*jsonschema.Schema, 3)
	for _, kind := range Kinds() {
		src, err := Source(kind)
		if err != nil {
			compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		url := "chaos://" + FileName(kind)
		if err := compiler.AddResource(url, strings.NewReader(string(src))); err != nil {
			compileErr = fmt.Errorf("add schema %s: %w", kind, err)
			return
		}
		s, err := compiler.Compile(url)
		if err != nil {
			compileErr = fmt.Errorf("compile schema %s: %w", kind, err)
			return
		}
		compiled[kind] = s
	}
}

// ValidationError is a single schema violation with its document location.
type ValidationError struct {
	Path string // dot-notation path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Result holds the outcome of validating one document.
type Result struct {
	Valid  bool
	Errors []error
}

// Err collapses the result into a single error, or nil when valid.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// Validate checks a YAML-decoded document against the schema for kind.
func Validate(kind Kind, doc interface{}) *Result {
	result := &Result{Valid: true, Errors: make([]error, 0)}

	compileOnce.Do(compileAll)
	if compileErr != nil {
		result.Valid = false
		result.Errors = append(result.Errors, compileErr)
		return result
	}

	jsonDoc, err := toJSONValue(doc)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}

	if err := compiled[kind].Validate(jsonDoc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

// toJSONValue converts a YAML-decoded value into the value space produced
// by encoding/json, which is what the validator expects. YAML timestamps
// become wire-format date strings.
func toJSONValue(doc interface{}) (interface{}, error) {
	data, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return nil, fmt.Errorf("encode document for validation: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode document for validation: %w", err)
	}
	return out, nil
}

// normalizeYAML rewrites yaml.v3 decode artifacts: non-string map keys and
// time.Time values from timestamp resolution.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	case time.Time:
		return val.Format(model.DateLayout)
	default:
		return v
	}
}

// appendSchemaErrors flattens a jsonschema error tree into the result.
func appendSchemaErrors(result *Result, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *Result, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// JSONPointerToPath converts a JSON Pointer (RFC 6901) to a dot-notation
// path: "#/subtasks/0/name" becomes "subtasks[0].name".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}

// Export writes the three schema files into dir, creating it if needed.
// It returns the written file paths.
func Export(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create schema dir: %w", err)
	}
	paths := make([]string, 0, 3)
	for _, kind := range Kinds() {
		src, err := Source(kind)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, FileName(kind))
		if err := os.WriteFile(path, append(src, '\n'), 0644); err != nil {
			return nil, fmt.Errorf("write schema %s: %w", kind, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
