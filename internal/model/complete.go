package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Complete is a task's level of completeness: either a bool or a
// percentage in [0, 100]. The zero value is "not complete".
type Complete struct {
	isPercent bool
	percent   float64
	done      bool
}

// CompleteBool returns a boolean completeness value.
func CompleteBool(done bool) Complete {
	return Complete{done: done}
}

// CompletePercent returns a percentage completeness value.
func CompletePercent(pct float64) (Complete, error) {
	if pct < 0 || pct > 100 {
		return Complete{}, fmt.Errorf("invalid complete %v: must be between 0 and 100", pct)
	}
	return Complete{isPercent: true, percent: pct}, nil
}

// IsPercent reports whether the value was given as a percentage.
func (c Complete) IsPercent() bool {
	return c.isPercent
}

// Percent returns completeness as a percentage; booleans map to 0 or 100.
func (c Complete) Percent() float64 {
	if c.isPercent {
		return c.percent
	}
	if c.done {
		return 100
	}
	return 0
}

// Done reports whether the task counts as finished.
func (c Complete) Done() bool {
	return c.Percent() >= 100
}

// String renders the value the way it was given.
func (c Complete) String() string {
	if c.isPercent {
		return fmt.Sprintf("%g%%", c.percent)
	}
	return fmt.Sprintf("%t", c.done)
}

// UnmarshalYAML decodes a bool or numeric scalar.
func (c *Complete) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("complete must be a bool or number, got %s", nodeKind(value))
	}
	var b bool
	if err := value.Decode(&b); err == nil {
		*c = CompleteBool(b)
		return nil
	}
	var pct float64
	if err := value.Decode(&pct); err != nil {
		return fmt.Errorf("complete must be a bool or number, got %q", value.Value)
	}
	parsed, err := CompletePercent(pct)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the value the way it was given.
func (c Complete) MarshalYAML() (interface{}, error) {
	if c.isPercent {
		return c.percent, nil
	}
	return c.done, nil
}

// MarshalJSON encodes the value the way it was given.
func (c Complete) MarshalJSON() ([]byte, error) {
	if c.isPercent {
		return json.Marshal(c.percent)
	}
	return json.Marshal(c.done)
}

// UnmarshalJSON decodes a bool or number.
func (c *Complete) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = CompleteBool(b)
		return nil
	}
	var pct float64
	if err := json.Unmarshal(data, &pct); err != nil {
		return fmt.Errorf("complete must be a bool or number")
	}
	parsed, err := CompletePercent(pct)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
