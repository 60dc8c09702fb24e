package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a registry conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Tables is a CUE tables directory, relative to the scenario file.
	// Empty means the embedded tables.
	Tables string `yaml:"tables,omitempty"`

	// Aliases are registered before the first step and must succeed.
	Aliases []AliasStep `yaml:"aliases,omitempty"`

	// Steps run in order against one registry.
	Steps []Step `yaml:"steps"`
}

// AliasStep is one session alias.
type AliasStep struct {
	Alias     string `yaml:"alias"`
	Canonical string `yaml:"canonical"`
}

// Step exercises one registry operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Key is the parameter key in ODV form, e.g. "CTDTMP_FLAG_W [ITS-90]".
	Key string `yaml:"key"`

	// Canonical is the alias target (add_alias).
	Canonical string `yaml:"canonical,omitempty"`

	// Value is formatted by strfex. Date and time hints take a string.
	Value any `yaml:"value,omitempty"`

	// Flag forces flag formatting (strfex).
	Flag bool `yaml:"flag,omitempty"`

	// Precision overrides the record precision (strfex).
	Precision *int `yaml:"precision,omitempty"`

	// Hint is "date" or "time" (strfex).
	Hint string `yaml:"hint,omitempty"`

	// ErrorColumn requests error column attributes (attrs).
	ErrorColumn bool `yaml:"error_column,omitempty"`

	// Expect checks the step outcome. A step without one must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected step outcome.
type Expect struct {
	// Error is the expected failure kind. Empty means success.
	Error string `yaml:"error,omitempty"`

	// Output is a subset match over the rendered step output.
	Output map[string]string `yaml:"output,omitempty"`
}

// Step operations.
const (
	OpLookup   = "lookup"
	OpContains = "contains"
	OpStrfex   = "strfex"
	OpAttrs    = "attrs"
	OpAddAlias = "add_alias"
)

var validOps = map[string]bool{
	OpLookup:   true,
	OpContains: true,
	OpStrfex:   true,
	OpAttrs:    true,
	OpAddAlias: true,
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected. A relative Tables path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	if scenario.Tables != "" && !filepath.IsAbs(scenario.Tables) {
		scenario.Tables = filepath.Join(filepath.Dir(path), scenario.Tables)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	for i, a := range s.Aliases {
		if a.Alias == "" || a.Canonical == "" {
			return fmt.Errorf("aliases[%d]: alias and canonical are required", i)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	if !validOps[step.Op] {
		return fmt.Errorf("unknown op %q", step.Op)
	}
	if step.Key == "" {
		return fmt.Errorf("key is required")
	}
	switch step.Op {
	case OpAddAlias:
		if step.Canonical == "" {
			return fmt.Errorf("add_alias requires canonical")
		}
	case OpStrfex:
		if step.Value == nil {
			return fmt.Errorf("strfex requires value")
		}
	}
	if step.Expect != nil && step.Expect.Error != "" && len(step.Expect.Output) > 0 {
		return fmt.Errorf("expect cannot name both error and output")
	}
	return nil
}
