package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario: a module to compile and
// expectations about the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files use it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Module is the path to the module AST JSON file, relative to the
	// scenario file location.
	Module string `yaml:"module"`

	// Expect, when present, declares that compilation must fail with the
	// given diagnostic. Scenarios with an Expect clause carry no
	// assertions; there is no output to assert on.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate the compiled scenario output.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectClause declares an expected compilation failure.
type ExpectClause struct {
	// Error is the expected diagnostic code (e.g., "E202").
	Error string `yaml:"error"`

	// Message, if set, must be a substring of the diagnostic message.
	Message string `yaml:"message,omitempty"`
}

// Assertion validates one property of the compiled output.
type Assertion struct {
	// Type is one of action_count, action_kinds, action_ids,
	// store_declared.
	Type string `yaml:"type"`

	// Count is the expected number of root actions (action_count).
	Count int `yaml:"count,omitempty"`

	// Kinds are the expected root action kinds in order (action_kinds).
	Kinds []string `yaml:"kinds,omitempty"`

	// IDs are the expected root action ids in order (action_ids).
	IDs []string `yaml:"ids,omitempty"`

	// Store name and reference for store_declared.
	Store   string `yaml:"store,omitempty"`
	Scope   string `yaml:"scope,omitempty"`
	Storage string `yaml:"storage,omitempty"`
}

// Assertion type constants.
const (
	AssertActionCount   = "action_count"
	AssertActionKinds   = "action_kinds"
	AssertActionIDs     = "action_ids"
	AssertStoreDeclared = "store_declared"
)

// LoadScenario reads and parses a scenario YAML file. Module paths are
// resolved relative to the scenario file. Unknown fields are rejected so
// typos fail loudly instead of silently asserting nothing.
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

	if scenario.Module != "" && !filepath.IsAbs(scenario.Module) {
		scenario.Module = filepath.Join(filepath.Dir(path), scenario.Module)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Module == "" {
		return fmt.Errorf("module is required")
	}
	if _, err := os.Stat(s.Module); os.IsNotExist(err) {
		return fmt.Errorf("module file not found: %s", s.Module)
	}

	if s.Expect != nil {
		if s.Expect.Error == "" {
			return fmt.Errorf("expect: error code is required")
		}
		if len(s.Assertions) > 0 {
			return fmt.Errorf("expect and assertions are mutually exclusive")
		}
		return nil
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertActionCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertActionKinds:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for action_kinds", index)
		}
	case AssertActionIDs:
		if len(a.IDs) == 0 {
			return fmt.Errorf("assertions[%d]: ids list is required for action_ids", index)
		}
	case AssertStoreDeclared:
		if a.Store == "" {
			return fmt.Errorf("assertions[%d]: store name is required for store_declared", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
