// Package schema validates emitted scenario JSON against the embedded CUE
// definition of the output format. Validation runs before a compiled
// scenario is accepted into a snapshot, so a compiler regression can never
// persist malformed output.
package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed scenario.cue
var schemaSource string

// ValidationError is one schema violation with its JSON path.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Validator checks scenario JSON against the #Scenario definition.
// A Validator is safe for concurrent use once constructed.
type Validator struct {
	scenario cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource, cue.Filename("scenario.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile scenario schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Scenario: %w", err)
	}
	return &Validator{scenario: def}, nil
}

// Validate checks one scenario document. It returns all violations found,
// not just the first; an empty slice means the document conforms.
func (v *Validator) Validate(scenarioJSON []byte) []ValidationError {
	val := v.scenario.Context().CompileBytes(scenarioJSON, cue.Filename("scenario.json"))
	if err := val.Err(); err != nil {
		return cueErrorList(err)
	}

	unified := v.scenario.Unify(val)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return cueErrorList(err)
	}
	return nil
}

// cueErrorList flattens a CUE error into path-tagged violations.
func cueErrorList(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		path := ""
		if p := e.Path(); len(p) > 0 {
			for i, elem := range p {
				if i > 0 {
					path += "."
				}
				path += elem
			}
		}
		out = append(out, ValidationError{
			Path:    path,
			Message: e.Error(),
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error()})
	}
	return out
}
