package harness

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/reverie-ui/reverie/internal/ast"
	"github.com/reverie-ui/reverie/internal/compiler"
	"github.com/reverie-ui/reverie/internal/scenario"
)

// Result holds the outcome of running one conformance scenario.
type Result struct {
	// Compiled is the compiled scenario. Nil when compilation failed.
	Compiled *scenario.Scenario

	// Emitted is the serialized scenario JSON. Nil when compilation failed.
	Emitted []byte

	// Hash is the content-addressed identity of the emitted JSON.
	Hash string

	// Diagnostic is the compilation error, when compilation failed.
	Diagnostic *compiler.CompileError
}

// Run compiles the scenario's module and evaluates its expectations.
// Returned errors are conformance failures; infrastructure problems
// (unreadable files, malformed ASTs) also surface as errors.
func Run(s *Scenario) (*Result, []error) {
	data, err := os.ReadFile(s.Module)
	if err != nil {
		return nil, []error{fmt.Errorf("reading module: %w", err)}
	}
	module, err := ast.UnmarshalModule(data)
	if err != nil {
		return nil, []error{fmt.Errorf("decoding module: %w", err)}
	}

	compiled, err := compiler.CompileModule(module)
	if err != nil {
		var diag *compiler.CompileError
		if !errors.As(err, &diag) {
			return nil, []error{fmt.Errorf("compiling module: %w", err)}
		}
		result := &Result{Diagnostic: diag}
		return result, checkDiagnostic(s, diag)
	}

	if s.Expect != nil {
		return nil, []error{fmt.Errorf("expected diagnostic %s, but compilation succeeded", s.Expect.Error)}
	}

	emitted, err := compiled.Encode()
	if err != nil {
		return nil, []error{fmt.Errorf("encoding scenario: %w", err)}
	}
	hash, err := compiled.Hash()
	if err != nil {
		return nil, []error{fmt.Errorf("hashing scenario: %w", err)}
	}

	result := &Result{Compiled: compiled, Emitted: emitted, Hash: hash}
	return result, checkAssertions(s, result)
}

// checkDiagnostic matches an actual compilation failure against the
// scenario's expect clause.
func checkDiagnostic(s *Scenario, diag *compiler.CompileError) []error {
	if s.Expect == nil {
		return []error{fmt.Errorf("unexpected diagnostic: %v", diag)}
	}
	var failures []error
	if diag.Code != s.Expect.Error {
		failures = append(failures, fmt.Errorf("diagnostic code = %s, want %s (message: %s)",
			diag.Code, s.Expect.Error, diag.Message))
	}
	if s.Expect.Message != "" && !strings.Contains(diag.Message, s.Expect.Message) {
		failures = append(failures, fmt.Errorf("diagnostic message %q does not contain %q",
			diag.Message, s.Expect.Message))
	}
	return failures
}

// checkAssertions evaluates every assertion against a successful result.
// All failures are collected so a broken scenario reports everything at
// once.
func checkAssertions(s *Scenario, result *Result) []error {
	var failures []error
	for i, assertion := range s.Assertions {
		if err := checkAssertion(&assertion, result.Compiled); err != nil {
			failures = append(failures, fmt.Errorf("assertions[%d] (%s): %w", i, assertion.Type, err))
		}
	}
	return failures
}

func checkAssertion(a *Assertion, compiled *scenario.Scenario) error {
	switch a.Type {
	case AssertActionCount:
		if len(compiled.Actions) != a.Count {
			return fmt.Errorf("got %d root action(s), want %d", len(compiled.Actions), a.Count)
		}

	case AssertActionKinds:
		if len(compiled.Actions) != len(a.Kinds) {
			return fmt.Errorf("got %d root action(s), want %d", len(compiled.Actions), len(a.Kinds))
		}
		for i, want := range a.Kinds {
			if got := compiled.Actions[i].ActionKind(); got != want {
				return fmt.Errorf("actions[%d] kind = %s, want %s", i, got, want)
			}
		}

	case AssertActionIDs:
		if len(compiled.Actions) != len(a.IDs) {
			return fmt.Errorf("got %d root action(s), want %d", len(compiled.Actions), len(a.IDs))
		}
		for i, want := range a.IDs {
			if got := compiled.Actions[i].ActionID(); got != want {
				return fmt.Errorf("actions[%d] id = %s, want %s", i, got, want)
			}
		}

	case AssertStoreDeclared:
		for _, decl := range compiled.Stores {
			if decl.Name != a.Store {
				continue
			}
			if a.Scope != "" && string(decl.StoreRef.Scope) != a.Scope {
				return fmt.Errorf("store %q scope = %s, want %s", a.Store, decl.StoreRef.Scope, a.Scope)
			}
			if a.Storage != "" && string(decl.StoreRef.Storage) != a.Storage {
				return fmt.Errorf("store %q storage = %s, want %s", a.Store, decl.StoreRef.Storage, a.Storage)
			}
			return nil
		}
		return fmt.Errorf("store %q not declared", a.Store)

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
