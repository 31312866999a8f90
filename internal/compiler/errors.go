package compiler

import (
	"fmt"

	"github.com/reverie-ui/reverie/internal/ast"
)

// ErrorKind is the diagnostic taxonomy: reference errors (identifier does
// not resolve), capability errors (construct categorically outside the
// declarative model), and shape errors (recognized call used with the
// wrong argument shape).
type ErrorKind string

const (
	KindReference  ErrorKind = "reference"
	KindCapability ErrorKind = "capability"
	KindShape      ErrorKind = "shape"
)

// Diagnostic error codes (E200-E299).
const (
	ErrCodeGeneric         = "E200"
	ErrCodeExternalRef     = "E201" // identifier not bound to store/namespace/parameter
	ErrCodeAsyncHandler    = "E202" // async handler
	ErrCodeUnsupported     = "E203" // unsupported statement/expression shape
	ErrCodeRequestShape    = "E204" // malformed network request configuration
	ErrCodeKeyPath         = "E205" // non-literal key path
	ErrCodeUnknownMethod   = "E206" // unrecognized method on a recognized receiver
	ErrCodeStoreDecl       = "E207" // malformed store declaration
	ErrCodeArgumentShape   = "E208" // wrong argument shape on a recognized helper
	ErrCodeEmptyHandler    = "E209" // handler with no statements
	ErrCodeNotACondition   = "E210" // expression cannot be lowered to a condition
)

// CompileError is a typed compilation diagnostic. Compilation of a module
// is all-or-nothing: the first CompileError aborts it and no partial JSON
// is emitted.
type CompileError struct {
	Kind      ErrorKind
	Code      string
	Construct string // construct name for capability errors, "" otherwise
	Message   string
	Pos       ast.Position
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// errExternalRef reports an identifier that resolves to nothing. Handlers
// may not close over arbitrary outer variables; the compiled IR has to be
// replayable without the original scripting environment.
func errExternalRef(name string, pos ast.Position) *CompileError {
	return &CompileError{
		Kind:    KindReference,
		Code:    ErrCodeExternalRef,
		Message: fmt.Sprintf("Cannot reference external variable %q", name),
		Pos:     pos,
	}
}

// errAsyncHandler rejects async handlers: the native runtime executing the
// IR is synchronous and has no notion of awaiting.
func errAsyncHandler(pos ast.Position) *CompileError {
	return &CompileError{
		Kind:      KindCapability,
		Code:      ErrCodeAsyncHandler,
		Construct: "async handler",
		Message:   "Async handlers are not supported",
		Pos:       pos,
	}
}

// errUnsupported rejects a construct the declarative model cannot express.
func errUnsupported(construct string, pos ast.Position) *CompileError {
	return &CompileError{
		Kind:      KindCapability,
		Code:      ErrCodeUnsupported,
		Construct: construct,
		Message:   fmt.Sprintf("Unsupported construct: %s", construct),
		Pos:       pos,
	}
}

func errShape(code, message string, pos ast.Position) *CompileError {
	return &CompileError{
		Kind:    KindShape,
		Code:    code,
		Message: message,
		Pos:     pos,
	}
}
