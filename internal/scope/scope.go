// Package scope resolves identifiers used inside authoring modules to
// their compile-time meaning: a store binding, a recognized helper
// namespace, or an event-handler parameter.
//
// Resolution is a hard boundary. Handlers may not close over arbitrary
// outer variables, because the compiled IR must be replayable without the
// original scripting environment; any name that does not resolve through
// this package is a compile error.
package scope

import (
	"fmt"

	"github.com/reverie-ui/reverie/internal/ir"
)

// Namespace identifies a recognized helper namespace of the host
// authoring framework.
type Namespace string

const (
	NamespaceNavigation Namespace = "navigation"
	NamespaceUI         Namespace = "ui"
	NamespaceSystem     Namespace = "system"
	NamespaceAPI        Namespace = "api"
	NamespaceStore      Namespace = "store"
)

// Binding is the sealed interface over what an identifier can mean.
type Binding interface {
	binding()
}

// StoreBinding marks an identifier holding a store instance declared
// earlier in the same module (or a transaction callback parameter bound to
// the enclosing store).
type StoreBinding struct {
	Ref ir.StoreRef
}

// NamespaceBinding marks an identifier imported from the host framework.
// Helper is non-empty when the identifier is itself a callable helper
// (e.g. createStore, request) rather than a namespace object.
type NamespaceBinding struct {
	Namespace Namespace
	Helper    string
}

// EventParamBinding marks a declared parameter of the handler currently
// being compiled.
type EventParamBinding struct{}

func (*StoreBinding) binding()      {}
func (*NamespaceBinding) binding()  {}
func (*EventParamBinding) binding() {}

// FrameworkModule is the import specifier whose names carry framework
// bindings. Imports from anywhere else bind nothing.
const FrameworkModule = "reverie"

// FrameworkBindings returns the pre-populated table of importable names
// the host authoring framework defines.
func FrameworkBindings() map[string]Binding {
	return map[string]Binding{
		"navigation":  &NamespaceBinding{Namespace: NamespaceNavigation},
		"ui":          &NamespaceBinding{Namespace: NamespaceUI},
		"system":      &NamespaceBinding{Namespace: NamespaceSystem},
		"api":         &NamespaceBinding{Namespace: NamespaceAPI},
		"createStore": &NamespaceBinding{Namespace: NamespaceStore, Helper: "createStore"},
		"request":     &NamespaceBinding{Namespace: NamespaceAPI, Helper: "request"},
	}
}

// Scope is one identifier table. Module compilation populates a root scope
// during the collection pass; each handler compiles against an immutable
// child of it, so handlers can be lowered in any order or in parallel.
type Scope struct {
	parent   *Scope
	bindings map[string]Binding
}

// New creates an empty root scope.
func New() *Scope {
	return &Scope{bindings: make(map[string]Binding)}
}

// Child derives a scope for a handler or callback body. Bindings added to
// the child never leak into the parent.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, bindings: make(map[string]Binding)}
}

// Bind associates name with b in this scope. Rebinding a name already
// bound in the same scope is an error; shadowing a parent binding is not.
func (s *Scope) Bind(name string, b Binding) error {
	if _, ok := s.bindings[name]; ok {
		return fmt.Errorf("duplicate declaration of %q", name)
	}
	s.bindings[name] = b
	return nil
}

// BindStore binds name to a store reference.
func (s *Scope) BindStore(name string, ref ir.StoreRef) error {
	return s.Bind(name, &StoreBinding{Ref: ref})
}

// BindEventParam binds a handler parameter name.
func (s *Scope) BindEventParam(name string) error {
	return s.Bind(name, &EventParamBinding{})
}

// Resolve looks name up through this scope and its parents.
// The second result is false when the identifier is unresolved.
func (s *Scope) Resolve(name string) (Binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}
