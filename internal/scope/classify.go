package scope

import (
	"github.com/reverie-ui/reverie/internal/ast"
	"github.com/reverie-ui/reverie/internal/ir"
)

// CallTarget is the sealed classification of a call's resolved callee.
// The lowering step pattern-matches exhaustively on this, so recognizing a
// new call form is a one-place change here.
type CallTarget interface {
	callTarget()
}

// StoreMethodCall is a method call on a bound store: <store>.<method>(...).
type StoreMethodCall struct {
	Ref    ir.StoreRef
	Method string
}

// NamespaceCall is a recognized helper call, either <namespace>.<fn>(...)
// or a direct helper like createStore(...).
type NamespaceCall struct {
	Namespace Namespace
	Fn        string
}

// UnknownCall is every other callee shape. Name carries the unresolved
// root identifier when there is one, for the diagnostic.
type UnknownCall struct {
	Name string
}

func (*StoreMethodCall) callTarget() {}
func (*NamespaceCall) callTarget()   {}
func (*UnknownCall) callTarget()     {}

// Classify resolves a call's callee through the scope into a closed
// variant. It never errors; rejection of UnknownCall is the caller's
// policy decision.
func Classify(call *ast.Call, s *Scope) CallTarget {
	switch callee := call.Callee.(type) {
	case *ast.Ident:
		b, ok := s.Resolve(callee.Name)
		if !ok {
			return &UnknownCall{Name: callee.Name}
		}
		if nb, ok := b.(*NamespaceBinding); ok && nb.Helper != "" {
			return &NamespaceCall{Namespace: nb.Namespace, Fn: nb.Helper}
		}
		return &UnknownCall{Name: callee.Name}

	case *ast.Member:
		root, ok := callee.Target.(*ast.Ident)
		if !ok {
			return &UnknownCall{}
		}
		b, ok := s.Resolve(root.Name)
		if !ok {
			return &UnknownCall{Name: root.Name}
		}
		switch bound := b.(type) {
		case *StoreBinding:
			return &StoreMethodCall{Ref: bound.Ref, Method: callee.Property}
		case *NamespaceBinding:
			if bound.Helper != "" {
				return &UnknownCall{Name: root.Name}
			}
			return &NamespaceCall{Namespace: bound.Namespace, Fn: callee.Property}
		default:
			return &UnknownCall{Name: root.Name}
		}

	default:
		return &UnknownCall{}
	}
}
