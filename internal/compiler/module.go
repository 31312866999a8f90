// Package compiler lowers authoring-module ASTs into the declarative
// scenario output: the Value/Condition IR for expressions and the Action
// IR for event handlers.
//
// Compilation is synchronous, CPU-bound, and all-or-nothing per module.
// It runs as two passes: a collection pass that populates the symbol table
// from imports and store declarations, then a lowering pass that compiles
// module-scope store calls and every handler in the markup tree. The
// passes must run in that order; within the second pass each handler is a
// pure function of its AST fragment and an immutable scope snapshot.
package compiler

import (
	"fmt"

	"github.com/reverie-ui/reverie/internal/ast"
	"github.com/reverie-ui/reverie/internal/ir"
	"github.com/reverie-ui/reverie/internal/scenario"
	"github.com/reverie-ui/reverie/internal/scope"
)

// CompileModule compiles one parsed authoring module. On any diagnostic
// the whole module fails; no partial scenario is ever returned.
func CompileModule(m *ast.Module) (*scenario.Scenario, error) {
	ctx := NewContext()
	out := &scenario.Scenario{Name: m.Name, Actions: []ir.Action{}}

	// Pass 1: collection. Imports and store declarations populate the
	// module scope before anything referencing them is lowered.
	framework := scope.FrameworkBindings()
	for _, stmt := range m.Body {
		switch n := stmt.(type) {
		case *ast.ImportDecl:
			if n.From != scope.FrameworkModule {
				continue
			}
			for _, name := range n.Names {
				b, ok := framework[name]
				if !ok {
					continue
				}
				if err := ctx.scope.Bind(name, b); err != nil {
					return nil, errShape(ErrCodeArgumentShape, err.Error(), n.Pos())
				}
			}

		case *ast.VarDecl:
			decl, err := compileStoreDecl(n, ctx)
			if err != nil {
				return nil, err
			}
			out.Stores = append(out.Stores, decl)

		case *ast.ExprStmt:
			// Lowered in pass 2, once the symbol table is complete.

		default:
			return nil, errUnsupported(
				fmt.Sprintf("%s at module scope", ast.ConstructName(stmt)), stmt.Pos())
		}
	}

	// Pass 2a: module-scope store calls become root actions with
	// content-derived, idempotent identifiers.
	for _, stmt := range m.Body {
		n, ok := stmt.(*ast.ExprStmt)
		if !ok {
			continue
		}
		if err := lowerModuleCall(n, ctx); err != nil {
			return nil, err
		}
	}

	// Pass 2b: the markup tree. Handlers compile in document order, which
	// fixes the root id sequence.
	if m.Root != nil {
		root, err := buildComponent(m.Root, ctx)
		if err != nil {
			return nil, err
		}
		out.Root = root
	}

	out.Actions = ctx.Actions()
	return out, nil
}

// compileStoreDecl consumes `const name = createStore({scope, storage})`.
// Any other module-level declaration is unsupported: handlers cannot close
// over it, so it could never take effect.
func compileStoreDecl(n *ast.VarDecl, ctx *Context) (scenario.StoreDecl, error) {
	var none scenario.StoreDecl

	call, ok := n.Init.(*ast.Call)
	if !ok {
		return none, errUnsupported("variable declaration", n.Pos())
	}
	target, ok := scope.Classify(call, ctx.scope).(*scope.NamespaceCall)
	if !ok || target.Namespace != scope.NamespaceStore {
		return none, errUnsupported("variable declaration", n.Pos())
	}

	ref, err := storeRefArg(call)
	if err != nil {
		return none, err
	}
	if err := ctx.scope.BindStore(n.Name, ref); err != nil {
		return none, errShape(ErrCodeStoreDecl, err.Error(), n.Pos())
	}
	return scenario.StoreDecl{Name: n.Name, StoreRef: ref}, nil
}

// storeRefArg reads the {scope, storage} configuration of createStore.
func storeRefArg(call *ast.Call) (ir.StoreRef, error) {
	var ref ir.StoreRef

	if len(call.Args) != 1 {
		return ref, errShape(ErrCodeStoreDecl,
			"createStore() takes exactly one configuration object", call.Pos())
	}
	obj, ok := call.Args[0].(*ast.ObjectLit)
	if !ok {
		return ref, errShape(ErrCodeStoreDecl,
			"createStore() configuration must be an object literal", call.Args[0].Pos())
	}
	for _, f := range obj.Fields {
		lit, ok := f.Value.(*ast.StringLit)
		if !ok {
			return ref, errShape(ErrCodeStoreDecl,
				fmt.Sprintf("store %s must be a string literal", f.Key), f.Value.Pos())
		}
		switch f.Key {
		case "scope":
			ref.Scope = ir.StoreScope(lit.Value)
		case "storage":
			ref.Storage = ir.StoreStorage(lit.Value)
		default:
			return ref, errShape(ErrCodeStoreDecl,
				fmt.Sprintf("unknown store configuration key %q", f.Key), obj.Pos())
		}
	}
	if !ref.Valid() {
		return ref, errShape(ErrCodeStoreDecl,
			fmt.Sprintf("invalid store reference %q", ref), call.Pos())
	}
	return ref, nil
}

// lowerModuleCall lowers a bare store call at module scope. Only plain
// store operations are allowed here; their identifier derives from content
// so re-declaring the same operation is idempotent.
func lowerModuleCall(stmt *ast.ExprStmt, ctx *Context) error {
	call, ok := stmt.X.(*ast.Call)
	if !ok {
		return errUnsupported(
			fmt.Sprintf("%s at module scope", ast.ConstructName(stmt.X)), stmt.X.Pos())
	}
	target, ok := scope.Classify(call, ctx.scope).(*scope.StoreMethodCall)
	if !ok {
		return errUnsupported("non-store call at module scope", call.Pos())
	}

	action, err := lowerStoreMethod(target, call, ctx.scope)
	if err != nil {
		return err
	}

	var keyPath string
	switch n := action.(type) {
	case *ir.StoreSet:
		keyPath = n.KeyPath
	case *ir.StoreRemove:
		keyPath = n.KeyPath
	case *ir.StoreMerge:
		keyPath = n.KeyPath
	default:
		return errUnsupported(
			fmt.Sprintf("%s at module scope", action.ActionKind()), call.Pos())
	}

	operation := target.Method
	action.SetID(contentID(target.Ref, operation, keyPath))
	ctx.collect(action)
	return nil
}

// buildComponent maps one markup element to its emitted component. A
// function value at a property is an event handler: it compiles to a root
// action and the property's emitted value becomes the action's id.
func buildComponent(el *ast.Element, ctx *Context) (*scenario.Component, error) {
	out := &scenario.Component{Type: el.Type}

	if len(el.Props) > 0 {
		out.Data = make(scenario.DataFields, 0, len(el.Props))
	}
	for _, prop := range el.Props {
		if fn, ok := prop.Value.(*ast.Arrow); ok {
			action, err := CompileHandler(fn, ctx.scope)
			if err != nil {
				return nil, err
			}
			id := ctx.nextRootID()
			assignIDs(action, id)
			ctx.collect(action)
			out.Data = append(out.Data, scenario.DataField{Key: prop.Name, Value: ir.LitString(id)})
			continue
		}

		v, err := compileLitValue(prop.Value)
		if err != nil {
			return nil, err
		}
		out.Data = append(out.Data, scenario.DataField{Key: prop.Name, Value: v})
	}

	for _, child := range el.Children {
		built, err := buildComponent(child, ctx)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, built)
	}
	return out, nil
}
