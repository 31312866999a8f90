package compiler

import (
	"fmt"

	"github.com/reverie-ui/reverie/internal/ir"
	"github.com/reverie-ui/reverie/internal/scope"
)

// Context is the explicit compilation context for one module: the symbol
// table built by the collection pass, the collected root actions, and the
// root id counter. A fresh Context per module is what makes action ids
// reproducible; nothing here survives between compilation runs, and
// independent modules never share a Context.
type Context struct {
	scope        *scope.Scope
	actions      []ir.Action
	seenIDs      map[string]bool
	handlerCount int
}

// NewContext creates a context with an empty module scope.
func NewContext() *Context {
	return &Context{
		scope:   scope.New(),
		actions: []ir.Action{},
		seenIDs: make(map[string]bool),
	}
}

// Scope is the module-level symbol table.
func (c *Context) Scope() *scope.Scope {
	return c.scope
}

// Actions returns the collected root actions in compilation order.
func (c *Context) Actions() []ir.Action {
	return c.actions
}

// nextRootID issues the next handler root identifier, starting at
// action_0. The counter increments once per compiled handler and resets
// with the Context.
func (c *Context) nextRootID() string {
	id := fmt.Sprintf("action_%d", c.handlerCount)
	c.handlerCount++
	return id
}

// collect appends a root action. Actions with a content-derived id are
// idempotent: re-declaring the same operation in the same module context
// collects it once.
func (c *Context) collect(a ir.Action) {
	if c.seenIDs[a.ActionID()] {
		return
	}
	c.seenIDs[a.ActionID()] = true
	c.actions = append(c.actions, a)
}
