package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reverie-ui/reverie/internal/ir"
)

// assignIDs writes the root id onto a compiled tree and derives nested
// node ids from it in document order: root "action_3" gets children
// "action_3.1", "action_3.2", ... Nested ids depend only on tree shape,
// never on iteration order or clocks, so identical input compiles to
// identical ids.
func assignIDs(root ir.Action, rootID string) {
	seq := 0
	ir.Walk(root, func(a ir.Action) {
		if seq == 0 {
			a.SetID(rootID)
		} else {
			a.SetID(rootID + "." + strconv.Itoa(seq))
		}
		seq++
	})
}

// contentID derives the deterministic identifier of a store action
// collected at module scope: ${scope}.${storage}_${operation}_${keyPath}
// with key-path separators normalized, so re-declaring the same operation
// is idempotent at the identifier level.
func contentID(ref ir.StoreRef, operation, keyPath string) string {
	normalized := strings.NewReplacer(".", "_", "/", "_").Replace(keyPath)
	return fmt.Sprintf("%s.%s_%s_%s", ref.Scope, ref.Storage, operation, normalized)
}
