// Package ir defines the declarative intermediate representation emitted by
// the action compiler: value expressions, conditions, and action trees.
//
// This package contains type definitions and serialization only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// IR the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Every node serializes with an explicit discriminant ("kind" for values
//     and actions, "type" for conditions) in a fixed field order, so the
//     same input always produces byte-identical output.
//   - Object-valued fields preserve source declaration order. Canonical
//     (sorted-key, NFC) form exists only for content hashing, never for
//     emitted output.
//   - Nodes are built once during compilation and are immutable afterwards;
//     nothing in this subsystem reads IR back out of JSON.
package ir
