// Package harness provides conformance testing for the scenario compiler.
//
// The harness loads module ASTs, compiles them, and checks the result
// against declarative expectations. Scenarios are YAML files:
//
//	name: counter_increment
//	description: "Tapping increment compiles to a single store.set"
//	module: modules/counter.json
//	assertions:
//	  - type: action_count
//	    count: 1
//	  - type: action_kinds
//	    kinds: [store.set]
//	  - type: store_declared
//	    store: counter
//	    scope: app
//	    storage: memory
//
// A scenario may instead expect compilation to fail:
//
//	name: async_rejected
//	description: "Async handlers abort the module"
//	module: modules/async.json
//	expect:
//	  error: E202
//
// # Assertion Types
//
//   - action_count: the emitted actions array has exactly N entries
//   - action_kinds: the root action kinds, in order
//   - action_ids: the root action ids, in order
//   - store_declared: a store with the given name and reference exists
//
// # Golden Files
//
// Successful compilations can additionally be pinned byte-for-byte with
// golden files under testdata/golden. Compilation is deterministic, so a
// golden mismatch always means the compiler's output changed. Regenerate
// with:
//
//	go test ./internal/harness -update
package harness
