package ir

import "fmt"

// StoreScope is the visibility of a key-value store.
type StoreScope string

// StoreStorage is the backing medium of a key-value store.
type StoreStorage string

const (
	ScopeApp      StoreScope = "app"
	ScopeScenario StoreScope = "scenario"

	StorageMemory    StoreStorage = "memory"
	StorageUserPrefs StoreStorage = "userPrefs"
	StorageFile      StoreStorage = "file"
	StorageBackend   StoreStorage = "backend"
)

// ValidScopes lists allowed store scopes.
var ValidScopes = map[StoreScope]bool{
	ScopeApp:      true,
	ScopeScenario: true,
}

// ValidStorages lists allowed store storage kinds.
var ValidStorages = map[StoreStorage]bool{
	StorageMemory:    true,
	StorageUserPrefs: true,
	StorageFile:      true,
	StorageBackend:   true,
}

// StoreRef identifies a store instance structurally. Two refs with equal
// scope and storage name the same store; there is no object identity.
type StoreRef struct {
	Scope   StoreScope   `json:"scope"`
	Storage StoreStorage `json:"storage"`
}

// Valid reports whether both dimensions are recognized.
func (r StoreRef) Valid() bool {
	return ValidScopes[r.Scope] && ValidStorages[r.Storage]
}

func (r StoreRef) String() string {
	return fmt.Sprintf("%s.%s", r.Scope, r.Storage)
}
