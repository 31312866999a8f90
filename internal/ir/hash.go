package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without colliding with old hashes.
const (
	DomainScenario = "reverie/scenario/v1"
	DomainActions  = "reverie/actions/v1"
)

// hashWithDomain computes SHA-256 over domain + 0x00 + data. The null
// separator removes domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ScenarioHash computes the content-addressed identity of a compiled
// scenario from its emitted JSON. The input is canonicalized first, so key
// order and string normalization differences never split identities.
func ScenarioHash(scenarioJSON []byte) (string, error) {
	canonical, err := Canonicalize(scenarioJSON)
	if err != nil {
		return "", fmt.Errorf("ScenarioHash: %w", err)
	}
	return hashWithDomain(DomainScenario, canonical), nil
}

// ActionsHash computes the identity of a compiled actions array alone,
// which version diffing uses to short-circuit unchanged behavior.
func ActionsHash(actionsJSON []byte) (string, error) {
	canonical, err := Canonicalize(actionsJSON)
	if err != nil {
		return "", fmt.Errorf("ActionsHash: %w", err)
	}
	return hashWithDomain(DomainActions, canonical), nil
}

// MustScenarioHash is like ScenarioHash but panics on error. Use only in
// tests or when inputs are known to be valid JSON.
func MustScenarioHash(scenarioJSON []byte) string {
	h, err := ScenarioHash(scenarioJSON)
	if err != nil {
		panic(err)
	}
	return h
}
