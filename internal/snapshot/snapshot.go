package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reverie-ui/reverie/internal/ir"
)

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored compiled scenario. Body holds the emitted JSON
// exactly as compiled; Hash and ActionsHash are computed over the
// canonical form of the body.
type Snapshot struct {
	Hash        string
	Name        string
	ActionsHash string
	BuildID     string
	Seq         int64
	Body        []byte
}

// Put stores a compiled scenario under its content hash. Storing the same
// bytes twice is a no-op; created reports whether a new row was inserted.
// actionsJSON is the scenario's actions array serialized on its own.
func (s *Store) Put(ctx context.Context, name string, scenarioJSON, actionsJSON []byte, buildID string) (hash string, created bool, err error) {
	hash, err = ir.ScenarioHash(scenarioJSON)
	if err != nil {
		return "", false, fmt.Errorf("put snapshot: %w", err)
	}
	actionsHash, err := ir.ActionsHash(actionsJSON)
	if err != nil {
		return "", false, fmt.Errorf("put snapshot: %w", err)
	}

	seq, err := s.nextSeq(ctx)
	if err != nil {
		return "", false, fmt.Errorf("put snapshot: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (hash, name, actions_hash, build_id, seq, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (hash) DO NOTHING
	`, hash, name, actionsHash, buildID, seq, scenarioJSON)
	if err != nil {
		return "", false, fmt.Errorf("put snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("put snapshot: %w", err)
	}
	return hash, affected > 0, nil
}

// Get retrieves a snapshot by its content hash.
func (s *Store) Get(ctx context.Context, hash string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT hash, name, actions_hash, build_id, seq, body
		FROM snapshots
		WHERE hash = ?
	`, hash)
	return scanSnapshot(row)
}

// Latest retrieves the most recently stored snapshot for a scenario name.
func (s *Store) Latest(ctx context.Context, name string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT hash, name, actions_hash, build_id, seq, body
		FROM snapshots
		WHERE name = ?
		ORDER BY seq DESC
		LIMIT 1
	`, name)
	return scanSnapshot(row)
}

// List returns all snapshots for a scenario name in insertion order.
func (s *Store) List(ctx context.Context, name string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, name, actions_hash, build_id, seq, body
		FROM snapshots
		WHERE name = ?
		ORDER BY seq ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.Hash, &snap.Name, &snap.ActionsHash, &snap.BuildID, &snap.Seq, &snap.Body); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.Hash, &snap.Name, &snap.ActionsHash, &snap.BuildID, &snap.Seq, &snap.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	return &snap, nil
}
