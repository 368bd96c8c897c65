package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/geom"
)

var (
	// ErrSaveNotFound is returned when a slot holds no save.
	ErrSaveNotFound = errors.New("save not found")
	// ErrMapMismatch is returned when a save was made on a different map.
	ErrMapMismatch = errors.New("save belongs to a different map")
)

// ObjectState is the persisted state of one creature.
type ObjectState struct {
	ObjectID uint32
	Kind     string
	Position geom.Vector2
	Movement movement.Data
}

// Save is a snapshot of every creature on a map.
type Save struct {
	Slot        int
	MapName     string
	MapChecksum []byte
	SavedAt     time.Time
	Objects     []ObjectState
}

// SaveRepository stores simulation snapshots in savegames and movement_states.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a new SaveRepository.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save replaces the contents of s.Slot atomically.
func (r *SaveRepository) Save(ctx context.Context, s Save) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// movement_states rows go with the cascade.
	if _, err := tx.Exec(ctx, `DELETE FROM savegames WHERE slot = $1`, s.Slot); err != nil {
		return fmt.Errorf("deleting slot %d: %w", s.Slot, err)
	}

	savedAt := s.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO savegames (slot, map_name, map_checksum, saved_at)
		VALUES ($1, $2, $3, $4)
	`, s.Slot, s.MapName, s.MapChecksum, savedAt)
	if err != nil {
		return fmt.Errorf("inserting save slot %d: %w", s.Slot, err)
	}

	if len(s.Objects) > 0 {
		rows := make([][]any, 0, len(s.Objects))
		for _, o := range s.Objects {
			path := o.Movement.Path
			if path == nil {
				path = []geom.Vector2{}
			}
			rows = append(rows, []any{
				s.Slot, int64(o.ObjectID), o.Kind,
				o.Position.X, o.Position.Y,
				path, o.Movement.Step,
				o.Movement.LastMovement.X, o.Movement.LastMovement.Y,
				o.Movement.IsMoving,
			})
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"movement_states"},
			[]string{"slot", "object_id", "kind", "pos_x", "pos_y", "path", "step", "last_x", "last_y", "is_moving"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copying movement states for slot %d: %w", s.Slot, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	slog.Debug("saved simulation", "slot", s.Slot, "map", s.MapName, "objects", len(s.Objects))
	return nil
}

// Load reads the save in slot. A non-nil checksum must match the stored one,
// otherwise ErrMapMismatch is returned.
func (r *SaveRepository) Load(ctx context.Context, slot int, checksum []byte) (*Save, error) {
	s := &Save{Slot: slot}
	err := r.db.QueryRow(ctx, `
		SELECT map_name, map_checksum, saved_at
		FROM savegames
		WHERE slot = $1
	`, slot).Scan(&s.MapName, &s.MapChecksum, &s.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrSaveNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying save slot %d: %w", slot, err)
	}
	if checksum != nil && !bytes.Equal(checksum, s.MapChecksum) {
		return nil, fmt.Errorf("slot %d map %q: %w", slot, s.MapName, ErrMapMismatch)
	}

	rows, err := r.db.Query(ctx, `
		SELECT object_id, kind, pos_x, pos_y, path, step, last_x, last_y, is_moving
		FROM movement_states
		WHERE slot = $1
		ORDER BY object_id
	`, slot)
	if err != nil {
		return nil, fmt.Errorf("querying movement states for slot %d: %w", slot, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			o  ObjectState
			id int64
		)
		if err := rows.Scan(
			&id, &o.Kind,
			&o.Position.X, &o.Position.Y,
			&o.Movement.Path, &o.Movement.Step,
			&o.Movement.LastMovement.X, &o.Movement.LastMovement.Y,
			&o.Movement.IsMoving,
		); err != nil {
			return nil, fmt.Errorf("scanning movement state: %w", err)
		}
		o.ObjectID = uint32(id)
		if len(o.Movement.Path) == 0 {
			o.Movement.Path = nil
		}
		s.Objects = append(s.Objects, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movement states: %w", err)
	}

	return s, nil
}

// Delete removes the save in slot. Deleting an empty slot is not an error.
func (r *SaveRepository) Delete(ctx context.Context, slot int) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM savegames WHERE slot = $1`, slot); err != nil {
		return fmt.Errorf("deleting slot %d: %w", slot, err)
	}
	return nil
}
