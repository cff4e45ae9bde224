package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// TypeStore handles material type catalog access.
type TypeStore struct {
	db *DB
}

// NewTypeStore creates a new TypeStore.
func NewTypeStore(db *DB) *TypeStore {
	return &TypeStore{db: db}
}

// GetTypeName retrieves the display name for a type. Unknown types return
// an empty string rather than an error; callers decide on a fallback.
func (s *TypeStore) GetTypeName(ctx context.Context, typeID int64) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT type_name FROM material_types WHERE type_id = ?`,
		typeID,
	).Scan(&name)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying type name: %w", err)
	}

	return name, nil
}

// GetType retrieves a material type. Returns nil if absent.
func (s *TypeStore) GetType(ctx context.Context, typeID int64) (*industry.MaterialType, error) {
	mt := &industry.MaterialType{TypeID: typeID}
	err := s.db.QueryRowContext(ctx,
		`SELECT type_name FROM material_types WHERE type_id = ?`,
		typeID,
	).Scan(&mt.TypeName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying type: %w", err)
	}

	return mt, nil
}

// BulkInsertTypes inserts material types in a transaction.
func (s *TypeStore) BulkInsertTypes(ctx context.Context, types []industry.MaterialType) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO material_types (type_id, type_name)
			VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing type statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, mt := range types {
			if _, err := stmt.ExecContext(ctx, mt.TypeID, mt.TypeName); err != nil {
				return fmt.Errorf("inserting type %d: %w", mt.TypeID, err)
			}
		}

		return nil
	})
}

// CountTypes returns the total number of material types.
func (s *TypeStore) CountTypes(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM material_types`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting types: %w", err)
	}
	return count, nil
}

// ClearTypes removes all material type data (for re-sync).
func (s *TypeStore) ClearTypes(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM material_types`)
	return err
}
