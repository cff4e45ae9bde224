// Package repo provides implementations of the engine's Repository
// boundary: a SQLite-backed store, an HTTP client for the upstream world
// API, and an LRU caching decorator for either.
package repo

import (
	"context"

	"github.com/stillness-labs/frontier-industry-server/internal/industry/db"
	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// SQLiteRepository serves blueprint lookups from the local database.
type SQLiteRepository struct {
	blueprints *db.BlueprintStore
	types      *db.TypeStore
}

// NewSQLiteRepository creates a repository over the given database.
func NewSQLiteRepository(database *db.DB) *SQLiteRepository {
	return &SQLiteRepository{
		blueprints: db.NewBlueprintStore(database),
		types:      db.NewTypeStore(database),
	}
}

// BlueprintOptions lists blueprint alternatives for a type.
func (r *SQLiteRepository) BlueprintOptions(ctx context.Context, typeID int64) ([]industry.BlueprintOption, error) {
	return r.blueprints.OptionsForType(ctx, typeID)
}

// Blueprint retrieves full blueprint detail, nil if unknown.
func (r *SQLiteRepository) Blueprint(ctx context.Context, blueprintID int64) (*industry.Blueprint, error) {
	return r.blueprints.GetBlueprint(ctx, blueprintID)
}

// TypeName returns the catalog name for a type, "" if unknown.
func (r *SQLiteRepository) TypeName(ctx context.Context, typeID int64) (string, error) {
	return r.types.GetTypeName(ctx, typeID)
}
