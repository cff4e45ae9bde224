// Package engine implements the production-chain optimization core:
// blueprint selection, recursive tree resolution with excess-pool reuse,
// multi-target optimization, and summary aggregation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// Sentinel errors for the optimization taxonomy. Callers match with
// errors.Is; the API layer maps them to HTTP statuses.
var (
	// ErrInvalidQuantity is returned for requested quantities <= 0,
	// rejected before any recursion begins.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrDataUnavailable wraps repository failures or malformed blueprint
	// data. Resolution is all-or-nothing: a partial tree would
	// misrepresent material totals, so the whole call fails.
	ErrDataUnavailable = errors.New("blueprint data unavailable")

	// ErrCircularRecipe is returned when a blueprint's input chain cycles
	// back to a type already being resolved on the current path.
	ErrCircularRecipe = errors.New("circular blueprint dependency")
)

// Repository is the read-only recipe lookup service the engine resolves
// against. Implementations live in internal/industry/repo.
type Repository interface {
	// BlueprintOptions lists the blueprint alternatives whose primary
	// output is the given type. An empty result marks a base material.
	BlueprintOptions(ctx context.Context, typeID int64) ([]industry.BlueprintOption, error)

	// Blueprint retrieves full blueprint detail. Returns nil if unknown.
	Blueprint(ctx context.Context, blueprintID int64) (*industry.Blueprint, error)

	// TypeName returns the display name for a type, or "" if unknown.
	TypeName(ctx context.Context, typeID int64) (string, error)
}

// Engine resolves production chains against a Repository.
type Engine struct {
	repo   Repository
	logger *slog.Logger
}

// New creates a new Engine. A nil logger discards engine logs.
func New(repo Repository, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{repo: repo, logger: logger}
}

// typeName looks up a display name with a stable fallback for types the
// catalog does not know about.
func (e *Engine) typeName(ctx context.Context, typeID int64) (string, error) {
	name, err := e.repo.TypeName(ctx, typeID)
	if err != nil {
		return "", fmt.Errorf("%w: type name for %d: %v", ErrDataUnavailable, typeID, err)
	}
	if name == "" {
		name = fmt.Sprintf("Type %d", typeID)
	}
	return name, nil
}
