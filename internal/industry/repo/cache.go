package repo

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/stillness-labs/frontier-industry-server/internal/industry/engine"
	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// CachedRepository wraps a Repository with bounded LRU caches. Blueprint
// data is immutable within a process lifetime (imports restart the
// server), so entries never expire; Purge exists for tests and re-sync.
//
// The resolver re-reads the same blueprints many times within one tree
// and across requests, which makes even a small cache worthwhile.
type CachedRepository struct {
	inner engine.Repository

	blueprints *lru.Cache[int64, *industry.Blueprint]
	options    *lru.Cache[int64, []industry.BlueprintOption]
	names      *lru.Cache[int64, string]
}

// NewCachedRepository wraps inner with caches of the given size per kind.
func NewCachedRepository(inner engine.Repository, size int) (*CachedRepository, error) {
	blueprints, err := lru.New[int64, *industry.Blueprint](size)
	if err != nil {
		return nil, err
	}
	options, err := lru.New[int64, []industry.BlueprintOption](size)
	if err != nil {
		return nil, err
	}
	names, err := lru.New[int64, string](size)
	if err != nil {
		return nil, err
	}

	return &CachedRepository{
		inner:      inner,
		blueprints: blueprints,
		options:    options,
		names:      names,
	}, nil
}

// BlueprintOptions lists blueprint alternatives for a type.
func (r *CachedRepository) BlueprintOptions(ctx context.Context, typeID int64) ([]industry.BlueprintOption, error) {
	if cached, ok := r.options.Get(typeID); ok {
		return cached, nil
	}

	opts, err := r.inner.BlueprintOptions(ctx, typeID)
	if err != nil {
		return nil, err
	}
	r.options.Add(typeID, opts)

	return opts, nil
}

// Blueprint retrieves full blueprint detail, nil if unknown.
func (r *CachedRepository) Blueprint(ctx context.Context, blueprintID int64) (*industry.Blueprint, error) {
	if cached, ok := r.blueprints.Get(blueprintID); ok {
		return cached, nil
	}

	bp, err := r.inner.Blueprint(ctx, blueprintID)
	if err != nil {
		return nil, err
	}
	if bp != nil {
		r.blueprints.Add(blueprintID, bp)
	}

	return bp, nil
}

// TypeName returns the catalog name for a type, "" if unknown.
func (r *CachedRepository) TypeName(ctx context.Context, typeID int64) (string, error) {
	if cached, ok := r.names.Get(typeID); ok {
		return cached, nil
	}

	name, err := r.inner.TypeName(ctx, typeID)
	if err != nil {
		return "", err
	}
	if name != "" {
		r.names.Add(typeID, name)
	}

	return name, nil
}

// Purge drops all cached entries.
func (r *CachedRepository) Purge() {
	r.blueprints.Purge()
	r.options.Purge()
	r.names.Purge()
}
