package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// OptimizeMulti resolves a batch of top-level requirements against one
// shared excess pool, so a byproduct from producing one target can offset
// a later target's requirement. Targets are resolved in the order given
// by the caller; like blueprint input order, that ordering is part of the
// contract, not an implementation detail.
//
// Resolution is all-or-nothing: any failure discards the whole batch.
func (e *Engine) OptimizeMulti(
	ctx context.Context,
	targets []industry.MaterialInput,
	overrides map[int64]int64,
) (*industry.OptimizeMultiResponse, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no materials provided", ErrInvalidQuantity)
	}

	start := time.Now()
	pool := NewExcessPool()

	resp := &industry.OptimizeMultiResponse{
		Targets:           make([]*industry.ProductionNode, 0, len(targets)),
		TotalRawMaterials: make(map[int64]int64),
	}

	for _, target := range targets {
		node, err := e.Resolve(ctx, target.TypeID, target.Quantity, pool, overrides)
		if err != nil {
			return nil, fmt.Errorf("resolving target type %d: %w", target.TypeID, err)
		}
		resp.Targets = append(resp.Targets, node)

		for baseType, qty := range node.BaseMaterialBreakdown {
			resp.TotalRawMaterials[baseType] += qty
		}
		if node.TotalProductionTime > resp.TotalTime {
			resp.TotalTime = node.TotalProductionTime
		}
	}

	resp.Byproducts = pool.Remaining()

	e.logger.Debug("multi-target optimization complete",
		"targets", len(targets),
		"raw_material_types", len(resp.TotalRawMaterials),
		"total_time", resp.TotalTime,
		"elapsed", time.Since(start),
	)

	return resp, nil
}
