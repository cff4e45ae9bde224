package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// CompareBlueprints resolves the full production chain once per blueprint
// alternative for a type, each run forced through one option via an
// override on a fresh pool, and ranks the results. Rank 1 needs the
// fewest base materials; ties break on chain time, then blueprint ID.
func (e *Engine) CompareBlueprints(ctx context.Context, typeID, quantity int64) ([]industry.BlueprintComparison, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d for type %d", ErrInvalidQuantity, quantity, typeID)
	}

	options, err := e.repo.BlueprintOptions(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("%w: blueprint options for type %d: %v", ErrDataUnavailable, typeID, err)
	}

	comparisons := make([]industry.BlueprintComparison, 0, len(options))
	for _, opt := range options {
		node, err := e.Resolve(ctx, typeID, quantity, NewExcessPool(), map[int64]int64{typeID: opt.BlueprintID})
		if err != nil {
			return nil, err
		}

		comparisons = append(comparisons, industry.BlueprintComparison{
			BlueprintID:           opt.BlueprintID,
			TimeSeconds:           node.TotalProductionTime,
			BaseMaterialsRequired: node.TotalBaseMaterials,
			BaseMaterialBreakdown: node.BaseMaterialBreakdown,
		})
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].BaseMaterialsRequired != comparisons[j].BaseMaterialsRequired {
			return comparisons[i].BaseMaterialsRequired < comparisons[j].BaseMaterialsRequired
		}
		if comparisons[i].TimeSeconds != comparisons[j].TimeSeconds {
			return comparisons[i].TimeSeconds < comparisons[j].TimeSeconds
		}
		return comparisons[i].BlueprintID < comparisons[j].BlueprintID
	})

	for i := range comparisons {
		comparisons[i].EfficiencyRank = i + 1
	}

	return comparisons, nil
}
