package engine

import (
	"context"
	"fmt"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// selectBlueprint picks exactly one blueprint to produce the given type,
// or nil if no blueprint exists (the type is a base material).
//
// An override for the type wins when it names one of the available
// options; otherwise the default applies. With multiple options the
// default is the lowest blueprint ID, which OptionsForType ordering makes
// the first entry. The choice must be deterministic: the resolver re-runs
// on every override change and unrelated subtrees must not flap.
func (e *Engine) selectBlueprint(
	ctx context.Context,
	typeID int64,
	options []industry.BlueprintOption,
	overrides map[int64]int64,
) (*industry.Blueprint, error) {
	if len(options) == 0 {
		return nil, nil
	}

	chosen := options[0].BlueprintID
	for _, opt := range options {
		if opt.BlueprintID < chosen {
			chosen = opt.BlueprintID
		}
	}

	if override, ok := overrides[typeID]; ok {
		for _, opt := range options {
			if opt.BlueprintID == override {
				chosen = override
				break
			}
		}
	}

	bp, err := e.repo.Blueprint(ctx, chosen)
	if err != nil {
		return nil, fmt.Errorf("%w: blueprint %d: %v", ErrDataUnavailable, chosen, err)
	}
	if bp == nil {
		return nil, fmt.Errorf("%w: blueprint %d listed as option but not found", ErrDataUnavailable, chosen)
	}

	return bp, nil
}
