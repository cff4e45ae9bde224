package engine

import (
	"context"
	"errors"
	"sort"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// fakeRepo is an in-memory Repository for engine tests. Options are
// derived from the registered blueprints, ordered by blueprint ID the
// way the SQLite store orders them.
type fakeRepo struct {
	blueprints map[int64]*industry.Blueprint
	names      map[int64]string

	// optionsErr and blueprintErr inject lookup failures.
	optionsErr   error
	blueprintErr error

	optionsCalls   int
	blueprintCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		blueprints: make(map[int64]*industry.Blueprint),
		names:      make(map[int64]string),
	}
}

func (f *fakeRepo) addBlueprint(bp industry.Blueprint) {
	f.blueprints[bp.BlueprintID] = &bp
}

func (f *fakeRepo) BlueprintOptions(ctx context.Context, typeID int64) ([]industry.BlueprintOption, error) {
	f.optionsCalls++
	if f.optionsErr != nil {
		return nil, f.optionsErr
	}

	var options []industry.BlueprintOption
	for _, bp := range f.blueprints {
		if bp.PrimaryTypeID != typeID {
			continue
		}
		primary, _ := bp.PrimaryOutput()
		options = append(options, industry.BlueprintOption{
			BlueprintID:    bp.BlueprintID,
			OutputQuantity: primary.Quantity,
			TimeSeconds:    bp.RunTime,
			FacilityTypeID: bp.FacilityTypeID,
		})
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].BlueprintID < options[j].BlueprintID
	})
	return options, nil
}

func (f *fakeRepo) Blueprint(ctx context.Context, blueprintID int64) (*industry.Blueprint, error) {
	f.blueprintCalls++
	if f.blueprintErr != nil {
		return nil, f.blueprintErr
	}
	return f.blueprints[blueprintID], nil
}

func (f *fakeRepo) TypeName(ctx context.Context, typeID int64) (string, error) {
	return f.names[typeID], nil
}

var errLookup = errors.New("lookup failed")

// simpleBlueprint builds a single-output blueprint with the given
// primary type, output quantity per run, run time, and inputs.
func simpleBlueprint(id, primaryType, outputQty, runTime int64, inputs ...industry.Material) industry.Blueprint {
	return industry.Blueprint{
		BlueprintID:   id,
		PrimaryTypeID: primaryType,
		RunTime:       runTime,
		Inputs:        inputs,
		Outputs:       []industry.Material{{TypeID: primaryType, Quantity: outputQty}},
	}
}
