package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

func TestSelectBlueprintNoOptionsIsBaseMaterial(t *testing.T) {
	eng := New(newFakeRepo(), nil)

	bp, err := eng.selectBlueprint(context.Background(), 10, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, bp)
}

func TestSelectBlueprintDefaultIsLowestID(t *testing.T) {
	repo := newFakeRepo()
	repo.addBlueprint(simpleBlueprint(9, 500, 1, 10))
	repo.addBlueprint(simpleBlueprint(3, 500, 1, 10))

	options := []industry.BlueprintOption{
		{BlueprintID: 9},
		{BlueprintID: 3},
	}

	eng := New(repo, nil)
	bp, err := eng.selectBlueprint(context.Background(), 500, options, nil)
	require.NoError(t, err)
	require.NotNil(t, bp)
	assert.Equal(t, int64(3), bp.BlueprintID)
}

func TestSelectBlueprintOverrideMustBeAnOption(t *testing.T) {
	repo := newFakeRepo()
	repo.addBlueprint(simpleBlueprint(3, 500, 1, 10))
	repo.addBlueprint(simpleBlueprint(9, 500, 1, 10))

	options := []industry.BlueprintOption{
		{BlueprintID: 3},
		{BlueprintID: 9},
	}

	eng := New(repo, nil)

	bp, err := eng.selectBlueprint(context.Background(), 500, options, map[int64]int64{500: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(9), bp.BlueprintID)

	// An override naming a blueprint that does not produce this type is
	// ignored, not an error.
	bp, err = eng.selectBlueprint(context.Background(), 500, options, map[int64]int64{500: 77})
	require.NoError(t, err)
	assert.Equal(t, int64(3), bp.BlueprintID)
}

func TestSelectBlueprintMissingDetailIsDataUnavailable(t *testing.T) {
	// Listed as an option but the detail row is gone.
	eng := New(newFakeRepo(), nil)
	options := []industry.BlueprintOption{{BlueprintID: 5}}

	_, err := eng.selectBlueprint(context.Background(), 500, options, nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestSelectBlueprintLookupErrorIsDataUnavailable(t *testing.T) {
	repo := newFakeRepo()
	repo.blueprintErr = errLookup

	eng := New(repo, nil)
	options := []industry.BlueprintOption{{BlueprintID: 5}}

	_, err := eng.selectBlueprint(context.Background(), 500, options, nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}
