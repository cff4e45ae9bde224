package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

func TestCompareBlueprintsRanksByBaseMaterials(t *testing.T) {
	// Blueprint 1 costs 2 ore per unit, blueprint 2 costs 1 ore per unit
	// but takes far longer. Material efficiency wins the ranking.
	repo := newFakeRepo()
	repo.names[500] = "Hull Plate"
	repo.names[10] = "Iron Ore"
	repo.addBlueprint(simpleBlueprint(1, 500, 1, 10,
		industry.Material{TypeID: 10, Quantity: 2},
	))
	repo.addBlueprint(simpleBlueprint(2, 500, 1, 600,
		industry.Material{TypeID: 10, Quantity: 1},
	))

	eng := New(repo, nil)
	comparisons, err := eng.CompareBlueprints(context.Background(), 500, 10)
	require.NoError(t, err)
	require.Len(t, comparisons, 2)

	assert.Equal(t, int64(2), comparisons[0].BlueprintID)
	assert.Equal(t, 1, comparisons[0].EfficiencyRank)
	assert.Equal(t, int64(10), comparisons[0].BaseMaterialsRequired)

	assert.Equal(t, int64(1), comparisons[1].BlueprintID)
	assert.Equal(t, 2, comparisons[1].EfficiencyRank)
	assert.Equal(t, int64(20), comparisons[1].BaseMaterialsRequired)
}

func TestCompareBlueprintsTieBreaksOnTime(t *testing.T) {
	repo := newFakeRepo()
	repo.names[500] = "Hull Plate"
	repo.addBlueprint(simpleBlueprint(4, 500, 1, 50,
		industry.Material{TypeID: 10, Quantity: 1},
	))
	repo.addBlueprint(simpleBlueprint(3, 500, 1, 90,
		industry.Material{TypeID: 11, Quantity: 1},
	))

	eng := New(repo, nil)
	comparisons, err := eng.CompareBlueprints(context.Background(), 500, 1)
	require.NoError(t, err)
	require.Len(t, comparisons, 2)

	assert.Equal(t, int64(4), comparisons[0].BlueprintID)
	assert.Equal(t, int64(3), comparisons[1].BlueprintID)
}

func TestCompareBlueprintsNoOptions(t *testing.T) {
	repo := newFakeRepo()
	repo.names[10] = "Iron Ore"

	eng := New(repo, nil)
	comparisons, err := eng.CompareBlueprints(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Empty(t, comparisons)
}

func TestCompareBlueprintsRejectsNonPositiveQuantity(t *testing.T) {
	eng := New(newFakeRepo(), nil)
	_, err := eng.CompareBlueprints(context.Background(), 500, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
