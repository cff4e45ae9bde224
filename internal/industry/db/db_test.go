package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenAndInit(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// seedCatalog inserts a small catalog: a refinery hosting two blueprints
// for plates, one of which emits slag as a byproduct.
func seedCatalog(t *testing.T, database *DB) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, NewTypeStore(database).BulkInsertTypes(ctx, []industry.MaterialType{
		{TypeID: 10, TypeName: "Iron Ore"},
		{TypeID: 500, TypeName: "Hull Plate"},
		{TypeID: 800, TypeName: "Slag"},
	}))

	require.NoError(t, NewFacilityStore(database).BulkInsertFacilities(ctx, []industry.Facility{
		{FacilityTypeID: 20, FacilityName: "Refinery", FacilityCategory: "industrial", SortOrder: 1},
		{FacilityTypeID: 21, FacilityName: "Assembler", FacilityCategory: "industrial", SortOrder: 2},
	}))

	require.NoError(t, NewBlueprintStore(database).BulkInsertBlueprints(ctx, []industry.Blueprint{
		{
			BlueprintID:    1,
			PrimaryTypeID:  500,
			FacilityTypeID: 20,
			RunTime:        60,
			Inputs: []industry.Material{
				{TypeID: 10, Quantity: 2},
			},
			Outputs: []industry.Material{
				{TypeID: 500, Quantity: 10},
				{TypeID: 800, Quantity: 3},
			},
		},
		{
			BlueprintID:    7,
			PrimaryTypeID:  500,
			FacilityTypeID: 20,
			RunTime:        30,
			Inputs: []industry.Material{
				{TypeID: 10, Quantity: 5},
			},
			Outputs: []industry.Material{
				{TypeID: 500, Quantity: 5},
			},
		},
	}))
}

func TestSyncMetadataRoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	value, err := database.GetSyncMetadata(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, database.SetSyncMetadata(ctx, "blueprints_count", "42"))
	require.NoError(t, database.SetSyncMetadata(ctx, "blueprints_count", "43"))

	value, err = database.GetSyncMetadata(ctx, "blueprints_count")
	require.NoError(t, err)
	assert.Equal(t, "43", value)
}

func TestGetBlueprintJoinsNames(t *testing.T) {
	database := testDB(t)
	seedCatalog(t, database)
	store := NewBlueprintStore(database)

	bp, err := store.GetBlueprint(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, bp)

	assert.Equal(t, int64(500), bp.PrimaryTypeID)
	assert.Equal(t, "Hull Plate", bp.PrimaryTypeName)
	assert.Equal(t, "Refinery", bp.FacilityName)
	assert.Equal(t, int64(60), bp.RunTime)

	require.Len(t, bp.Inputs, 1)
	assert.Equal(t, "Iron Ore", bp.Inputs[0].TypeName)

	// Primary output first, then byproducts.
	require.Len(t, bp.Outputs, 2)
	assert.Equal(t, int64(500), bp.Outputs[0].TypeID)
	assert.Equal(t, int64(800), bp.Outputs[1].TypeID)
	assert.Equal(t, "Slag", bp.Outputs[1].TypeName)
}

func TestGetBlueprintMissing(t *testing.T) {
	database := testDB(t)
	store := NewBlueprintStore(database)

	bp, err := store.GetBlueprint(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, bp)
}

func TestGetBlueprintInputOrder(t *testing.T) {
	database := testDB(t)
	store := NewBlueprintStore(database)

	// Inputs declared high-ID first must come back in declared order.
	require.NoError(t, store.BulkInsertBlueprints(context.Background(), []industry.Blueprint{
		{
			BlueprintID:   2,
			PrimaryTypeID: 600,
			RunTime:       10,
			Inputs: []industry.Material{
				{TypeID: 900, Quantity: 1},
				{TypeID: 100, Quantity: 1},
			},
			Outputs: []industry.Material{{TypeID: 600, Quantity: 1}},
		},
	}))

	bp, err := store.GetBlueprint(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, bp.Inputs, 2)
	assert.Equal(t, int64(900), bp.Inputs[0].TypeID)
	assert.Equal(t, int64(100), bp.Inputs[1].TypeID)
}

func TestOptionsForTypeOrderedByID(t *testing.T) {
	database := testDB(t)
	seedCatalog(t, database)
	store := NewBlueprintStore(database)

	options, err := store.OptionsForType(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, options, 2)

	assert.Equal(t, int64(1), options[0].BlueprintID)
	assert.Equal(t, int64(10), options[0].OutputQuantity)
	assert.Equal(t, int64(60), options[0].TimeSeconds)
	assert.Equal(t, "Refinery", options[0].FacilityName)
	assert.Equal(t, int64(7), options[1].BlueprintID)

	// Base materials have no options.
	options, err = store.OptionsForType(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestListByFacility(t *testing.T) {
	database := testDB(t)
	seedCatalog(t, database)
	store := NewBlueprintStore(database)

	summaries, err := store.ListByFacility(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)

	summaries, err = store.ListByFacility(context.Background(), 21)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestBulkInsertReplacesExisting(t *testing.T) {
	database := testDB(t)
	seedCatalog(t, database)
	store := NewBlueprintStore(database)

	require.NoError(t, store.BulkInsertBlueprints(context.Background(), []industry.Blueprint{
		{
			BlueprintID:    1,
			PrimaryTypeID:  500,
			FacilityTypeID: 21,
			RunTime:        90,
			Outputs:        []industry.Material{{TypeID: 500, Quantity: 8}},
		},
	}))

	bp, err := store.GetBlueprint(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(90), bp.RunTime)
	assert.Equal(t, "Assembler", bp.FacilityName)
	// Stale input rows from the first import are gone.
	assert.Empty(t, bp.Inputs)

	count, err := store.CountBlueprints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestClearBlueprintsRemovesMaterialRows(t *testing.T) {
	database := testDB(t)
	seedCatalog(t, database)
	store := NewBlueprintStore(database)

	require.NoError(t, store.ClearBlueprints(context.Background()))

	count, err := store.CountBlueprints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var orphans int
	err = database.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM blueprint_inputs`).Scan(&orphans)
	require.NoError(t, err)
	assert.Equal(t, 0, orphans)
}

func TestListFacilitiesWithCounts(t *testing.T) {
	database := testDB(t)
	seedCatalog(t, database)
	store := NewFacilityStore(database)

	facilities, err := store.ListFacilities(context.Background())
	require.NoError(t, err)
	require.Len(t, facilities, 2)

	assert.Equal(t, "Refinery", facilities[0].FacilityName)
	assert.Equal(t, int64(2), facilities[0].BlueprintCount)
	assert.Equal(t, "Assembler", facilities[1].FacilityName)
	assert.Equal(t, int64(0), facilities[1].BlueprintCount)
}

func TestGetFacilityMissing(t *testing.T) {
	database := testDB(t)
	store := NewFacilityStore(database)

	f, err := store.GetFacility(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestTypeStoreLookups(t *testing.T) {
	database := testDB(t)
	seedCatalog(t, database)
	store := NewTypeStore(database)
	ctx := context.Background()

	name, err := store.GetTypeName(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Iron Ore", name)

	// Unknown types are not an error.
	name, err = store.GetTypeName(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, "", name)

	mt, err := store.GetType(ctx, 500)
	require.NoError(t, err)
	require.NotNil(t, mt)
	assert.Equal(t, "Hull Plate", mt.TypeName)

	count, err := store.CountTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
