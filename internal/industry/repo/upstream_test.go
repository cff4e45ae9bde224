package repo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamClientBlueprint(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v2/industry/blueprints/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"blueprint_id": 7,
			"primary_type_id": 500,
			"primary_type_name": "Hull Plate",
			"run_time": 60,
			"inputs": [{"type_id": 10, "type_name": "Iron Ore", "quantity": 2}],
			"outputs": [{"type_id": 500, "quantity": 10}]
		}`))
	}))
	defer srv.Close()

	client := NewUpstreamClient(srv.URL, time.Minute)
	ctx := context.Background()

	bp, err := client.Blueprint(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, bp)
	assert.Equal(t, "Hull Plate", bp.PrimaryTypeName)
	require.Len(t, bp.Inputs, 1)
	assert.Equal(t, int64(2), bp.Inputs[0].Quantity)

	// Second call is served from the TTL cache.
	_, err = client.Blueprint(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load())
}

func TestUpstreamClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewUpstreamClient(srv.URL, time.Minute)
	ctx := context.Background()

	bp, err := client.Blueprint(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, bp)

	name, err := client.TypeName(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestUpstreamClientServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewUpstreamClient(srv.URL, time.Minute)

	_, err := client.BlueprintOptions(context.Background(), 500)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream 500")
}

func TestUpstreamClientTypeNameFallbackField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type_id": 10, "name": "Iron Ore"}`))
	}))
	defer srv.Close()

	client := NewUpstreamClient(srv.URL, time.Minute)

	name, err := client.TypeName(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Iron Ore", name)
}

func TestUpstreamClientListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v2/industry/facilities":
			_, _ = w.Write([]byte(`[{"facility_type_id": 20, "facility_name": "Refinery"}]`))
		case "/v2/industry/facilities/20/blueprints":
			_, _ = w.Write([]byte(`[{"blueprint_id": 7, "primary_type_id": 500, "run_time": 60}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewUpstreamClient(srv.URL, time.Minute)
	ctx := context.Background()

	facilities, err := client.Facilities(ctx)
	require.NoError(t, err)
	require.Len(t, facilities, 1)
	assert.Equal(t, "Refinery", facilities[0].FacilityName)

	summaries, err := client.FacilityBlueprints(ctx, 20)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(7), summaries[0].BlueprintID)
}
