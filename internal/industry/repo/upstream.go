package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

const (
	defaultUpstreamTimeout = 10 * time.Second
	defaultCacheTTL        = 5 * time.Minute
)

// UpstreamClient fetches blueprint data from the world API over HTTP. It
// implements the engine's Repository boundary plus the listing calls the
// importer needs for a full sync.
//
// Responses are cached with a TTL so a burst of optimizations does not
// hammer the upstream; the resolver itself stays single-threaded, the
// cache only shortcuts repeat fetches.
type UpstreamClient struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
}

// NewUpstreamClient creates a client for the world API at baseURL.
// A zero ttl uses the default of five minutes.
func NewUpstreamClient(baseURL string, ttl time.Duration) *UpstreamClient {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &UpstreamClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultUpstreamTimeout},
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// ============================================
// WIRE DTOS
//
// One typed DTO per endpoint plus one narrow adapter function each; the
// shape probing stays here at the boundary and out of the engine.
// ============================================

type typeDTO struct {
	TypeID   int64  `json:"type_id"`
	TypeName string `json:"type_name"`
	Name     string `json:"name,omitempty"` // older deployments
}

type facilityDTO struct {
	FacilityTypeID   int64  `json:"facility_type_id"`
	FacilityName     string `json:"facility_name"`
	FacilityCategory string `json:"facility_category,omitempty"`
	InputCapacity    int64  `json:"input_capacity,omitempty"`
	OutputCapacity   int64  `json:"output_capacity,omitempty"`
	SortOrder        int64  `json:"sort_order,omitempty"`
}

type materialDTO struct {
	TypeID   int64  `json:"type_id"`
	TypeName string `json:"type_name,omitempty"`
	Quantity int64  `json:"quantity"`
}

type blueprintDTO struct {
	BlueprintID     int64         `json:"blueprint_id"`
	PrimaryTypeID   int64         `json:"primary_type_id"`
	PrimaryTypeName string        `json:"primary_type_name,omitempty"`
	FacilityTypeID  int64         `json:"facility_type_id,omitempty"`
	FacilityName    string        `json:"facility_name,omitempty"`
	RunTime         int64         `json:"run_time"`
	Inputs          []materialDTO `json:"inputs"`
	Outputs         []materialDTO `json:"outputs"`
}

type blueprintOptionDTO struct {
	BlueprintID    int64  `json:"blueprint_id"`
	OutputQuantity int64  `json:"output_quantity"`
	TimeSeconds    int64  `json:"time_seconds"`
	FacilityTypeID int64  `json:"facility_type_id,omitempty"`
	FacilityName   string `json:"facility_name,omitempty"`
}

func (d typeDTO) toType() industry.MaterialType {
	name := d.TypeName
	if name == "" {
		name = d.Name
	}
	return industry.MaterialType{TypeID: d.TypeID, TypeName: name}
}

func (d facilityDTO) toFacility() industry.Facility {
	return industry.Facility{
		FacilityTypeID:   d.FacilityTypeID,
		FacilityName:     d.FacilityName,
		FacilityCategory: d.FacilityCategory,
		InputCapacity:    d.InputCapacity,
		OutputCapacity:   d.OutputCapacity,
		SortOrder:        d.SortOrder,
	}
}

func (d blueprintDTO) toBlueprint() industry.Blueprint {
	bp := industry.Blueprint{
		BlueprintID:     d.BlueprintID,
		PrimaryTypeID:   d.PrimaryTypeID,
		PrimaryTypeName: d.PrimaryTypeName,
		FacilityTypeID:  d.FacilityTypeID,
		FacilityName:    d.FacilityName,
		RunTime:         d.RunTime,
	}
	for _, in := range d.Inputs {
		bp.Inputs = append(bp.Inputs, industry.Material(in))
	}
	for _, out := range d.Outputs {
		bp.Outputs = append(bp.Outputs, industry.Material(out))
	}
	return bp
}

func (d blueprintOptionDTO) toOption() industry.BlueprintOption {
	return industry.BlueprintOption(d)
}

// ============================================
// REPOSITORY CALLS
// ============================================

// BlueprintOptions lists blueprint alternatives for a type.
func (c *UpstreamClient) BlueprintOptions(ctx context.Context, typeID int64) ([]industry.BlueprintOption, error) {
	key := fmt.Sprintf("options:%d", typeID)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]industry.BlueprintOption), nil
	}

	var dtos []blueprintOptionDTO
	if err := c.getJSON(ctx, fmt.Sprintf("/v2/industry/types/%d/blueprints", typeID), &dtos); err != nil {
		return nil, err
	}

	options := make([]industry.BlueprintOption, 0, len(dtos))
	for _, d := range dtos {
		options = append(options, d.toOption())
	}
	c.cache.SetDefault(key, options)

	return options, nil
}

// Blueprint retrieves full blueprint detail, nil if unknown upstream.
func (c *UpstreamClient) Blueprint(ctx context.Context, blueprintID int64) (*industry.Blueprint, error) {
	key := fmt.Sprintf("blueprint:%d", blueprintID)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*industry.Blueprint), nil
	}

	var dto blueprintDTO
	err := c.getJSON(ctx, fmt.Sprintf("/v2/industry/blueprints/%d", blueprintID), &dto)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	bp := dto.toBlueprint()
	c.cache.SetDefault(key, &bp)

	return &bp, nil
}

// TypeName returns the catalog name for a type, "" if unknown upstream.
func (c *UpstreamClient) TypeName(ctx context.Context, typeID int64) (string, error) {
	key := fmt.Sprintf("typename:%d", typeID)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(string), nil
	}

	var dto typeDTO
	err := c.getJSON(ctx, fmt.Sprintf("/v2/industry/types/%d", typeID), &dto)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	name := dto.toType().TypeName
	c.cache.SetDefault(key, name)

	return name, nil
}

// ============================================
// SYNC LISTING CALLS (importer)
// ============================================

// Facilities lists all facilities known upstream.
func (c *UpstreamClient) Facilities(ctx context.Context) ([]industry.Facility, error) {
	var dtos []facilityDTO
	if err := c.getJSON(ctx, "/v2/industry/facilities", &dtos); err != nil {
		return nil, err
	}

	facilities := make([]industry.Facility, 0, len(dtos))
	for _, d := range dtos {
		facilities = append(facilities, d.toFacility())
	}

	return facilities, nil
}

// FacilityBlueprints lists blueprint summaries producible at a facility.
func (c *UpstreamClient) FacilityBlueprints(ctx context.Context, facilityTypeID int64) ([]industry.BlueprintSummary, error) {
	var dtos []struct {
		BlueprintID     int64  `json:"blueprint_id"`
		PrimaryTypeID   int64  `json:"primary_type_id"`
		PrimaryTypeName string `json:"primary_type_name,omitempty"`
		RunTime         int64  `json:"run_time"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/v2/industry/facilities/%d/blueprints", facilityTypeID), &dtos); err != nil {
		return nil, err
	}

	summaries := make([]industry.BlueprintSummary, 0, len(dtos))
	for _, d := range dtos {
		summaries = append(summaries, industry.BlueprintSummary(d))
	}

	return summaries, nil
}

// ============================================
// TRANSPORT
// ============================================

// statusError carries a non-2xx upstream status.
type statusError struct {
	status int
	url    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream %d from %s", e.status, e.url)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

// getJSON performs a GET and decodes the response body into out.
func (c *UpstreamClient) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &statusError{status: resp.StatusCode, url: url}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}

	return nil
}
