// Package importer loads blueprint catalog data into the local database,
// either from JSON dump files or by syncing from the upstream world API.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/stillness-labs/frontier-industry-server/internal/industry/db"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/repo"
	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// Importer writes catalog data into the database.
type Importer struct {
	db     *db.DB
	logger *slog.Logger
}

// New creates a new Importer.
func New(database *db.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{db: database, logger: logger}
}

// typeImport is the expected JSON dump shape for material types. Older
// dumps use "name" instead of "type_name".
type typeImport struct {
	TypeID   int64  `json:"type_id"`
	TypeName string `json:"type_name,omitempty"`
	Name     string `json:"name,omitempty"`
}

// facilityImport is the expected JSON dump shape for facilities.
type facilityImport struct {
	FacilityTypeID   int64  `json:"facility_type_id"`
	FacilityName     string `json:"facility_name"`
	FacilityCategory string `json:"facility_category,omitempty"`
	InputCapacity    int64  `json:"input_capacity,omitempty"`
	OutputCapacity   int64  `json:"output_capacity,omitempty"`
	SortOrder        int64  `json:"sort_order,omitempty"`
}

// blueprintImport is the expected JSON dump shape for blueprints. Dumps
// that predate byproducts carry output_quantity instead of an outputs
// list.
type blueprintImport struct {
	BlueprintID    int64 `json:"blueprint_id"`
	PrimaryTypeID  int64 `json:"primary_type_id"`
	FacilityTypeID int64 `json:"facility_type_id,omitempty"`
	RunTime        int64 `json:"run_time"`

	Inputs []struct {
		TypeID   int64 `json:"type_id"`
		Quantity int64 `json:"quantity"`
	} `json:"inputs"`

	Outputs []struct {
		TypeID   int64 `json:"type_id"`
		Quantity int64 `json:"quantity"`
	} `json:"outputs,omitempty"`
	OutputQuantity int64 `json:"output_quantity,omitempty"`
}

// transformBlueprint converts the import shape to the domain format.
func transformBlueprint(imp blueprintImport) industry.Blueprint {
	bp := industry.Blueprint{
		BlueprintID:    imp.BlueprintID,
		PrimaryTypeID:  imp.PrimaryTypeID,
		FacilityTypeID: imp.FacilityTypeID,
		RunTime:        imp.RunTime,
	}

	for _, in := range imp.Inputs {
		bp.Inputs = append(bp.Inputs, industry.Material{
			TypeID:   in.TypeID,
			Quantity: in.Quantity,
		})
	}

	for _, out := range imp.Outputs {
		bp.Outputs = append(bp.Outputs, industry.Material{
			TypeID:   out.TypeID,
			Quantity: out.Quantity,
		})
	}

	// Fall back to the flat output fields for older dumps.
	if len(bp.Outputs) == 0 {
		qty := imp.OutputQuantity
		if qty == 0 {
			qty = 1
		}
		bp.Outputs = []industry.Material{{TypeID: imp.PrimaryTypeID, Quantity: qty}}
	}

	return bp
}

// ImportTypesFromFile imports material types from a JSON file.
func (i *Importer) ImportTypesFromFile(ctx context.Context, path string) error {
	var imports []typeImport
	if err := readJSONFile(path, &imports); err != nil {
		return err
	}

	types := make([]industry.MaterialType, 0, len(imports))
	for _, imp := range imports {
		name := imp.TypeName
		if name == "" {
			name = imp.Name
		}
		types = append(types, industry.MaterialType{TypeID: imp.TypeID, TypeName: name})
	}

	store := db.NewTypeStore(i.db)
	if err := store.BulkInsertTypes(ctx, types); err != nil {
		return fmt.Errorf("inserting types: %w", err)
	}

	return i.recordSync(ctx, "types", len(types))
}

// ImportFacilitiesFromFile imports facilities from a JSON file.
func (i *Importer) ImportFacilitiesFromFile(ctx context.Context, path string) error {
	var imports []facilityImport
	if err := readJSONFile(path, &imports); err != nil {
		return err
	}

	facilities := make([]industry.Facility, 0, len(imports))
	for _, imp := range imports {
		facilities = append(facilities, industry.Facility{
			FacilityTypeID:   imp.FacilityTypeID,
			FacilityName:     imp.FacilityName,
			FacilityCategory: imp.FacilityCategory,
			InputCapacity:    imp.InputCapacity,
			OutputCapacity:   imp.OutputCapacity,
			SortOrder:        imp.SortOrder,
		})
	}

	store := db.NewFacilityStore(i.db)
	if err := store.BulkInsertFacilities(ctx, facilities); err != nil {
		return fmt.Errorf("inserting facilities: %w", err)
	}

	return i.recordSync(ctx, "facilities", len(facilities))
}

// ImportBlueprintsFromFile imports blueprints from a JSON file.
func (i *Importer) ImportBlueprintsFromFile(ctx context.Context, path string) error {
	var imports []blueprintImport
	if err := readJSONFile(path, &imports); err != nil {
		return err
	}

	blueprints := make([]industry.Blueprint, 0, len(imports))
	for _, imp := range imports {
		blueprints = append(blueprints, transformBlueprint(imp))
	}

	store := db.NewBlueprintStore(i.db)
	if err := store.BulkInsertBlueprints(ctx, blueprints); err != nil {
		return fmt.Errorf("inserting blueprints: %w", err)
	}

	return i.recordSync(ctx, "blueprints", len(blueprints))
}

// SyncFromUpstream pulls the full catalog from the world API: every
// facility, every blueprint it hosts, and the blueprint details with
// material names.
func (i *Importer) SyncFromUpstream(ctx context.Context, client *repo.UpstreamClient) error {
	facilities, err := client.Facilities(ctx)
	if err != nil {
		return fmt.Errorf("fetching facilities: %w", err)
	}

	facilityStore := db.NewFacilityStore(i.db)
	if err := facilityStore.BulkInsertFacilities(ctx, facilities); err != nil {
		return fmt.Errorf("inserting facilities: %w", err)
	}

	typesSeen := make(map[int64]string)
	var blueprints []industry.Blueprint

	for _, facility := range facilities {
		summaries, err := client.FacilityBlueprints(ctx, facility.FacilityTypeID)
		if err != nil {
			return fmt.Errorf("fetching blueprints for facility %d: %w", facility.FacilityTypeID, err)
		}

		for _, summary := range summaries {
			bp, err := client.Blueprint(ctx, summary.BlueprintID)
			if err != nil {
				return fmt.Errorf("fetching blueprint %d: %w", summary.BlueprintID, err)
			}
			if bp == nil {
				i.logger.Warn("blueprint listed but not found upstream", "blueprint_id", summary.BlueprintID)
				continue
			}

			blueprints = append(blueprints, *bp)

			if bp.PrimaryTypeName != "" {
				typesSeen[bp.PrimaryTypeID] = bp.PrimaryTypeName
			}
			for _, m := range bp.Inputs {
				if m.TypeName != "" {
					typesSeen[m.TypeID] = m.TypeName
				}
			}
			for _, m := range bp.Outputs {
				if m.TypeName != "" {
					typesSeen[m.TypeID] = m.TypeName
				}
			}
		}
	}

	blueprintStore := db.NewBlueprintStore(i.db)
	if err := blueprintStore.BulkInsertBlueprints(ctx, blueprints); err != nil {
		return fmt.Errorf("inserting blueprints: %w", err)
	}

	types := make([]industry.MaterialType, 0, len(typesSeen))
	for typeID, name := range typesSeen {
		types = append(types, industry.MaterialType{TypeID: typeID, TypeName: name})
	}
	typeStore := db.NewTypeStore(i.db)
	if err := typeStore.BulkInsertTypes(ctx, types); err != nil {
		return fmt.Errorf("inserting types: %w", err)
	}

	i.logger.Info("upstream sync complete",
		"facilities", len(facilities), "blueprints", len(blueprints), "types", len(types))

	if err := i.recordSync(ctx, "facilities", len(facilities)); err != nil {
		return err
	}
	if err := i.recordSync(ctx, "types", len(types)); err != nil {
		return err
	}
	return i.recordSync(ctx, "blueprints", len(blueprints))
}

// ClearAll removes all catalog data from the database.
func (i *Importer) ClearAll(ctx context.Context) error {
	blueprintStore := db.NewBlueprintStore(i.db)
	facilityStore := db.NewFacilityStore(i.db)
	typeStore := db.NewTypeStore(i.db)

	if err := blueprintStore.ClearBlueprints(ctx); err != nil {
		return err
	}
	if err := facilityStore.ClearFacilities(ctx); err != nil {
		return err
	}
	return typeStore.ClearTypes(ctx)
}

// recordSync updates sync metadata for one dataset.
func (i *Importer) recordSync(ctx context.Context, dataset string, count int) error {
	if err := i.db.SetSyncMetadata(ctx, dataset+"_last_sync", time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	return i.db.SetSyncMetadata(ctx, dataset+"_count", fmt.Sprintf("%d", count))
}

// readJSONFile reads and unmarshals a JSON file.
func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return nil
}
