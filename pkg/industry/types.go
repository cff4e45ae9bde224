// Package industry contains the core types for the industry query server.
package industry

// ============================================
// CATALOG TYPES
// ============================================

// MaterialType is an item definition from the game catalog.
type MaterialType struct {
	TypeID   int64  `json:"type_id"`
	TypeName string `json:"type_name"`
}

// Facility is a manufacturing structure that can run blueprints.
type Facility struct {
	FacilityTypeID   int64  `json:"facility_type_id"`
	FacilityName     string `json:"facility_name"`
	FacilityCategory string `json:"facility_category,omitempty"`
	InputCapacity    int64  `json:"input_capacity,omitempty"`
	OutputCapacity   int64  `json:"output_capacity,omitempty"`
	BlueprintCount   int64  `json:"blueprint_count"`
	SortOrder        int64  `json:"sort_order"`
}

// Material is an item with a quantity, as it appears on a blueprint's
// input or output list (quantity is per one run).
type Material struct {
	TypeID   int64  `json:"type_id"`
	TypeName string `json:"type_name"`
	Quantity int64  `json:"quantity"`
}

// Blueprint is a full recipe: where it runs, how long one run takes, and
// the per-run input and output material lists. Exactly one output is the
// primary product (its type matches PrimaryTypeID); the rest are byproducts.
type Blueprint struct {
	BlueprintID     int64      `json:"blueprint_id"`
	PrimaryTypeID   int64      `json:"primary_type_id"`
	PrimaryTypeName string     `json:"primary_type_name"`
	FacilityTypeID  int64      `json:"facility_type_id"`
	FacilityName    string     `json:"facility_name"`
	RunTime         int64      `json:"run_time"` // seconds per run
	Inputs          []Material `json:"inputs"`
	Outputs         []Material `json:"outputs"`
}

// PrimaryOutput returns the output entry for the blueprint's primary product.
func (b *Blueprint) PrimaryOutput() (Material, bool) {
	for _, out := range b.Outputs {
		if out.TypeID == b.PrimaryTypeID {
			return out, true
		}
	}
	return Material{}, false
}

// ByproductOutputs returns all non-primary outputs.
func (b *Blueprint) ByproductOutputs() []Material {
	var byproducts []Material
	for _, out := range b.Outputs {
		if out.TypeID != b.PrimaryTypeID {
			byproducts = append(byproducts, out)
		}
	}
	return byproducts
}

// BlueprintSummary is the lightweight blueprint listing used by the
// facility browse endpoints.
type BlueprintSummary struct {
	BlueprintID     int64  `json:"blueprint_id"`
	PrimaryTypeID   int64  `json:"primary_type_id"`
	PrimaryTypeName string `json:"primary_type_name"`
	RunTime         int64  `json:"run_time"`
}

// BlueprintOption is one manufacturing alternative for a material type.
type BlueprintOption struct {
	BlueprintID    int64  `json:"blueprint_id"`
	OutputQuantity int64  `json:"output_quantity"`
	TimeSeconds    int64  `json:"time_seconds"`
	FacilityTypeID int64  `json:"facility_type_id,omitempty"`
	FacilityName   string `json:"facility_name,omitempty"`
}

// ============================================
// PRODUCTION TREE TYPES
// ============================================

// Byproduct is a non-primary output generated by a production node's runs.
type Byproduct struct {
	TypeID   int64  `json:"type_id"`
	TypeName string `json:"type_name"`
	Quantity int64  `json:"quantity"`
}

// ProductionNode is one resolved (type, quantity) requirement in a
// production tree. A nil BlueprintID marks a base material: a leaf with
// no known blueprint, acquired rather than manufactured.
type ProductionNode struct {
	TypeID                 int64             `json:"type_id"`
	TypeName               string            `json:"type_name"`
	QuantityNeeded         int64             `json:"quantity_needed"`
	QuantityFromExcessPool int64             `json:"quantity_from_excess_pool"`
	QuantityProduced       int64             `json:"quantity_produced"`
	ExcessQuantity         int64             `json:"excess_quantity"`
	BlueprintID            *int64            `json:"blueprint_id"`
	FacilityTypeID         *int64            `json:"facility_type_id,omitempty"`
	FacilityName           string            `json:"facility_name,omitempty"`
	RunsRequired           int64             `json:"runs_required"`
	TimeSeconds            int64             `json:"time_seconds"`
	TotalProductionTime    int64             `json:"total_production_time"`
	TotalBaseMaterials     int64             `json:"total_base_materials"`
	BaseMaterialBreakdown  map[int64]int64   `json:"base_material_breakdown"`
	BaseMaterialNames      map[int64]string  `json:"base_material_names"`
	Byproducts             []Byproduct       `json:"byproducts"`
	AlternativeBlueprints  int               `json:"alternative_blueprints"`
	Inputs                 []*ProductionNode `json:"inputs"`
}

// IsBaseMaterial reports whether this node is a leaf with no blueprint.
func (n *ProductionNode) IsBaseMaterial() bool {
	return n.BlueprintID == nil
}

// ============================================
// OPTIMIZER REQUEST/RESPONSE TYPES
// ============================================

// MaterialInput is one top-level requirement handed to the optimizer.
// Field names are camelCase to match the client payload.
type MaterialInput struct {
	TypeID   int64 `json:"typeId"`
	Quantity int64 `json:"quantity"`
}

// OptimizeMultiRequest is the body for the optimize-multi endpoint.
type OptimizeMultiRequest struct {
	Materials          []MaterialInput `json:"materials"`
	BlueprintOverrides map[int64]int64 `json:"blueprintOverrides,omitempty"`
}

// OptimizeMultiResponse is the result of a multi-target optimization run.
// TotalRawMaterials sums base materials across every target; Byproducts is
// the surplus left un-withdrawn in the shared pool when the run finished.
type OptimizeMultiResponse struct {
	Targets           []*ProductionNode `json:"targets"`
	TotalRawMaterials map[int64]int64   `json:"totalRawMaterials"`
	TotalTime         int64             `json:"totalTime"`
	Byproducts        map[int64]int64   `json:"byproducts"`
}

// EfficiencyRequest is the body for the POST efficiency endpoint, used
// when the caller wants to force non-default blueprint choices.
type EfficiencyRequest struct {
	Quantity           int64           `json:"quantity"`
	BlueprintOverrides map[int64]int64 `json:"blueprintOverrides,omitempty"`
}

// ============================================
// SUMMARY / COMPARISON TYPES
// ============================================

// ProductionSummary is the rolled-up view of a resolved tree or forest.
// ExcessMaterials reports gross surplus generated (overproduction plus
// byproducts), not net remaining after pool reuse.
type ProductionSummary struct {
	BaseMaterials      map[string]int64 `json:"base_materials"`
	TotalBaseMaterials int64            `json:"total_base_materials"`
	ExcessMaterials    map[string]int64 `json:"excess_materials"`
	TotalTime          int64            `json:"total_time"`
}

// BlueprintComparison ranks one blueprint option for a type by the full
// production chain it implies. Rank 1 is the most material-efficient.
type BlueprintComparison struct {
	BlueprintID           int64           `json:"blueprint_id"`
	TimeSeconds           int64           `json:"time_seconds"`
	BaseMaterialsRequired int64           `json:"base_materials_required"`
	BaseMaterialBreakdown map[int64]int64 `json:"base_material_breakdown"`
	EfficiencyRank        int             `json:"efficiency_rank"`
}
