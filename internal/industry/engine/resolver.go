package engine

import (
	"context"
	"fmt"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// Resolve builds the production tree for one (type, quantity) requirement.
//
// The pool is shared, mutable state for the whole run: excess and
// byproducts deposited while resolving one subtree are visible to
// subtrees resolved afterwards. Traversal order is therefore part of the
// contract: depth-first, inputs in blueprint-declared order, left to
// right. Reordering a blueprint's inputs changes which sibling gets first
// claim on earlier deposits.
func (e *Engine) Resolve(
	ctx context.Context,
	typeID, quantity int64,
	pool *ExcessPool,
	overrides map[int64]int64,
) (*industry.ProductionNode, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d for type %d", ErrInvalidQuantity, quantity, typeID)
	}
	if pool == nil {
		pool = NewExcessPool()
	}

	return e.resolve(ctx, typeID, quantity, pool, overrides, make(map[int64]bool))
}

// resolve is the recursive core. path holds the type IDs currently being
// resolved on this branch, for cycle detection.
func (e *Engine) resolve(
	ctx context.Context,
	typeID, quantity int64,
	pool *ExcessPool,
	overrides map[int64]int64,
	path map[int64]bool,
) (*industry.ProductionNode, error) {
	if path[typeID] {
		return nil, fmt.Errorf("%w: type %d appears in its own input chain", ErrCircularRecipe, typeID)
	}

	// Surplus from earlier branches satisfies demand before any production.
	withdrawn := pool.Withdraw(typeID, quantity)
	remaining := quantity - withdrawn

	name, err := e.typeName(ctx, typeID)
	if err != nil {
		return nil, err
	}

	options, err := e.repo.BlueprintOptions(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("%w: blueprint options for type %d: %v", ErrDataUnavailable, typeID, err)
	}

	node := &industry.ProductionNode{
		TypeID:                 typeID,
		TypeName:               name,
		QuantityNeeded:         quantity,
		QuantityFromExcessPool: withdrawn,
		AlternativeBlueprints:  len(options),
		BaseMaterialBreakdown:  map[int64]int64{},
		BaseMaterialNames:      map[int64]string{},
		Byproducts:             []industry.Byproduct{},
		Inputs:                 []*industry.ProductionNode{},
	}

	bp, err := e.selectBlueprint(ctx, typeID, options, overrides)
	if err != nil {
		return nil, err
	}
	if bp != nil {
		id := bp.BlueprintID
		node.BlueprintID = &id
		if bp.FacilityTypeID != 0 {
			facility := bp.FacilityTypeID
			node.FacilityTypeID = &facility
		}
		node.FacilityName = bp.FacilityName
	}

	// Fully satisfied from the pool: no production and no recursion. The
	// blueprint fields above are kept for display only.
	if remaining == 0 {
		return node, nil
	}

	// Base material leaf: no blueprint produces this type.
	if bp == nil {
		node.QuantityProduced = remaining
		node.BaseMaterialBreakdown[typeID] = remaining
		node.BaseMaterialNames[typeID] = name
		node.TotalBaseMaterials = remaining
		return node, nil
	}

	primary, ok := bp.PrimaryOutput()
	if !ok || primary.TypeID != typeID || primary.Quantity <= 0 {
		return nil, fmt.Errorf("%w: blueprint %d has no valid primary output for type %d",
			ErrDataUnavailable, bp.BlueprintID, typeID)
	}

	runs := (remaining + primary.Quantity - 1) / primary.Quantity
	node.RunsRequired = runs
	node.QuantityProduced = runs * primary.Quantity
	node.ExcessQuantity = node.QuantityProduced - remaining
	node.TimeSeconds = runs * bp.RunTime
	node.TotalProductionTime = node.TimeSeconds

	// Deposits happen before input recursion so that a later-resolved
	// sibling needing the same type, or a byproduct type, draws from this
	// node's surplus.
	pool.Deposit(typeID, node.ExcessQuantity)
	for _, out := range bp.ByproductOutputs() {
		produced := runs * out.Quantity
		node.Byproducts = append(node.Byproducts, industry.Byproduct{
			TypeID:   out.TypeID,
			TypeName: out.TypeName,
			Quantity: produced,
		})
		pool.Deposit(out.TypeID, produced)
	}

	path[typeID] = true
	defer delete(path, typeID)

	for _, in := range bp.Inputs {
		child, err := e.resolve(ctx, in.TypeID, runs*in.Quantity, pool, overrides, path)
		if err != nil {
			return nil, err
		}
		node.Inputs = append(node.Inputs, child)

		// Parallel time policy: facilities run concurrently, so the chain
		// is bounded by its slowest branch, not the serial sum.
		if child.TotalProductionTime > node.TotalProductionTime {
			node.TotalProductionTime = child.TotalProductionTime
		}

		for baseType, qty := range child.BaseMaterialBreakdown {
			node.BaseMaterialBreakdown[baseType] += qty
			node.BaseMaterialNames[baseType] = child.BaseMaterialNames[baseType]
		}
	}

	for _, qty := range node.BaseMaterialBreakdown {
		node.TotalBaseMaterials += qty
	}

	return node, nil
}
