package engine

import (
	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// Summarize rolls up a resolved tree or forest for presentation.
//
// Base materials come from the root breakdowns, which the resolver
// already aggregated bottom-up. Excess materials are collected by walking
// every node: overproduction keyed by the node's own type plus every
// byproduct entry. That figure is gross surplus generated; surplus still
// unclaimed after pool reuse is reported separately by OptimizeMulti.
// Read-only: no pool is touched.
func Summarize(nodes ...*industry.ProductionNode) industry.ProductionSummary {
	summary := industry.ProductionSummary{
		BaseMaterials:   make(map[string]int64),
		ExcessMaterials: make(map[string]int64),
	}

	for _, node := range nodes {
		if node == nil {
			continue
		}

		for baseType, qty := range node.BaseMaterialBreakdown {
			name := node.BaseMaterialNames[baseType]
			summary.BaseMaterials[name] += qty
			summary.TotalBaseMaterials += qty
		}

		if node.TotalProductionTime > summary.TotalTime {
			summary.TotalTime = node.TotalProductionTime
		}

		collectExcess(node, summary.ExcessMaterials)
	}

	return summary
}

// collectExcess walks a tree adding overproduction and byproducts.
func collectExcess(node *industry.ProductionNode, excess map[string]int64) {
	if node.ExcessQuantity > 0 {
		excess[node.TypeName] += node.ExcessQuantity
	}
	for _, bp := range node.Byproducts {
		excess[bp.TypeName] += bp.Quantity
	}
	for _, child := range node.Inputs {
		collectExcess(child, excess)
	}
}
