package engine

// ExcessPool tracks surplus units of every material type generated during
// one optimization run, either as overproduction or as byproducts. Later
// resolved branches of the same run draw from it before manufacturing.
//
// Not safe for concurrent use: resolution is strictly sequential within a
// run, and each run gets its own pool. Sharing a pool across runs would
// let one request's surplus leak into another's totals.
type ExcessPool struct {
	surplus map[int64]int64
}

// NewExcessPool creates an empty pool.
func NewExcessPool() *ExcessPool {
	return &ExcessPool{surplus: make(map[int64]int64)}
}

// Peek returns the current surplus for a type, 0 if absent.
func (p *ExcessPool) Peek(typeID int64) int64 {
	return p.surplus[typeID]
}

// Withdraw removes up to requested units for a type and returns the
// amount actually withdrawn: min(requested, available), never negative.
func (p *ExcessPool) Withdraw(typeID, requested int64) int64 {
	if requested <= 0 {
		return 0
	}

	available := p.surplus[typeID]
	withdrawn := requested
	if available < withdrawn {
		withdrawn = available
	}

	if withdrawn == available {
		delete(p.surplus, typeID)
	} else {
		p.surplus[typeID] = available - withdrawn
	}

	return withdrawn
}

// Deposit adds surplus units for a type. Quantities <= 0 are a no-op.
func (p *ExcessPool) Deposit(typeID, quantity int64) {
	if quantity <= 0 {
		return
	}
	p.surplus[typeID] += quantity
}

// Remaining returns a snapshot of all surplus left in the pool.
func (p *ExcessPool) Remaining() map[int64]int64 {
	remaining := make(map[int64]int64, len(p.surplus))
	for typeID, qty := range p.surplus {
		if qty > 0 {
			remaining[typeID] = qty
		}
	}
	return remaining
}
