package memory

import (
	"context"
	"sync"
	"time"

	"github.com/veerananda/Stock-Deduction-Service/internal/inventory/domain"
)

// Ledger is an in-memory stock store for tests and single-node setups. A
// single mutex guards the map, which serializes concurrent deductions the
// same way the conditional UPDATE does in postgres.
type Ledger struct {
	mu     sync.Mutex
	levels map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{levels: make(map[string]int)}
}

func (l *Ledger) Deduct(_ context.Context, sku string, qty int) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.levels[sku]
	if qty > available {
		return false, available, nil
	}
	l.levels[sku] = available - qty
	return true, available - qty, nil
}

func (l *Ledger) SetStock(_ context.Context, sku string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.levels[sku] = qty
	return nil
}

func (l *Ledger) GetStock(_ context.Context, sku string) (domain.StockLevel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.StockLevel{SKU: sku, Available: l.levels[sku], UpdatedAt: time.Now().UTC()}, nil
}
