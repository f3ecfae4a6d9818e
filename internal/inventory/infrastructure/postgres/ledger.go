package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veerananda/Stock-Deduction-Service/internal/inventory/domain"
)

type Ledger struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewLedger(log *slog.Logger, pool *pgxpool.Pool) *Ledger {
	return &Ledger{log: log, pool: pool}
}

// Deduct decrements available stock for sku by qty in a single conditional
// UPDATE, so concurrent deductions of the same SKU serialize on the row and
// stock can never go negative. If the guard fails the current level is read
// back so callers see the remaining quantity.
func (l *Ledger) Deduct(ctx context.Context, sku string, qty int) (bool, int, error) {
	var remaining int
	err := l.pool.QueryRow(ctx, `
		UPDATE stock_levels
		SET available = available - $2, updated_at = now()
		WHERE sku = $1 AND available >= $2
		RETURNING available`, sku, qty).Scan(&remaining)
	if err == nil {
		return true, remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, 0, err
	}

	// Guard failed: either the row is missing or stock is short. An unknown
	// SKU reads as zero available.
	err = l.pool.QueryRow(ctx, `SELECT available FROM stock_levels WHERE sku = $1`, sku).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return false, remaining, nil
}

func (l *Ledger) SetStock(ctx context.Context, sku string, qty int) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO stock_levels (sku, available, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (sku) DO UPDATE SET available = $2, updated_at = $3`,
		sku, qty, time.Now().UTC())
	return err
}

func (l *Ledger) GetStock(ctx context.Context, sku string) (domain.StockLevel, error) {
	level := domain.StockLevel{SKU: sku}
	err := l.pool.QueryRow(ctx, `SELECT available, updated_at FROM stock_levels WHERE sku = $1`, sku).
		Scan(&level.Available, &level.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return level, nil
	}
	if err != nil {
		return domain.StockLevel{}, err
	}
	return level, nil
}
