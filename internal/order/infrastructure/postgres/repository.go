package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Save(ctx context.Context, o domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, customer, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)`,
		o.ID, o.Customer, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, item := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_id, position, sku, quantity)
			VALUES ($1,$2,$3,$4)`,
			o.ID, i, item.SKU, item.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id string) (domain.Order, bool, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `SELECT id, customer, status, created_at, updated_at FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Customer, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, err
	}

	rows, err := r.pool.Query(ctx, `SELECT sku, quantity FROM order_items WHERE order_id=$1 ORDER BY position`, id)
	if err != nil {
		return domain.Order{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.SKU, &item.Quantity); err != nil {
			return domain.Order{}, false, err
		}
		o.Items = append(o.Items, item)
	}
	return o, true, rows.Err()
}

// GetStatus is the cheap status-only read the reconciliation worker validates
// against.
func (r *Repository) GetStatus(ctx context.Context, id string) (domain.OrderStatus, bool, error) {
	var status domain.OrderStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}

func (r *Repository) Transition(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE orders SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}
