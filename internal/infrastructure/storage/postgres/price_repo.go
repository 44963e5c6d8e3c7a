package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"palletbook/internal/domain/pricing"
)

// PriceRepo stores service and pallet price entries in one table.
type PriceRepo struct {
	txm *TxManager
}

var _ pricing.Repository = (*PriceRepo)(nil)

// NewPriceRepo creates a price repository.
func NewPriceRepo(txm *TxManager) *PriceRepo {
	return &PriceRepo{txm: txm}
}

// InsertPrice adds a new history point.
func (r *PriceRepo) InsertPrice(ctx context.Context, e pricing.Entry) error {
	sql, args, err := builder().
		Insert("prices").
		SetMap(StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build price insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert price %s: %w", e.Key(), describe(err))
	}
	return nil
}

// UpdatePrice rewrites a point in place.
func (r *PriceRepo) UpdatePrice(ctx context.Context, e pricing.Entry) error {
	sql, args, err := builder().
		Update("prices").
		Set("effective_from", e.EffectiveFrom).
		Set("price_per_unit", e.PricePerUnit).
		Set("updated_at", e.UpdatedAt).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build price update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update price %s: %w", e.ID, describe(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update price %s: no such row", e.ID)
	}
	return nil
}

// describe names the constraint behind a postgres error.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return fmt.Errorf("%w (constraint %s)", err, pgErr.ConstraintName)
	}
	return err
}
