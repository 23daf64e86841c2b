package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/paycrux/switch-connector/internal/model"
)

// LookupsRepository defines persistence for the lookups journal table.
type LookupsRepository interface {
	InsertPending(ctx context.Context, tx *sqlx.Tx, l model.Lookup) error
	MarkResolved(ctx context.Context, tx *sqlx.Tx, transactionID, payeeFspID string) error
	MarkFailed(ctx context.Context, tx *sqlx.Tx, transactionID string) error
}

type LookupsRepositoryImpl struct {
	db *sqlx.DB
}

func NewLookupsRepository(db *sqlx.DB) *LookupsRepositoryImpl {
	return &LookupsRepositoryImpl{db: db}
}

func (r *LookupsRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

// InsertPending journals a new lookup with status=pending.
func (r *LookupsRepositoryImpl) InsertPending(ctx context.Context, tx *sqlx.Tx, l model.Lookup) error {
	const q = `
		INSERT INTO lookups
		    (transaction_id, tenant_id, party_id_type, party_identifier, status, payee_fsp_id, created_at, updated_at)
		VALUES
		    (?, ?, ?, ?, 'pending', '', NOW(), NOW())
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			l.TransactionID, l.TenantID, l.PartyIDType.String(), l.PartyIdentifier,
		)
		return err
	})
}

// MarkResolved records the resolved FSP for a lookup.
func (r *LookupsRepositoryImpl) MarkResolved(ctx context.Context, tx *sqlx.Tx, transactionID, payeeFspID string) error {
	const q = `
		UPDATE lookups SET status = 'resolved', payee_fsp_id = ?, updated_at = NOW()
		WHERE transaction_id = ?
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q, payeeFspID, transactionID)
		return err
	})
}

// MarkFailed records a terminal error outcome for a lookup.
func (r *LookupsRepositoryImpl) MarkFailed(ctx context.Context, tx *sqlx.Tx, transactionID string) error {
	const q = `
		UPDATE lookups SET status = 'failed', updated_at = NOW()
		WHERE transaction_id = ?
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q, transactionID)
		return err
	})
}
