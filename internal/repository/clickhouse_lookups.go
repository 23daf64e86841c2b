package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/paycrux/switch-connector/internal/model"
)

// CHLookupsRepository lists lookups from ClickHouse (final view).
type CHLookupsRepository interface {
	ListByTenant(ctx context.Context, tenantID string, status model.LookupStatus, idType model.IdentifierType, limit, offset int) ([]model.Lookup, error)
}

type chLookupsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHLookupsRepository(ch *sqlx.DB) CHLookupsRepository {
	return &chLookupsRepository{ch: ch}
}

func (r *chLookupsRepository) ListByTenant(ctx context.Context, tenantID string, status model.LookupStatus, idType model.IdentifierType, limit, offset int) ([]model.Lookup, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT transaction_id, tenant_id, party_id_type, party_identifier, status, payee_fsp_id, created_at, updated_at
		FROM swconn.lookups_latest
		WHERE tenant_id = ?
	`
	args := []any{tenantID}

	if status != "" {
		q += " AND status = ?"
		args = append(args, status.String())
	}
	if idType != "" {
		q += " AND party_id_type = ?"
		args = append(args, idType.String())
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.Lookup
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
