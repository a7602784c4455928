package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"akquise_backend/internal/acquisition/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leadColumns = `id, company_id, ad_id, position_id, position, akquise_status, status_version,
	status_changed_at, priority, first_seen_at, last_seen_at, expires_at, import_batch_id, source,
	created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var status string
	err := row.Scan(
		&lead.ID, &lead.CompanyID, &lead.AdID, &lead.PositionID, &lead.Position,
		&status, &lead.StatusVersion, &lead.StatusChangedAt, &lead.Priority,
		&lead.FirstSeenAt, &lead.LastSeenAt, &lead.ExpiresAt, &lead.ImportBatchID,
		&lead.Source, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	lead.Status = domain.Status(status)
	return lead, nil
}

func collectLeads(rows pgx.Rows) ([]Lead, error) {
	defer rows.Close()
	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}

func (r *Repository) GetLead(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	return lead, err
}

func (r *Repository) GetLeadForUpdate(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	return lead, err
}

func (r *Repository) GetLeadByAdID(ctx context.Context, adID string) (Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE ad_id = $1`, adID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	return lead, err
}

func (r *Repository) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx, `
		INSERT INTO leads (
			company_id, ad_id, position_id, position, akquise_status,
			priority, first_seen_at, last_seen_at, expires_at, import_batch_id, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns,
		params.CompanyID, params.AdID, params.PositionID, params.Position,
		string(params.Status), params.Priority, params.FirstSeenAt,
		params.LastSeenAt, params.ExpiresAt, params.ImportBatchID, params.Source,
	))
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// UpdateLeadStatus writes the new status under an optimistic version check.
// A version mismatch (or a vanished row) returns ErrStaleLead so the caller
// can surface a retryable conflict.
func (r *Repository) UpdateLeadStatus(ctx context.Context, params UpdateLeadStatusParams) (Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx, `
		UPDATE leads
		SET akquise_status = $3, status_version = status_version + 1,
			status_changed_at = now(), updated_at = now()
		WHERE id = $1 AND status_version = $2
		RETURNING `+leadColumns,
		params.ID, params.ExpectedVersion, string(params.NewStatus),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrStaleLead
	}
	return lead, err
}

func (r *Repository) UpdateLeadAdID(ctx context.Context, id uuid.UUID, adID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE leads SET ad_id = $2, updated_at = now() WHERE id = $1`,
		id, adID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (r *Repository) RefreshLeadSeen(ctx context.Context, params RefreshLeadSeenParams) (Lead, error) {
	if params.ResetStatus != nil {
		lead, err := scanLead(r.db.QueryRow(ctx, `
			UPDATE leads
			SET last_seen_at = $3, expires_at = $4, import_batch_id = COALESCE($5, import_batch_id),
				akquise_status = $6, status_version = status_version + 1,
				status_changed_at = now(), updated_at = now()
			WHERE id = $1 AND status_version = $2
			RETURNING `+leadColumns,
			params.ID, params.ExpectedVersion, params.LastSeenAt, params.ExpiresAt,
			params.ImportBatchID, string(*params.ResetStatus),
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrStaleLead
		}
		return lead, err
	}

	lead, err := scanLead(r.db.QueryRow(ctx, `
		UPDATE leads
		SET last_seen_at = $2, expires_at = $3, import_batch_id = COALESCE($4, import_batch_id),
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		params.ID, params.LastSeenAt, params.ExpiresAt, params.ImportBatchID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	return lead, err
}

func (r *Repository) ListLeads(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if params.Status != nil {
		args = append(args, string(*params.Status))
		where = append(where, fmt.Sprintf("akquise_status = $%d", len(args)))
	}
	if params.CompanyID != nil {
		args = append(args, *params.CompanyID)
		where = append(where, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("position ILIKE $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM leads`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(ctx,
		`SELECT `+leadColumns+` FROM leads`+whereClause+
			fmt.Sprintf(` ORDER BY priority DESC, last_seen_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// OpenLeadsByCompany returns the company's leads that are still actively
// worked (not converted, blacklisted, lost or worked off).
func (r *Repository) OpenLeadsByCompany(ctx context.Context, companyID uuid.UUID) ([]Lead, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE company_id = $1
		  AND akquise_status NOT IN ('job_created', 'blacklist_hard', 'blacklist_soft', 'followup_done', 'lost')
		ORDER BY priority DESC, last_seen_at DESC`,
		companyID)
	if err != nil {
		return nil, err
	}
	return collectLeads(rows)
}

// BlacklistCompanyLeads is the bulk arm of the blacklist cascade: one
// statement force-transitions every open sibling of the company to
// blacklist_hard and returns the affected rows so synthetic call records
// can be written for the audit trail.
func (r *Repository) BlacklistCompanyLeads(ctx context.Context, companyID, excludeLeadID uuid.UUID) ([]Lead, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE leads
		SET akquise_status = 'blacklist_hard', status_version = status_version + 1,
			status_changed_at = now(), updated_at = now()
		WHERE company_id = $1 AND id <> $2
		  AND akquise_status NOT IN ('job_created', 'blacklist_hard')
		RETURNING `+leadColumns,
		companyID, excludeLeadID)
	if err != nil {
		return nil, err
	}
	return collectLeads(rows)
}
