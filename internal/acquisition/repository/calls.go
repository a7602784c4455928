package repository

import (
	"context"
	"errors"
	"time"

	"akquise_backend/internal/acquisition/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const callColumns = `id, lead_id, contact_id, disposition, notes, duration_seconds,
	follow_up_at, follow_up_note, transcript, synthetic, created_at`

func scanCallRecord(row pgx.Row) (CallRecord, error) {
	var call CallRecord
	var disposition string
	err := row.Scan(
		&call.ID, &call.LeadID, &call.ContactID, &disposition, &call.Notes,
		&call.DurationSeconds, &call.FollowUpAt, &call.FollowUpNote,
		&call.Transcript, &call.Synthetic, &call.CreatedAt,
	)
	if err != nil {
		return CallRecord{}, err
	}
	call.Disposition = domain.DispositionCode(disposition)
	return call, nil
}

func (r *Repository) CreateCallRecord(ctx context.Context, params CreateCallRecordParams) (CallRecord, error) {
	call, err := scanCallRecord(r.db.QueryRow(ctx, `
		INSERT INTO call_records (
			lead_id, contact_id, disposition, notes, duration_seconds,
			follow_up_at, follow_up_note, synthetic
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+callColumns,
		params.LeadID, params.ContactID, string(params.Disposition), params.Notes,
		params.DurationSeconds, params.FollowUpAt, params.FollowUpNote, params.Synthetic,
	))
	if err != nil {
		return CallRecord{}, err
	}
	return call, nil
}

// CreateCallRecords bulk-inserts call records in one round trip. The
// blacklist cascade uses it to write synthetic audit rows for every
// sibling lead it force-transitioned.
func (r *Repository) CreateCallRecords(ctx context.Context, params []CreateCallRecordParams) error {
	if len(params) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(params))
	for _, p := range params {
		rows = append(rows, []any{
			p.LeadID, p.ContactID, string(p.Disposition), p.Notes,
			p.DurationSeconds, p.FollowUpAt, p.FollowUpNote, p.Synthetic,
		})
	}

	// CopyFrom needs the underlying connection; inside WithTx the querier
	// is a pgx.Tx which exposes it directly.
	if tx, ok := r.db.(pgx.Tx); ok {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"call_records"},
			[]string{"lead_id", "contact_id", "disposition", "notes", "duration_seconds", "follow_up_at", "follow_up_note", "synthetic"},
			pgx.CopyFromRows(rows))
		return err
	}

	for _, p := range params {
		if _, err := r.CreateCallRecord(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) GetCallRecord(ctx context.Context, id uuid.UUID) (CallRecord, error) {
	call, err := scanCallRecord(r.db.QueryRow(ctx,
		`SELECT `+callColumns+` FROM call_records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return CallRecord{}, ErrCallNotFound
	}
	return call, err
}

func (r *Repository) AttachTranscript(ctx context.Context, id uuid.UUID, transcript string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE call_records SET transcript = $2 WHERE id = $1`,
		id, transcript)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCallNotFound
	}
	return nil
}

func (r *Repository) ListCallsForLead(ctx context.Context, leadID uuid.UUID) ([]CallRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+callColumns+` FROM call_records
		WHERE lead_id = $1
		ORDER BY created_at DESC`,
		leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calls := make([]CallRecord, 0)
	for rows.Next() {
		call, err := scanCallRecord(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, rows.Err()
}

// DueFollowUps returns the follow-up worklist for the given day: per lead
// the most recent call that scheduled a follow-up, where the follow-up date
// has arrived and the lead is still awaiting a follow-up. Converted,
// blacklisted and dead leads drop off; every other status stays on the
// worklist (a not-reached lead sitting at "called" is due the next day).
func (r *Repository) DueFollowUps(ctx context.Context, asOf time.Time) ([]DueFollowUp, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (cr.lead_id)
			cr.lead_id, cr.id, co.name, l.position,
			COALESCE(ct.first_name || ' ' || ct.last_name, ''),
			COALESCE(ct.phone, ''),
			cr.follow_up_at, COALESCE(cr.follow_up_note, '')
		FROM call_records cr
		JOIN leads l ON l.id = cr.lead_id
		LEFT JOIN companies co ON co.id = l.company_id
		LEFT JOIN contacts ct ON ct.id = cr.contact_id
		WHERE cr.follow_up_at IS NOT NULL
		  AND cr.follow_up_at::date <= $1::date
		  AND l.akquise_status NOT IN ('job_created', 'blacklist_hard', 'blacklist_soft', 'followup_done', 'lost')
		ORDER BY cr.lead_id, cr.created_at DESC`,
		asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := make([]DueFollowUp, 0)
	for rows.Next() {
		var d DueFollowUp
		var company *string
		if err := rows.Scan(&d.LeadID, &d.CallID, &company, &d.Position,
			&d.ContactName, &d.ContactPhone, &d.FollowUpAt, &d.Note); err != nil {
			return nil, err
		}
		if company != nil {
			d.Company = *company
		}
		due = append(due, d)
	}
	return due, rows.Err()
}
