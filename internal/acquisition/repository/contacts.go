package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const contactColumns = `id, company_id, first_name, last_name, role, phone, phone_normalized,
	extension, gatekeeper_name, email, notes, created_at, updated_at`

func scanContact(row pgx.Row) (Contact, error) {
	var contact Contact
	err := row.Scan(
		&contact.ID, &contact.CompanyID, &contact.FirstName, &contact.LastName,
		&contact.Role, &contact.Phone, &contact.PhoneNormalized, &contact.Extension,
		&contact.GatekeeperName, &contact.Email, &contact.Notes,
		&contact.CreatedAt, &contact.UpdatedAt,
	)
	return contact, err
}

func (r *Repository) GetContact(ctx context.Context, id uuid.UUID) (Contact, error) {
	contact, err := scanContact(r.db.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrContactNotFound
	}
	return contact, err
}

func (r *Repository) FindContactByPhone(ctx context.Context, phoneNormalized string) (Contact, error) {
	contact, err := scanContact(r.db.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE phone_normalized = $1
		ORDER BY updated_at DESC
		LIMIT 1`,
		phoneNormalized))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrContactNotFound
	}
	return contact, err
}

// FindContactByName is the idempotency lookup used by the import
// reconciler: one contact per (company, name).
func (r *Repository) FindContactByName(ctx context.Context, companyID uuid.UUID, firstName, lastName string) (Contact, error) {
	contact, err := scanContact(r.db.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE company_id = $1 AND lower(first_name) = lower($2) AND lower(last_name) = lower($3)
		LIMIT 1`,
		companyID, firstName, lastName))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrContactNotFound
	}
	return contact, err
}

func (r *Repository) CreateContact(ctx context.Context, params CreateContactParams) (Contact, error) {
	contact, err := scanContact(r.db.QueryRow(ctx, `
		INSERT INTO contacts (company_id, first_name, last_name, role, phone, phone_normalized, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+contactColumns,
		params.CompanyID, params.FirstName, params.LastName, params.Role,
		params.Phone, params.PhoneNormalized, params.Email,
	))
	if err != nil {
		return Contact{}, err
	}
	return contact, nil
}

// SetContactGatekeeper persists gatekeeper details learned on a call. Only
// absent fields are filled; existing values are never overwritten.
func (r *Repository) SetContactGatekeeper(ctx context.Context, id uuid.UUID, gatekeeperName, extension string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE contacts
		SET gatekeeper_name = COALESCE(gatekeeper_name, NULLIF($2, '')),
			extension = COALESCE(extension, NULLIF($3, '')),
			updated_at = now()
		WHERE id = $1`,
		id, gatekeeperName, extension)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *Repository) AppendContactNote(ctx context.Context, id uuid.UUID, note string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE contacts
		SET notes = CASE WHEN notes = '' THEN $2 ELSE notes || E'\n' || $2 END,
			updated_at = now()
		WHERE id = $1`,
		id, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}
