package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, street, zip_code, city, phone, email, industry, employee_count,
	blacklisted, created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var company Company
	err := row.Scan(
		&company.ID, &company.Name, &company.Street, &company.ZipCode, &company.City,
		&company.Phone, &company.Email, &company.Industry, &company.EmployeeCount,
		&company.Blacklisted, &company.CreatedAt, &company.UpdatedAt,
	)
	return company, err
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrCompanyNotFound
	}
	return company, err
}

// FindCompanyByNameCity matches companies case-insensitively on name and
// city, the dedup key the import reconciler uses.
func (r *Repository) FindCompanyByNameCity(ctx context.Context, name, city string) (Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx, `
		SELECT `+companyColumns+` FROM companies
		WHERE lower(name) = lower($1) AND lower(city) = lower($2)
		LIMIT 1`,
		name, city))
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrCompanyNotFound
	}
	return company, err
}

// CreateCompany inserts the company or, when another import already created
// it under the same name+city key, returns that existing row. The upsert
// rides on the unique idx_companies_name_city index, so two transactions
// racing on the same company serialize at the database instead of both
// inserting.
func (r *Repository) CreateCompany(ctx context.Context, params CreateCompanyParams) (Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx, `
		INSERT INTO companies (name, street, zip_code, city, phone, email, industry, employee_count, blacklisted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (lower(name), lower(city)) DO UPDATE SET updated_at = now()
		RETURNING `+companyColumns,
		params.Name, params.Street, params.ZipCode, params.City, params.Phone,
		params.Email, params.Industry, params.EmployeeCount, params.Blacklisted,
	))
	if err != nil {
		return Company{}, err
	}
	return company, nil
}

func (r *Repository) SetCompanyBlacklisted(ctx context.Context, id uuid.UUID, blacklisted bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET blacklisted = $2, updated_at = now() WHERE id = $1`,
		id, blacklisted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
