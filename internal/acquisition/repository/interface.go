package repository

import (
	"context"
	"time"

	"akquise_backend/internal/acquisition/domain"

	"github.com/google/uuid"
)

// Lead is one row per advertised vacancy pulled from the external source.
type Lead struct {
	ID              uuid.UUID
	CompanyID       *uuid.UUID
	AdID            *string
	PositionID      *string
	Position        string
	Status          domain.Status
	StatusVersion   int
	StatusChangedAt time.Time
	Priority        int
	FirstSeenAt     time.Time
	LastSeenAt      time.Time
	ExpiresAt       time.Time
	ImportBatchID   *uuid.UUID
	Source          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Company is shared reference data; the engine mutates it narrowly
// (blacklist flips) but does not own it exclusively.
type Company struct {
	ID            uuid.UUID
	Name          string
	Street        string
	ZipCode       string
	City          string
	Phone         *string
	Email         *string
	Industry      *string
	EmployeeCount *int
	Blacklisted   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Contact is a person at a company. PhoneNormalized is derived
// deterministically from Phone; lookups always use the normalized form.
type Contact struct {
	ID              uuid.UUID
	CompanyID       uuid.UUID
	FirstName       string
	LastName        string
	Role            string
	Phone           string
	PhoneNormalized string
	Extension       *string
	GatekeeperName  *string
	Email           *string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CallRecord is the immutable log of one phone interaction. Synthetic
// records are written by the blacklist cascade on sibling leads.
type CallRecord struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	ContactID       *uuid.UUID
	Disposition     domain.DispositionCode
	Notes           string
	DurationSeconds int
	FollowUpAt      *time.Time
	FollowUpNote    *string
	Transcript      *string
	Synthetic       bool
	CreatedAt       time.Time
}

// DueFollowUp is one row of the due-today worklist.
type DueFollowUp struct {
	LeadID       uuid.UUID
	CallID       uuid.UUID
	Company      string
	Position     string
	ContactName  string
	ContactPhone string
	FollowUpAt   time.Time
	Note         string
}

// CreateLeadParams contains data for inserting a lead.
type CreateLeadParams struct {
	CompanyID     *uuid.UUID
	AdID          *string
	PositionID    *string
	Position      string
	Status        domain.Status
	Priority      int
	FirstSeenAt   time.Time
	LastSeenAt    time.Time
	ExpiresAt     time.Time
	ImportBatchID *uuid.UUID
	Source        *string
}

// UpdateLeadStatusParams moves a lead to a new status under an optimistic
// version check. ExpectedVersion must match the row or the update fails
// with ErrStaleLead.
type UpdateLeadStatusParams struct {
	ID              uuid.UUID
	ExpectedVersion int
	NewStatus       domain.Status
}

// RefreshLeadSeenParams bumps the sighting window of a re-imported lead.
// ResetStatus, when non-nil, also resets the lifecycle status (re-import
// path back to "new").
type RefreshLeadSeenParams struct {
	ID              uuid.UUID
	ExpectedVersion int
	LastSeenAt      time.Time
	ExpiresAt       time.Time
	ImportBatchID   *uuid.UUID
	ResetStatus     *domain.Status
}

// CreateCompanyParams contains data for inserting a company.
type CreateCompanyParams struct {
	Name          string
	Street        string
	ZipCode       string
	City          string
	Phone         *string
	Email         *string
	Industry      *string
	EmployeeCount *int
	Blacklisted   bool
}

// CreateContactParams contains data for inserting a contact.
type CreateContactParams struct {
	CompanyID       uuid.UUID
	FirstName       string
	LastName        string
	Role            string
	Phone           string
	PhoneNormalized string
	Email           *string
}

// CreateCallRecordParams contains data for inserting a call record.
type CreateCallRecordParams struct {
	LeadID          uuid.UUID
	ContactID       *uuid.UUID
	Disposition     domain.DispositionCode
	Notes           string
	DurationSeconds int
	FollowUpAt      *time.Time
	FollowUpNote    *string
	Synthetic       bool
}

// ListLeadsParams defines filters for the worklist query.
type ListLeadsParams struct {
	Status    *domain.Status
	CompanyID *uuid.UUID
	Search    string
	Page      int
	PageSize  int
}

// Store is the persistence boundary of the acquisition engine. The pgx
// Repository implements it; service tests use an in-memory fake.
type Store interface {
	// WithTx runs fn against a transaction-bound store. The disposition
	// processor uses this to make the status write, the call record and any
	// cascade rows atomic as a unit.
	WithTx(ctx context.Context, fn func(Store) error) error

	GetLead(ctx context.Context, id uuid.UUID) (Lead, error)
	// GetLeadForUpdate locks the lead row for the duration of the enclosing
	// transaction so concurrent disposition calls serialize per lead.
	GetLeadForUpdate(ctx context.Context, id uuid.UUID) (Lead, error)
	GetLeadByAdID(ctx context.Context, adID string) (Lead, error)
	CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error)
	UpdateLeadStatus(ctx context.Context, params UpdateLeadStatusParams) (Lead, error)
	RefreshLeadSeen(ctx context.Context, params RefreshLeadSeenParams) (Lead, error)
	// UpdateLeadAdID rewrites the ad id of a lead. The importer uses it to
	// archive a stale lead under a dated ad id before the re-entered ad
	// claims the original one.
	UpdateLeadAdID(ctx context.Context, id uuid.UUID, adID string) error
	ListLeads(ctx context.Context, params ListLeadsParams) ([]Lead, int, error)
	OpenLeadsByCompany(ctx context.Context, companyID uuid.UUID) ([]Lead, error)
	// BlacklistCompanyLeads force-transitions every open sibling lead of a
	// company to blacklist_hard in one bulk statement and returns the
	// affected leads. Leads already at job_created or blacklist_hard are
	// left alone.
	BlacklistCompanyLeads(ctx context.Context, companyID, excludeLeadID uuid.UUID) ([]Lead, error)

	GetCompany(ctx context.Context, id uuid.UUID) (Company, error)
	FindCompanyByNameCity(ctx context.Context, name, city string) (Company, error)
	CreateCompany(ctx context.Context, params CreateCompanyParams) (Company, error)
	SetCompanyBlacklisted(ctx context.Context, id uuid.UUID, blacklisted bool) error

	GetContact(ctx context.Context, id uuid.UUID) (Contact, error)
	FindContactByPhone(ctx context.Context, phoneNormalized string) (Contact, error)
	FindContactByName(ctx context.Context, companyID uuid.UUID, firstName, lastName string) (Contact, error)
	CreateContact(ctx context.Context, params CreateContactParams) (Contact, error)
	SetContactGatekeeper(ctx context.Context, id uuid.UUID, gatekeeperName, extension string) error
	AppendContactNote(ctx context.Context, id uuid.UUID, note string) error

	CreateCallRecord(ctx context.Context, params CreateCallRecordParams) (CallRecord, error)
	CreateCallRecords(ctx context.Context, params []CreateCallRecordParams) error
	GetCallRecord(ctx context.Context, id uuid.UUID) (CallRecord, error)
	AttachTranscript(ctx context.Context, id uuid.UUID, transcript string) error
	ListCallsForLead(ctx context.Context, leadID uuid.UUID) ([]CallRecord, error)
	DueFollowUps(ctx context.Context, asOf time.Time) ([]DueFollowUp, error)
}
