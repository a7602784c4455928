// Package transport defines the request/response DTOs of the acquisition
// API. Validation tags are checked by the shared validator before a request
// reaches the service layer.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// GatekeeperDetails carries what the operator learned from reception when a
// gatekeeper call could not reach the decision maker.
type GatekeeperDetails struct {
	Name      string `json:"name,omitempty" validate:"omitempty,max=200"`
	Extension string `json:"extension,omitempty" validate:"omitempty,max=20"`
}

// TransferDetails describes the new contact person the call was handed to.
type TransferDetails struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Role      string `json:"role,omitempty" validate:"omitempty,max=100"`
	Phone     string `json:"phone" validate:"required,min=5,max=30"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// NewVacancyDetails describes an additional open vacancy surfaced during the
// call, to be tracked as a fresh lead on the same company.
type NewVacancyDetails struct {
	Position   string `json:"position" validate:"required,min=1,max=300"`
	PositionID string `json:"positionId,omitempty" validate:"omitempty,max=100"`
}

// QualificationPayload carries the structured answers collected when a lead
// is qualified for handover to the ATS.
type QualificationPayload struct {
	StartDate    string `json:"startDate,omitempty" validate:"omitempty,max=50"`
	SalaryRange  string `json:"salaryRange,omitempty" validate:"omitempty,max=100"`
	Headcount    int    `json:"headcount,omitempty" validate:"omitempty,min=1,max=1000"`
	Requirements string `json:"requirements,omitempty" validate:"omitempty,max=5000"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// RecordCallRequest records the outcome of one phone call against a lead.
// Each disposition carries only the detail payload it actually needs; the
// service enforces which payload is required for which code.
type RecordCallRequest struct {
	ContactID       *uuid.UUID            `json:"contactId,omitempty" validate:"-"`
	Disposition     string                `json:"disposition" validate:"required,max=50"`
	Notes           string                `json:"notes,omitempty" validate:"omitempty,max=10000"`
	DurationSeconds int                   `json:"durationSeconds,omitempty" validate:"omitempty,min=0,max=86400"`
	FollowUpAt      *time.Time            `json:"followUpAt,omitempty" validate:"-"`
	FollowUpNote    string                `json:"followUpNote,omitempty" validate:"omitempty,max=1000"`
	Gatekeeper      *GatekeeperDetails    `json:"gatekeeper,omitempty" validate:"omitempty"`
	Transfer        *TransferDetails      `json:"transfer,omitempty" validate:"omitempty"`
	NewVacancy      *NewVacancyDetails    `json:"newVacancy,omitempty" validate:"omitempty"`
	Qualification   *QualificationPayload `json:"qualification,omitempty" validate:"omitempty"`
}

type RecordCallResponse struct {
	CallID       uuid.UUID  `json:"callId"`
	NewStatus    string     `json:"newStatus"`
	ActionLog    []string   `json:"actionLog"`
	AutoFollowUp *time.Time `json:"autoFollowUp,omitempty"`
}

// ImportRow is one raw lead row from the vendor feed.
type ImportRow struct {
	Position         string `json:"position,omitempty" validate:"omitempty,max=300"`
	AdID             string `json:"adId,omitempty" validate:"omitempty,max=100"`
	PositionID       string `json:"positionId,omitempty" validate:"omitempty,max=100"`
	JobText          string `json:"jobText,omitempty" validate:"omitempty,max=50000"`
	CompanyName      string `json:"companyName,omitempty" validate:"omitempty,max=300"`
	Street           string `json:"street,omitempty" validate:"omitempty,max=200"`
	ZipCode          string `json:"zipCode,omitempty" validate:"omitempty,max=20"`
	City             string `json:"city,omitempty" validate:"omitempty,max=100"`
	Industry         string `json:"industry,omitempty" validate:"omitempty,max=200"`
	EmployeeCount    *int   `json:"employeeCount,omitempty" validate:"-"`
	ContactFirstName string `json:"contactFirstName,omitempty" validate:"omitempty,max=100"`
	ContactLastName  string `json:"contactLastName,omitempty" validate:"omitempty,max=100"`
	ContactRole      string `json:"contactRole,omitempty" validate:"omitempty,max=100"`
	ContactPhone     string `json:"contactPhone,omitempty" validate:"omitempty,max=30"`
	ContactEmail     string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	Source           string `json:"source,omitempty" validate:"omitempty,max=100"`
}

type ImportBatchRequest struct {
	Rows []ImportRow `json:"rows" validate:"required,min=1,max=10000,dive"`
}

// ImportRowError pinpoints one failed row inside a batch.
type ImportRowError struct {
	Row    int    `json:"row"`
	AdID   string `json:"adId,omitempty"`
	Reason string `json:"reason"`
}

// ImportSummary reports the outcome of every row in a batch. All buckets
// are always present so "nothing new" is distinguishable from "everything
// skipped".
type ImportSummary struct {
	BatchID             uuid.UUID        `json:"batchId"`
	Imported            int              `json:"imported"`
	DuplicatesRefreshed int              `json:"duplicatesRefreshed"`
	BlacklistedSkipped  int              `json:"blacklistedSkipped"`
	ProtectedSkipped    int              `json:"protectedSkipped"`
	Errors              int              `json:"errors"`
	ErrorDetails        []ImportRowError `json:"errorDetails"`
}

type AttachTranscriptRequest struct {
	Transcript string `json:"transcript" validate:"required,min=1"`
}

// Response DTOs

type LeadResponse struct {
	ID              uuid.UUID  `json:"id"`
	CompanyID       *uuid.UUID `json:"companyId,omitempty"`
	AdID            *string    `json:"adId,omitempty"`
	PositionID      *string    `json:"positionId,omitempty"`
	Position        string     `json:"position"`
	Status          string     `json:"status"`
	StatusChangedAt time.Time  `json:"statusChangedAt"`
	Priority        int        `json:"priority"`
	FirstSeenAt     time.Time  `json:"firstSeenAt"`
	LastSeenAt      time.Time  `json:"lastSeenAt"`
	ExpiresAt       time.Time  `json:"expiresAt"`
	Source          *string    `json:"source,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type LeadListResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type CallResponse struct {
	ID              uuid.UUID  `json:"id"`
	LeadID          uuid.UUID  `json:"leadId"`
	ContactID       *uuid.UUID `json:"contactId,omitempty"`
	Disposition     string     `json:"disposition"`
	Notes           string     `json:"notes,omitempty"`
	DurationSeconds int        `json:"durationSeconds"`
	FollowUpAt      *time.Time `json:"followUpAt,omitempty"`
	FollowUpNote    *string    `json:"followUpNote,omitempty"`
	Transcript      *string    `json:"transcript,omitempty"`
	Synthetic       bool       `json:"synthetic"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type LeadDetailResponse struct {
	LeadResponse
	Calls []CallResponse `json:"calls"`
}

type ContactResponse struct {
	ID             uuid.UUID `json:"id"`
	CompanyID      uuid.UUID `json:"companyId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Role           string    `json:"role,omitempty"`
	Phone          string    `json:"phone"`
	Extension      *string   `json:"extension,omitempty"`
	GatekeeperName *string   `json:"gatekeeperName,omitempty"`
	Email          *string   `json:"email,omitempty"`
}

type CompanyResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Street        string    `json:"street,omitempty"`
	ZipCode       string    `json:"zipCode,omitempty"`
	City          string    `json:"city,omitempty"`
	Industry      *string   `json:"industry,omitempty"`
	EmployeeCount *int      `json:"employeeCount,omitempty"`
	Blacklisted   bool      `json:"blacklisted"`
}

type DueFollowUpResponse struct {
	LeadID       uuid.UUID `json:"leadId"`
	CallID       uuid.UUID `json:"callId"`
	Company      string    `json:"company,omitempty"`
	Position     string    `json:"position"`
	Contact      string    `json:"contact,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	FollowUpAt   time.Time `json:"followUpAt"`
	Note         string    `json:"note,omitempty"`
}

// PhoneLookupResponse answers inbound-call matching: who is calling, which
// company, and which of their leads are still open.
type PhoneLookupResponse struct {
	Contact   ContactResponse  `json:"contact"`
	Company   *CompanyResponse `json:"company,omitempty"`
	OpenLeads []LeadResponse   `json:"openLeads"`
}
