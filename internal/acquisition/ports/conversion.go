// Package ports defines the interfaces the acquisition engine requires from
// external systems. The engine only knows about the data it needs, formatted
// the way it wants; adapters translate to the real collaborator APIs.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// ConversionParams is everything the ATS needs to turn a fully qualified
// lead into an active job record.
type ConversionParams struct {
	LeadID       uuid.UUID
	Position     string
	CompanyName  string
	ContactName  string
	ContactPhone string
	ContactEmail string
	StartDate    string
	SalaryRange  string
	Headcount    int
	Requirements string
	Notes        string
}

// ConversionResult is the success token returned by the ATS.
type ConversionResult struct {
	ExternalJobID string
	Summary       string
}

// ConversionService hands a qualified lead over to the applicant tracking
// system. Failure is non-fatal to the disposition that triggered it; the
// engine records the outcome and moves on.
type ConversionService interface {
	ConvertLead(ctx context.Context, params ConversionParams) (*ConversionResult, error)
}
