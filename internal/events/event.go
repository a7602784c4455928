// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"akquise_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Acquisition Domain Events
// =============================================================================

// LeadTransitioned is published when a disposition call moves a lead to a
// new lifecycle status.
type LeadTransitioned struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Disposition string    `json:"disposition"`
	CallID      uuid.UUID `json:"callId"`
}

func (e LeadTransitioned) EventName() string { return "akquise.lead.transitioned" }

// BlacklistCascadeApplied is published after a never-again disposition has
// hard-blacklisted a company and all of its open sibling leads.
type BlacklistCascadeApplied struct {
	BaseEvent
	CompanyID     uuid.UUID `json:"companyId"`
	TriggerLeadID uuid.UUID `json:"triggerLeadId"`
	Affected      int       `json:"affected"`
}

func (e BlacklistCascadeApplied) EventName() string { return "akquise.blacklist.cascade_applied" }

// FollowUpScheduled is published when a disposition call schedules a
// follow-up (wiedervorlage), automatic or operator-supplied.
type FollowUpScheduled struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	CallID     uuid.UUID `json:"callId"`
	FollowUpAt time.Time `json:"followUpAt"`
	Note       string    `json:"note,omitempty"`
}

func (e FollowUpScheduled) EventName() string { return "akquise.followup.scheduled" }

// FollowUpDue is published by the scheduler worker when a scheduled
// follow-up reaches its due time.
type FollowUpDue struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	CallID     uuid.UUID `json:"callId"`
	FollowUpAt time.Time `json:"followUpAt"`
}

func (e FollowUpDue) EventName() string { return "akquise.followup.due" }

// LeadBatchImported is published after a bulk import batch finishes.
type LeadBatchImported struct {
	BaseEvent
	BatchID            uuid.UUID `json:"batchId"`
	Imported           int       `json:"imported"`
	DuplicatesRefreshed int      `json:"duplicatesRefreshed"`
	BlacklistedSkipped int       `json:"blacklistedSkipped"`
	ProtectedSkipped   int       `json:"protectedSkipped"`
	Errors             int       `json:"errors"`
}

func (e LeadBatchImported) EventName() string { return "akquise.import.batch_finished" }

// LeadConverted is published when a fully qualified lead has been handed to
// the applicant tracking system.
type LeadConverted struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	ExternalJobID string    `json:"externalJobId,omitempty"`
	Succeeded     bool      `json:"succeeded"`
}

func (e LeadConverted) EventName() string { return "akquise.lead.converted" }
