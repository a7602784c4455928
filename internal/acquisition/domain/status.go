// Package domain provides the core business rules for the acquisition
// bounded context: the lead lifecycle state machine, the disposition rules
// applied after every phone call, and the worklist priority scorer.
package domain

// Status is the acquisition lifecycle state of a lead.
type Status string

const (
	StatusNew            Status = "new"
	StatusCalled         Status = "called"
	StatusContacted      Status = "contacted"
	StatusContactMissing Status = "contact_missing"
	StatusEmailSent      Status = "email_sent"
	StatusEmailFollowup  Status = "email_followup"
	StatusFollowUp       Status = "follow_up"
	StatusQualified      Status = "qualified"
	StatusJobCreated     Status = "job_created"
	StatusBlacklistHard  Status = "blacklist_hard"
	StatusBlacklistSoft  Status = "blacklist_soft"
	StatusFollowupDone   Status = "followup_done"
	StatusLost           Status = "lost"
)

// StatusUnchanged is a sentinel indicating that a disposition intentionally
// does not prescribe a status. The processor must keep the lead's current
// status.
const StatusUnchanged Status = ""

// AllStatuses lists every known lifecycle status.
var AllStatuses = []Status{
	StatusNew,
	StatusCalled,
	StatusContacted,
	StatusContactMissing,
	StatusEmailSent,
	StatusEmailFollowup,
	StatusFollowUp,
	StatusQualified,
	StatusJobCreated,
	StatusBlacklistHard,
	StatusBlacklistSoft,
	StatusFollowupDone,
	StatusLost,
}

// transitions is the single source of truth for which status changes are
// legal. Every status write in the engine goes through Validate (or
// ValidateReimport for the import-only edges back to "new").
var transitions = map[Status][]Status{
	StatusNew: {
		StatusCalled, StatusContacted, StatusContactMissing,
		StatusFollowUp, StatusQualified, StatusLost,
	},
	StatusCalled: {
		StatusContacted, StatusFollowUp, StatusEmailSent, StatusContactMissing,
		StatusBlacklistSoft, StatusBlacklistHard, StatusLost,
		StatusQualified, StatusJobCreated,
	},
	StatusContacted: {
		StatusCalled, StatusQualified, StatusFollowUp, StatusEmailSent,
		StatusContactMissing, StatusBlacklistSoft, StatusBlacklistHard,
		StatusJobCreated,
	},
	StatusContactMissing: {
		StatusCalled, StatusContacted, StatusFollowUp,
		StatusQualified, StatusLost,
	},
	StatusEmailSent: {
		StatusEmailFollowup, StatusQualified, StatusBlacklistSoft,
		StatusBlacklistHard, StatusFollowupDone, StatusCalled,
		StatusContacted, StatusFollowUp, StatusContactMissing, StatusJobCreated,
	},
	StatusEmailFollowup: {
		StatusCalled, StatusContacted, StatusFollowUp, StatusContactMissing,
		StatusQualified, StatusFollowupDone, StatusJobCreated, StatusLost,
	},
	StatusFollowUp: {
		StatusCalled, StatusContacted, StatusEmailSent, StatusContactMissing,
		StatusQualified, StatusFollowupDone, StatusJobCreated, StatusLost,
	},
	StatusQualified: {
		StatusJobCreated, StatusLost,
	},
	StatusJobCreated:    {},
	StatusBlacklistHard: {},
	// The only edges back to "new". Reachable exclusively through the
	// re-import path; Validate rejects them for disposition calls.
	StatusBlacklistSoft: {StatusNew},
	StatusFollowupDone:  {StatusNew},
	StatusLost:          {StatusNew},
}

// reimportOnly marks statuses whose outgoing edges may only be taken by the
// import reconciler, never by a disposition call. Kept as an explicit guard
// so a future disposition cannot accidentally create a path back to "new".
var reimportOnly = map[Status]bool{
	StatusBlacklistSoft: true,
	StatusFollowupDone:  true,
	StatusLost:          true,
}

// terminal statuses have no outgoing edges at all.
var terminal = map[Status]bool{
	StatusJobCreated:    true,
	StatusBlacklistHard: true,
}

// ProtectedStatuses may never be overwritten by a re-import of the same ad.
var ProtectedStatuses = map[Status]bool{
	StatusBlacklistSoft: true,
	StatusQualified:     true,
	StatusJobCreated:    true,
}

// ResettableStatuses are reset to "new" when the same ad shows up again in
// an import.
var ResettableStatuses = map[Status]bool{
	StatusLost:         true,
	StatusFollowupDone: true,
}

// IsKnown reports whether s is one of the enumerated lifecycle statuses.
func IsKnown(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether s permits no further transitions.
func IsTerminal(s Status) bool {
	return terminal[s]
}

// Validate checks that a disposition-driven transition from current to
// target is legal. The first assignment (current == StatusUnchanged) is
// always legal, as is keeping the current status. Transitions out of
// re-import-only statuses are rejected here even though the edge exists in
// the table; only ValidateReimport may take those.
func Validate(current, target Status) error {
	if !IsKnown(target) {
		return &IllegalTransitionError{From: current, To: target}
	}
	if current == StatusUnchanged {
		return nil
	}
	if current == target {
		return nil
	}
	if reimportOnly[current] {
		return &IllegalTransitionError{From: current, To: target}
	}
	for _, next := range transitions[current] {
		if next == target {
			return nil
		}
	}
	return &IllegalTransitionError{From: current, To: target}
}

// ValidateReimport checks that the import reconciler may reset a lead from
// current back to "new". This is the only entry point for the
// blacklist_soft/followup_done/lost -> new edges.
func ValidateReimport(current Status) error {
	if !reimportOnly[current] {
		return &IllegalTransitionError{From: current, To: StatusNew}
	}
	return nil
}

// CanForceBlacklist reports whether the blacklist cascade may force a
// sibling lead to blacklist_hard. The cascade is an administrative override
// and bypasses per-disposition preconditions, but it never touches leads
// that were already converted or hard-blacklisted.
func CanForceBlacklist(current Status) bool {
	return current != StatusJobCreated && current != StatusBlacklistHard
}

// AwaitingFollowUp reports whether a lead in this status still belongs on
// the follow-up worklist. Terminal, blacklisted and dead statuses drop off.
func AwaitingFollowUp(s Status) bool {
	switch s {
	case StatusJobCreated, StatusBlacklistHard, StatusBlacklistSoft,
		StatusFollowupDone, StatusLost:
		return false
	}
	return IsKnown(s)
}

// IllegalTransitionError reports a status change that is not in the
// transition table.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return "illegal status transition from " + string(e.From) + " to " + string(e.To)
}
