package domain

import "time"

// DispositionCode is the categorized outcome of a single phone call,
// selected by the operator from a fixed set.
type DispositionCode string

const (
	// DispositionNotReached: nobody picked up.
	DispositionNotReached DispositionCode = "not-reached"
	// DispositionMailboxDiscussed: voicemail reached, message left.
	DispositionMailboxDiscussed DispositionCode = "mailbox-discussed"
	// DispositionLineBusy: line busy or dropped.
	DispositionLineBusy DispositionCode = "line-busy"
	// DispositionWrongNumber: number does not belong to the company.
	DispositionWrongNumber DispositionCode = "wrong-number"
	// DispositionGatekeeper: reached reception only, no decision maker.
	DispositionGatekeeper DispositionCode = "gatekeeper"
	// DispositionNoNeed: company has no demand right now.
	DispositionNoNeed DispositionCode = "no-need"
	// DispositionNeverAgain: company asked never to be contacted again.
	DispositionNeverAgain DispositionCode = "never-again"
	// DispositionInterestedLater: interested, call back on an agreed date.
	DispositionInterestedLater DispositionCode = "interested-later"
	// DispositionWantsInfo: wants written information by email first.
	DispositionWantsInfo DispositionCode = "wants-info"
	// DispositionQualifiedFirstContact: qualified on the first conversation,
	// next step agreed.
	DispositionQualifiedFirstContact DispositionCode = "qualified-first-contact"
	// DispositionFullyQualified: fully qualified, hand over to the ATS.
	DispositionFullyQualified DispositionCode = "fully-qualified"
	// DispositionContactGone: the known contact person has left the company.
	DispositionContactGone DispositionCode = "contact-gone"
	// DispositionNewVacancyOpen: the conversation surfaced another open
	// vacancy at the same company.
	DispositionNewVacancyOpen DispositionCode = "new-vacancy-open"
	// DispositionTransferred: transferred to a new contact person.
	DispositionTransferred DispositionCode = "transferred"
)

// AllDispositions lists every known disposition code.
var AllDispositions = []DispositionCode{
	DispositionNotReached,
	DispositionMailboxDiscussed,
	DispositionLineBusy,
	DispositionWrongNumber,
	DispositionGatekeeper,
	DispositionNoNeed,
	DispositionNeverAgain,
	DispositionInterestedLater,
	DispositionWantsInfo,
	DispositionQualifiedFirstContact,
	DispositionFullyQualified,
	DispositionContactGone,
	DispositionNewVacancyOpen,
	DispositionTransferred,
}

// DispositionRule captures the pure per-disposition business rules: the
// target status, preconditions on the current status, and how a follow-up
// date is produced. Side effects (cascade, conversion, spawned rows) are
// flagged here and executed by the disposition processor.
type DispositionRule struct {
	// Target is the status the lead moves to. StatusUnchanged means the
	// disposition records a call without touching the status.
	Target Status
	// AllowedFrom restricts the current status. Empty means any status from
	// which the transition table permits the move.
	AllowedFrom []Status
	// RequiresFollowUpAt marks dispositions that fail validation unless the
	// operator supplied an explicit follow-up date.
	RequiresFollowUpAt bool
	// AutoFollowUpIn schedules an automatic follow-up this long after the
	// call. Zero means none.
	AutoFollowUpIn time.Duration

	// Side-effect flags, executed by the processor inside the same
	// transaction (cascade) or after commit (conversion).
	TriggersCascade     bool
	TriggersConversion  bool
	CreatesLead         bool
	CreatesContact      bool
	PersistsGatekeeper  bool
	AppendsVoicemail    bool
	AppendsContactGone  bool
}

const day = 24 * time.Hour

var dispositionRules = map[DispositionCode]DispositionRule{
	DispositionNotReached: {
		Target:         StatusCalled,
		AutoFollowUpIn: 1 * day,
	},
	DispositionMailboxDiscussed: {
		Target:           StatusCalled,
		AutoFollowUpIn:   1 * day,
		AppendsVoicemail: true,
	},
	DispositionLineBusy: {
		Target:         StatusCalled,
		AutoFollowUpIn: 1 * day,
	},
	DispositionWrongNumber: {
		Target: StatusContactMissing,
	},
	DispositionGatekeeper: {
		Target:             StatusCalled,
		AutoFollowUpIn:     1 * day,
		PersistsGatekeeper: true,
	},
	DispositionNoNeed: {
		Target:         StatusBlacklistSoft,
		AllowedFrom:    []Status{StatusCalled, StatusContacted},
		AutoFollowUpIn: 180 * day,
	},
	DispositionNeverAgain: {
		Target:          StatusBlacklistHard,
		AllowedFrom:     []Status{StatusCalled, StatusContacted},
		TriggersCascade: true,
	},
	DispositionInterestedLater: {
		Target:             StatusFollowUp,
		RequiresFollowUpAt: true,
	},
	DispositionWantsInfo: {
		// The flip to email_sent happens when the email actually goes out,
		// by the mail collaborator. The call itself only records contact.
		Target:         StatusContacted,
		AutoFollowUpIn: 3 * day,
	},
	DispositionQualifiedFirstContact: {
		Target:             StatusQualified,
		RequiresFollowUpAt: true,
	},
	DispositionFullyQualified: {
		Target:             StatusJobCreated,
		TriggersConversion: true,
	},
	DispositionContactGone: {
		Target:             StatusUnchanged,
		AppendsContactGone: true,
	},
	DispositionNewVacancyOpen: {
		Target:      StatusUnchanged,
		CreatesLead: true,
	},
	DispositionTransferred: {
		Target:         StatusContacted,
		CreatesContact: true,
	},
}

// ResolveDisposition returns the rule for a disposition code.
func ResolveDisposition(code DispositionCode) (DispositionRule, bool) {
	rule, ok := dispositionRules[code]
	return rule, ok
}

// IsKnownDisposition reports whether code is one of the enumerated
// disposition codes.
func IsKnownDisposition(code DispositionCode) bool {
	_, ok := dispositionRules[code]
	return ok
}

// AllowedFromStatus checks the rule's precondition against the lead's
// current status. An empty AllowedFrom list defers entirely to the
// transition table.
func (r DispositionRule) AllowedFromStatus(current Status) bool {
	if len(r.AllowedFrom) == 0 {
		return true
	}
	for _, s := range r.AllowedFrom {
		if s == current {
			return true
		}
	}
	return false
}
