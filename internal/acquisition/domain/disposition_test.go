package domain

import (
	"testing"
	"time"
)

func TestDispositionTargetsAndFollowUps(t *testing.T) {
	tests := []struct {
		code         DispositionCode
		target       Status
		autoFollowUp time.Duration
		requiresDate bool
	}{
		{DispositionNotReached, StatusCalled, 24 * time.Hour, false},
		{DispositionMailboxDiscussed, StatusCalled, 24 * time.Hour, false},
		{DispositionLineBusy, StatusCalled, 24 * time.Hour, false},
		{DispositionWrongNumber, StatusContactMissing, 0, false},
		{DispositionGatekeeper, StatusCalled, 24 * time.Hour, false},
		{DispositionNoNeed, StatusBlacklistSoft, 180 * 24 * time.Hour, false},
		{DispositionNeverAgain, StatusBlacklistHard, 0, false},
		{DispositionInterestedLater, StatusFollowUp, 0, true},
		{DispositionWantsInfo, StatusContacted, 3 * 24 * time.Hour, false},
		{DispositionQualifiedFirstContact, StatusQualified, 0, true},
		{DispositionFullyQualified, StatusJobCreated, 0, false},
		{DispositionContactGone, StatusUnchanged, 0, false},
		{DispositionNewVacancyOpen, StatusUnchanged, 0, false},
		{DispositionTransferred, StatusContacted, 0, false},
	}

	for _, tc := range tests {
		rule, ok := ResolveDisposition(tc.code)
		if !ok {
			t.Fatalf("missing rule for %s", tc.code)
		}
		if rule.Target != tc.target {
			t.Errorf("%s: target = %s, want %s", tc.code, rule.Target, tc.target)
		}
		if rule.AutoFollowUpIn != tc.autoFollowUp {
			t.Errorf("%s: auto follow-up = %v, want %v", tc.code, rule.AutoFollowUpIn, tc.autoFollowUp)
		}
		if rule.RequiresFollowUpAt != tc.requiresDate {
			t.Errorf("%s: requires follow-up date = %v, want %v", tc.code, rule.RequiresFollowUpAt, tc.requiresDate)
		}
	}
}

func TestBlacklistDispositionsRequireCalledOrContacted(t *testing.T) {
	for _, code := range []DispositionCode{DispositionNoNeed, DispositionNeverAgain} {
		rule, _ := ResolveDisposition(code)
		for _, s := range AllStatuses {
			want := s == StatusCalled || s == StatusContacted
			if got := rule.AllowedFromStatus(s); got != want {
				t.Errorf("%s from %s: allowed = %v, want %v", code, s, got, want)
			}
		}
	}
}

func TestSideEffectFlags(t *testing.T) {
	checks := []struct {
		code DispositionCode
		flag func(DispositionRule) bool
	}{
		{DispositionNeverAgain, func(r DispositionRule) bool { return r.TriggersCascade }},
		{DispositionFullyQualified, func(r DispositionRule) bool { return r.TriggersConversion }},
		{DispositionNewVacancyOpen, func(r DispositionRule) bool { return r.CreatesLead }},
		{DispositionTransferred, func(r DispositionRule) bool { return r.CreatesContact }},
		{DispositionGatekeeper, func(r DispositionRule) bool { return r.PersistsGatekeeper }},
		{DispositionMailboxDiscussed, func(r DispositionRule) bool { return r.AppendsVoicemail }},
		{DispositionContactGone, func(r DispositionRule) bool { return r.AppendsContactGone }},
	}
	for _, tc := range checks {
		rule, _ := ResolveDisposition(tc.code)
		if !tc.flag(rule) {
			t.Errorf("%s: expected side-effect flag to be set", tc.code)
		}
	}
}

func TestIsKnownDisposition(t *testing.T) {
	for _, code := range AllDispositions {
		if !IsKnownDisposition(code) {
			t.Errorf("IsKnownDisposition(%s) = false", code)
		}
	}
	if IsKnownDisposition("hung-up") {
		t.Error("unknown code accepted")
	}
}
