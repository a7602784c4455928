package domain

import "testing"

func TestValidateRejectsEveryPairNotInTable(t *testing.T) {
	for _, from := range AllStatuses {
		allowed := map[Status]bool{from: true}
		for _, next := range transitions[from] {
			allowed[next] = true
		}
		for _, to := range AllStatuses {
			err := Validate(from, to)
			switch {
			case reimportOnly[from] && from != to:
				if err == nil {
					t.Errorf("Validate(%s, %s) should fail: re-import-only source", from, to)
				}
			case allowed[to]:
				if err != nil {
					t.Errorf("Validate(%s, %s) unexpected error: %v", from, to, err)
				}
			default:
				if err == nil {
					t.Errorf("Validate(%s, %s) should fail", from, to)
				}
			}
		}
	}
}

func TestValidateFirstAssignmentIsAlwaysLegal(t *testing.T) {
	for _, to := range AllStatuses {
		if err := Validate(StatusUnchanged, to); err != nil {
			t.Errorf("first assignment to %s rejected: %v", to, err)
		}
	}
}

func TestValidateRejectsUnknownTarget(t *testing.T) {
	if err := Validate(StatusNew, Status("converted")); err == nil {
		t.Fatal("unknown target status accepted")
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for _, s := range []Status{StatusJobCreated, StatusBlacklistHard} {
		if len(transitions[s]) != 0 {
			t.Errorf("terminal status %s has outgoing edges %v", s, transitions[s])
		}
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false", s)
		}
	}
}

func TestEdgesBackToNewAreReimportOnly(t *testing.T) {
	for _, s := range []Status{StatusBlacklistSoft, StatusFollowupDone, StatusLost} {
		if err := Validate(s, StatusNew); err == nil {
			t.Errorf("Validate(%s, new) should fail for disposition calls", s)
		}
		if err := ValidateReimport(s); err != nil {
			t.Errorf("ValidateReimport(%s) unexpected error: %v", s, err)
		}
	}

	if err := ValidateReimport(StatusCalled); err == nil {
		t.Error("ValidateReimport(called) should fail")
	}
}

// Guard: no disposition rule may produce a path out of a re-import-only
// status, so a future disposition cannot accidentally resurrect a soft
// blacklisted, worked-off or lost lead.
func TestNoDispositionLeadsOutOfReimportOnlyStatuses(t *testing.T) {
	for _, code := range AllDispositions {
		rule, ok := ResolveDisposition(code)
		if !ok {
			t.Fatalf("missing rule for %s", code)
		}
		if rule.Target == StatusUnchanged {
			continue
		}
		for from := range reimportOnly {
			if rule.AllowedFromStatus(from) && Validate(from, rule.Target) == nil && from != rule.Target {
				t.Errorf("disposition %s creates edge %s -> %s", code, from, rule.Target)
			}
		}
	}
}

func TestCanForceBlacklist(t *testing.T) {
	for _, s := range AllStatuses {
		want := s != StatusJobCreated && s != StatusBlacklistHard
		if got := CanForceBlacklist(s); got != want {
			t.Errorf("CanForceBlacklist(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestAwaitingFollowUp(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusNew, true},
		{StatusCalled, true},
		{StatusContacted, true},
		{StatusFollowUp, true},
		{StatusEmailSent, true},
		{StatusQualified, true},
		{StatusJobCreated, false},
		{StatusBlacklistHard, false},
		{StatusBlacklistSoft, false},
		{StatusFollowupDone, false},
		{StatusLost, false},
		{Status("bogus"), false},
	}
	for _, tc := range tests {
		if got := AwaitingFollowUp(tc.status); got != tc.want {
			t.Errorf("AwaitingFollowUp(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
