package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"akquise_backend/internal/acquisition/domain"
	"akquise_backend/internal/acquisition/ports"
	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/platform/apperr"
	"akquise_backend/platform/logger"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestService(store repository.Store) *Service {
	svc := New(store, logger.New("development"), nil, nil, nil, 0)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedCompany(f *fakeStore, name, city string, blacklisted bool) repository.Company {
	company := repository.Company{
		ID:          uuid.New(),
		Name:        name,
		City:        city,
		Blacklisted: blacklisted,
	}
	f.companies[company.ID] = company
	return company
}

type leadSeed struct {
	companyID       *uuid.UUID
	adID            string
	status          domain.Status
	statusChangedAt time.Time
	lastSeenAt      time.Time
	priority        int
}

func seedLead(f *fakeStore, seed leadSeed) repository.Lead {
	if seed.status == "" {
		seed.status = domain.StatusNew
	}
	if seed.statusChangedAt.IsZero() {
		seed.statusChangedAt = testNow.Add(-24 * time.Hour)
	}
	if seed.lastSeenAt.IsZero() {
		seed.lastSeenAt = testNow.Add(-24 * time.Hour)
	}
	lead := repository.Lead{
		ID:              uuid.New(),
		CompanyID:       seed.companyID,
		Position:        "Elektriker (m/w/d)",
		Status:          seed.status,
		StatusVersion:   1,
		StatusChangedAt: seed.statusChangedAt,
		Priority:        seed.priority,
		FirstSeenAt:     seed.lastSeenAt,
		LastSeenAt:      seed.lastSeenAt,
		ExpiresAt:       seed.lastSeenAt.Add(leadTTL),
	}
	if seed.adID != "" {
		adID := seed.adID
		lead.AdID = &adID
	}
	f.leads[lead.ID] = lead
	return lead
}

func seedContact(f *fakeStore, companyID uuid.UUID, first, last string) repository.Contact {
	contact := repository.Contact{
		ID:        uuid.New(),
		CompanyID: companyID,
		FirstName: first,
		LastName:  last,
	}
	f.contacts[contact.ID] = contact
	return contact
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if got := apperr.GetKind(err); got != kind {
		t.Fatalf("error kind = %v, want %v (err: %v)", got, kind, err)
	}
}

func hasLogEntry(log []string, substr string) bool {
	for _, entry := range log {
		if strings.Contains(entry, substr) {
			return true
		}
	}
	return false
}

type fakeConverter struct {
	result *ports.ConversionResult
	err    error
	calls  []ports.ConversionParams
}

func (f *fakeConverter) ConvertLead(ctx context.Context, params ports.ConversionParams) (*ports.ConversionResult, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeReminder struct {
	err   error
	calls []ports.ReminderParams
}

func (f *fakeReminder) ScheduleReminder(ctx context.Context, params ports.ReminderParams) error {
	f.calls = append(f.calls, params)
	return f.err
}

var errFake = errors.New("collaborator down")
