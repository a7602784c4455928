package service

import (
	"context"
	"testing"
	"time"

	"akquise_backend/internal/acquisition/domain"
	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/acquisition/transport"
	"akquise_backend/platform/apperr"

	"github.com/google/uuid"
)

func seedCall(f *fakeStore, leadID uuid.UUID, followUpAt *time.Time, note string) repository.CallRecord {
	call := repository.CallRecord{
		ID:          uuid.New(),
		LeadID:      leadID,
		Disposition: domain.DispositionNotReached,
		FollowUpAt:  followUpAt,
		CreatedAt:   testNow,
	}
	if note != "" {
		call.FollowUpNote = &note
	}
	f.calls[call.ID] = call
	f.callOrder = append(f.callOrder, call.ID)
	return call
}

func TestGetDueFollowUps(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	company := seedCompany(store, "Muster GmbH", "Berlin", false)
	yesterday := testNow.Add(-24 * time.Hour)
	nextWeek := testNow.Add(7 * 24 * time.Hour)

	due := seedLead(store, leadSeed{companyID: &company.ID, status: domain.StatusFollowUp})
	seedCall(store, due.ID, &yesterday, "check back")

	// Already converted: must not show up even though a follow-up exists.
	converted := seedLead(store, leadSeed{companyID: &company.ID, status: domain.StatusJobCreated})
	seedCall(store, converted.ID, &yesterday, "")

	// Follow-up lies in the future.
	later := seedLead(store, leadSeed{companyID: &company.ID, status: domain.StatusFollowUp})
	seedCall(store, later.ID, &nextWeek, "")

	out, err := svc.GetDueFollowUps(context.Background(), testNow)
	if err != nil {
		t.Fatalf("GetDueFollowUps: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("due follow-ups = %d, want 1", len(out))
	}
	if out[0].LeadID != due.ID {
		t.Errorf("lead id = %s, want %s", out[0].LeadID, due.ID)
	}
	if out[0].Note != "check back" {
		t.Errorf("note = %q, want %q", out[0].Note, "check back")
	}
	if out[0].Company != "Muster GmbH" {
		t.Errorf("company = %q, want Muster GmbH", out[0].Company)
	}
}

// A fresh lead called once without an answer gets an automatic next-day
// follow-up and must surface on tomorrow's worklist even though its status
// is only "called", not "follow_up".
func TestGetDueFollowUpsIncludesNotReachedLead(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	lead := seedLead(store, leadSeed{status: domain.StatusNew})

	resp, err := svc.RecordCall(context.Background(), lead.ID, transport.RecordCallRequest{
		Disposition: "not-reached",
	})
	if err != nil {
		t.Fatalf("RecordCall: %v", err)
	}
	if resp.NewStatus != "called" {
		t.Fatalf("new status = %q, want called", resp.NewStatus)
	}

	tomorrow := testNow.Add(24 * time.Hour)
	out, err := svc.GetDueFollowUps(context.Background(), tomorrow)
	if err != nil {
		t.Fatalf("GetDueFollowUps: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("due follow-ups = %d, want 1", len(out))
	}
	if out[0].LeadID != lead.ID {
		t.Errorf("lead id = %s, want %s", out[0].LeadID, lead.ID)
	}
	if !out[0].FollowUpAt.Equal(tomorrow) {
		t.Errorf("follow-up at = %v, want %v", out[0].FollowUpAt, tomorrow)
	}

	// Still not due today.
	today, err := svc.GetDueFollowUps(context.Background(), testNow)
	if err != nil {
		t.Fatalf("GetDueFollowUps: %v", err)
	}
	if len(today) != 0 {
		t.Errorf("due follow-ups today = %d, want 0", len(today))
	}
}

func TestLookupByPhone(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	company := seedCompany(store, "Muster GmbH", "Berlin", false)
	contact := seedContact(store, company.ID, "Erika", "Mustermann")
	contact.PhoneNormalized = "+49301234567"
	store.contacts[contact.ID] = contact

	open := seedLead(store, leadSeed{companyID: &company.ID, status: domain.StatusCalled})
	seedLead(store, leadSeed{companyID: &company.ID, status: domain.StatusJobCreated})

	// Differently formatted input must still match the normalized number.
	resp, err := svc.LookupByPhone(context.Background(), "030 123 45 67")
	if err != nil {
		t.Fatalf("LookupByPhone: %v", err)
	}
	if resp.Contact.ID != contact.ID {
		t.Errorf("contact = %s, want %s", resp.Contact.ID, contact.ID)
	}
	if resp.Company == nil || resp.Company.ID != company.ID {
		t.Error("company must be resolved")
	}
	if len(resp.OpenLeads) != 1 || resp.OpenLeads[0].ID != open.ID {
		t.Errorf("open leads = %+v, want exactly the called lead", resp.OpenLeads)
	}
}

func TestLookupByPhoneNoMatch(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.LookupByPhone(context.Background(), "+49 89 9999999")
	wantKind(t, err, apperr.KindNotFound)
}

func TestLookupByPhoneEmptyNumber(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.LookupByPhone(context.Background(), "   ")
	wantKind(t, err, apperr.KindValidation)
}

func TestGetLeadWithTimeline(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	lead := seedLead(store, leadSeed{status: domain.StatusCalled})
	first := seedCall(store, lead.ID, nil, "")
	second := seedCall(store, lead.ID, nil, "")

	detail, err := svc.GetLead(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("GetLead: %v", err)
	}
	if detail.ID != lead.ID {
		t.Errorf("lead id = %s, want %s", detail.ID, lead.ID)
	}
	if len(detail.Calls) != 2 {
		t.Fatalf("timeline = %d calls, want 2", len(detail.Calls))
	}
	// Newest first.
	if detail.Calls[0].ID != second.ID || detail.Calls[1].ID != first.ID {
		t.Error("timeline must be ordered newest first")
	}
}

func TestGetLeadNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.GetLead(context.Background(), uuid.New())
	wantKind(t, err, apperr.KindNotFound)
}

func TestAttachTranscript(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	lead := seedLead(store, leadSeed{status: domain.StatusCalled})
	call := seedCall(store, lead.ID, nil, "")

	if err := svc.AttachTranscript(context.Background(), call.ID, "Guten Tag ..."); err != nil {
		t.Fatalf("AttachTranscript: %v", err)
	}
	got := store.calls[call.ID]
	if got.Transcript == nil || *got.Transcript != "Guten Tag ..." {
		t.Errorf("transcript = %v", got.Transcript)
	}

	err := svc.AttachTranscript(context.Background(), uuid.New(), "x")
	wantKind(t, err, apperr.KindNotFound)
}

func TestListLeadsDefaultsPaging(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedLead(store, leadSeed{status: domain.StatusNew, priority: 3})
	seedLead(store, leadSeed{status: domain.StatusNew, priority: 9})

	resp, err := svc.ListLeads(context.Background(), repository.ListLeadsParams{})
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if resp.Page != 1 || resp.PageSize != 25 {
		t.Errorf("paging defaults = %d/%d, want 1/25", resp.Page, resp.PageSize)
	}
	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Fatalf("total = %d items = %d, want 2/2", resp.Total, len(resp.Items))
	}
	if resp.Items[0].Priority < resp.Items[1].Priority {
		t.Error("worklist must be ordered by priority descending")
	}
}
