package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"akquise_backend/internal/acquisition/domain"
	"akquise_backend/internal/acquisition/repository"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store for service tests. WithTx snapshots the
// maps and restores them when fn fails, which makes rollback observable in
// atomicity tests.
type fakeStore struct {
	mu        sync.Mutex
	leads     map[uuid.UUID]repository.Lead
	companies map[uuid.UUID]repository.Company
	contacts  map[uuid.UUID]repository.Contact
	calls     map[uuid.UUID]repository.CallRecord
	callOrder []uuid.UUID

	failCreateCall bool
	staleOnUpdate  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads:     make(map[uuid.UUID]repository.Lead),
		companies: make(map[uuid.UUID]repository.Company),
		contacts:  make(map[uuid.UUID]repository.Contact),
		calls:     make(map[uuid.UUID]repository.CallRecord),
	}
}

type fakeSnapshot struct {
	leads     map[uuid.UUID]repository.Lead
	companies map[uuid.UUID]repository.Company
	contacts  map[uuid.UUID]repository.Contact
	calls     map[uuid.UUID]repository.CallRecord
	callOrder []uuid.UUID
}

func (f *fakeStore) snapshot() fakeSnapshot {
	snap := fakeSnapshot{
		leads:     make(map[uuid.UUID]repository.Lead, len(f.leads)),
		companies: make(map[uuid.UUID]repository.Company, len(f.companies)),
		contacts:  make(map[uuid.UUID]repository.Contact, len(f.contacts)),
		calls:     make(map[uuid.UUID]repository.CallRecord, len(f.calls)),
		callOrder: append([]uuid.UUID(nil), f.callOrder...),
	}
	for k, v := range f.leads {
		snap.leads[k] = v
	}
	for k, v := range f.companies {
		snap.companies[k] = v
	}
	for k, v := range f.contacts {
		snap.contacts[k] = v
	}
	for k, v := range f.calls {
		snap.calls[k] = v
	}
	return snap
}

func (f *fakeStore) restore(snap fakeSnapshot) {
	f.leads = snap.leads
	f.companies = snap.companies
	f.contacts = snap.contacts
	f.calls = snap.calls
	f.callOrder = snap.callOrder
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	f.mu.Lock()
	snap := f.snapshot()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.restore(snap)
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) GetLead(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrLeadNotFound
	}
	return lead, nil
}

func (f *fakeStore) GetLeadForUpdate(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	return f.GetLead(ctx, id)
}

func (f *fakeStore) GetLeadByAdID(ctx context.Context, adID string) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, lead := range f.leads {
		if lead.AdID != nil && *lead.AdID == adID {
			return lead, nil
		}
	}
	return repository.Lead{}, repository.ErrLeadNotFound
}

func (f *fakeStore) CreateLead(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	lead := repository.Lead{
		ID:              uuid.New(),
		CompanyID:       params.CompanyID,
		AdID:            params.AdID,
		PositionID:      params.PositionID,
		Position:        params.Position,
		Status:          params.Status,
		StatusVersion:   1,
		StatusChangedAt: now,
		Priority:        params.Priority,
		FirstSeenAt:     params.FirstSeenAt,
		LastSeenAt:      params.LastSeenAt,
		ExpiresAt:       params.ExpiresAt,
		ImportBatchID:   params.ImportBatchID,
		Source:          params.Source,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) UpdateLeadStatus(ctx context.Context, params repository.UpdateLeadStatusParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staleOnUpdate {
		return repository.Lead{}, repository.ErrStaleLead
	}
	lead, ok := f.leads[params.ID]
	if !ok || lead.StatusVersion != params.ExpectedVersion {
		return repository.Lead{}, repository.ErrStaleLead
	}
	lead.Status = params.NewStatus
	lead.StatusVersion++
	lead.StatusChangedAt = time.Now()
	lead.UpdatedAt = time.Now()
	f.leads[params.ID] = lead
	return lead, nil
}

func (f *fakeStore) UpdateLeadAdID(ctx context.Context, id uuid.UUID, adID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return repository.ErrLeadNotFound
	}
	lead.AdID = &adID
	lead.UpdatedAt = time.Now()
	f.leads[id] = lead
	return nil
}

func (f *fakeStore) RefreshLeadSeen(ctx context.Context, params repository.RefreshLeadSeenParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[params.ID]
	if !ok {
		return repository.Lead{}, repository.ErrLeadNotFound
	}
	if params.ResetStatus != nil {
		if lead.StatusVersion != params.ExpectedVersion {
			return repository.Lead{}, repository.ErrStaleLead
		}
		lead.Status = *params.ResetStatus
		lead.StatusVersion++
		lead.StatusChangedAt = time.Now()
	}
	lead.LastSeenAt = params.LastSeenAt
	lead.ExpiresAt = params.ExpiresAt
	if params.ImportBatchID != nil {
		lead.ImportBatchID = params.ImportBatchID
	}
	lead.UpdatedAt = time.Now()
	f.leads[params.ID] = lead
	return lead, nil
}

func (f *fakeStore) ListLeads(ctx context.Context, params repository.ListLeadsParams) ([]repository.Lead, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Lead
	for _, lead := range f.leads {
		if params.Status != nil && lead.Status != *params.Status {
			continue
		}
		if params.CompanyID != nil && (lead.CompanyID == nil || *lead.CompanyID != *params.CompanyID) {
			continue
		}
		out = append(out, lead)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, len(out), nil
}

func (f *fakeStore) OpenLeadsByCompany(ctx context.Context, companyID uuid.UUID) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	closed := map[domain.Status]bool{
		domain.StatusJobCreated:    true,
		domain.StatusBlacklistHard: true,
		domain.StatusBlacklistSoft: true,
		domain.StatusFollowupDone:  true,
		domain.StatusLost:          true,
	}
	var out []repository.Lead
	for _, lead := range f.leads {
		if lead.CompanyID == nil || *lead.CompanyID != companyID || closed[lead.Status] {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeStore) BlacklistCompanyLeads(ctx context.Context, companyID, excludeLeadID uuid.UUID) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected []repository.Lead
	for id, lead := range f.leads {
		if lead.CompanyID == nil || *lead.CompanyID != companyID || id == excludeLeadID {
			continue
		}
		if !domain.CanForceBlacklist(lead.Status) {
			continue
		}
		lead.Status = domain.StatusBlacklistHard
		lead.StatusVersion++
		lead.StatusChangedAt = time.Now()
		f.leads[id] = lead
		affected = append(affected, lead)
	}
	return affected, nil
}

func (f *fakeStore) GetCompany(ctx context.Context, id uuid.UUID) (repository.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	company, ok := f.companies[id]
	if !ok {
		return repository.Company{}, repository.ErrCompanyNotFound
	}
	return company, nil
}

func (f *fakeStore) FindCompanyByNameCity(ctx context.Context, name, city string) (repository.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, company := range f.companies {
		if strings.EqualFold(company.Name, name) && strings.EqualFold(company.City, city) {
			return company, nil
		}
	}
	return repository.Company{}, repository.ErrCompanyNotFound
}

// CreateCompany mirrors the repository's name+city upsert: an insert that
// collides with an existing company returns the existing row.
func (f *fakeStore) CreateCompany(ctx context.Context, params repository.CreateCompanyParams) (repository.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.companies {
		if strings.EqualFold(existing.Name, params.Name) && strings.EqualFold(existing.City, params.City) {
			existing.UpdatedAt = time.Now()
			f.companies[existing.ID] = existing
			return existing, nil
		}
	}
	now := time.Now()
	company := repository.Company{
		ID:            uuid.New(),
		Name:          params.Name,
		Street:        params.Street,
		ZipCode:       params.ZipCode,
		City:          params.City,
		Phone:         params.Phone,
		Email:         params.Email,
		Industry:      params.Industry,
		EmployeeCount: params.EmployeeCount,
		Blacklisted:   params.Blacklisted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.companies[company.ID] = company
	return company, nil
}

func (f *fakeStore) SetCompanyBlacklisted(ctx context.Context, id uuid.UUID, blacklisted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	company, ok := f.companies[id]
	if !ok {
		return repository.ErrCompanyNotFound
	}
	company.Blacklisted = blacklisted
	f.companies[id] = company
	return nil
}

func (f *fakeStore) GetContact(ctx context.Context, id uuid.UUID) (repository.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contact, ok := f.contacts[id]
	if !ok {
		return repository.Contact{}, repository.ErrContactNotFound
	}
	return contact, nil
}

func (f *fakeStore) FindContactByPhone(ctx context.Context, phoneNormalized string) (repository.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, contact := range f.contacts {
		if contact.PhoneNormalized == phoneNormalized {
			return contact, nil
		}
	}
	return repository.Contact{}, repository.ErrContactNotFound
}

func (f *fakeStore) FindContactByName(ctx context.Context, companyID uuid.UUID, firstName, lastName string) (repository.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, contact := range f.contacts {
		if contact.CompanyID == companyID &&
			strings.EqualFold(contact.FirstName, firstName) &&
			strings.EqualFold(contact.LastName, lastName) {
			return contact, nil
		}
	}
	return repository.Contact{}, repository.ErrContactNotFound
}

func (f *fakeStore) CreateContact(ctx context.Context, params repository.CreateContactParams) (repository.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	contact := repository.Contact{
		ID:              uuid.New(),
		CompanyID:       params.CompanyID,
		FirstName:       params.FirstName,
		LastName:        params.LastName,
		Role:            params.Role,
		Phone:           params.Phone,
		PhoneNormalized: params.PhoneNormalized,
		Email:           params.Email,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.contacts[contact.ID] = contact
	return contact, nil
}

func (f *fakeStore) SetContactGatekeeper(ctx context.Context, id uuid.UUID, gatekeeperName, extension string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	contact, ok := f.contacts[id]
	if !ok {
		return repository.ErrContactNotFound
	}
	if contact.GatekeeperName == nil && gatekeeperName != "" {
		contact.GatekeeperName = &gatekeeperName
	}
	if contact.Extension == nil && extension != "" {
		contact.Extension = &extension
	}
	f.contacts[id] = contact
	return nil
}

func (f *fakeStore) AppendContactNote(ctx context.Context, id uuid.UUID, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	contact, ok := f.contacts[id]
	if !ok {
		return repository.ErrContactNotFound
	}
	if contact.Notes == "" {
		contact.Notes = note
	} else {
		contact.Notes += "\n" + note
	}
	f.contacts[id] = contact
	return nil
}

func (f *fakeStore) CreateCallRecord(ctx context.Context, params repository.CreateCallRecordParams) (repository.CallRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateCall {
		return repository.CallRecord{}, errors.New("forced call record failure")
	}
	call := repository.CallRecord{
		ID:              uuid.New(),
		LeadID:          params.LeadID,
		ContactID:       params.ContactID,
		Disposition:     params.Disposition,
		Notes:           params.Notes,
		DurationSeconds: params.DurationSeconds,
		FollowUpAt:      params.FollowUpAt,
		FollowUpNote:    params.FollowUpNote,
		Synthetic:       params.Synthetic,
		CreatedAt:       time.Now(),
	}
	f.calls[call.ID] = call
	f.callOrder = append(f.callOrder, call.ID)
	return call, nil
}

func (f *fakeStore) CreateCallRecords(ctx context.Context, params []repository.CreateCallRecordParams) error {
	for _, p := range params {
		if _, err := f.CreateCallRecord(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) GetCallRecord(ctx context.Context, id uuid.UUID) (repository.CallRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call, ok := f.calls[id]
	if !ok {
		return repository.CallRecord{}, repository.ErrCallNotFound
	}
	return call, nil
}

func (f *fakeStore) AttachTranscript(ctx context.Context, id uuid.UUID, transcript string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call, ok := f.calls[id]
	if !ok {
		return repository.ErrCallNotFound
	}
	call.Transcript = &transcript
	f.calls[id] = call
	return nil
}

func (f *fakeStore) ListCallsForLead(ctx context.Context, leadID uuid.UUID) ([]repository.CallRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.CallRecord
	for i := len(f.callOrder) - 1; i >= 0; i-- {
		call := f.calls[f.callOrder[i]]
		if call.LeadID == leadID {
			out = append(out, call)
		}
	}
	return out, nil
}

func (f *fakeStore) DueFollowUps(ctx context.Context, asOf time.Time) ([]repository.DueFollowUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := make(map[uuid.UUID]repository.CallRecord)
	for _, id := range f.callOrder {
		call := f.calls[id]
		if call.FollowUpAt != nil {
			latest[call.LeadID] = call
		}
	}

	var out []repository.DueFollowUp
	for leadID, call := range latest {
		lead, ok := f.leads[leadID]
		if !ok || !domain.AwaitingFollowUp(lead.Status) {
			continue
		}
		y1, m1, d1 := call.FollowUpAt.Date()
		y2, m2, d2 := asOf.Date()
		due := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
		cutoff := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
		if due.After(cutoff) {
			continue
		}
		d := repository.DueFollowUp{
			LeadID:     leadID,
			CallID:     call.ID,
			Position:   lead.Position,
			FollowUpAt: *call.FollowUpAt,
		}
		if call.FollowUpNote != nil {
			d.Note = *call.FollowUpNote
		}
		if lead.CompanyID != nil {
			if company, ok := f.companies[*lead.CompanyID]; ok {
				d.Company = company.Name
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// Compile-time check that fakeStore implements Store.
var _ repository.Store = (*fakeStore)(nil)
