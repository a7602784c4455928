package service

import (
	"context"
	"errors"
	"time"

	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/acquisition/transport"
	"akquise_backend/platform/apperr"
	"akquise_backend/platform/phone"

	"github.com/google/uuid"
)

// GetDueFollowUps returns the follow-up worklist for the given day. Only
// leads still awaiting a follow-up are included; converted, blacklisted and
// dead leads have already dropped off at query level.
func (s *Service) GetDueFollowUps(ctx context.Context, asOf time.Time) ([]transport.DueFollowUpResponse, error) {
	due, err := s.store.DueFollowUps(ctx, asOf)
	if err != nil {
		return nil, err
	}
	out := make([]transport.DueFollowUpResponse, 0, len(due))
	for _, d := range due {
		out = append(out, transport.DueFollowUpResponse{
			LeadID:       d.LeadID,
			CallID:       d.CallID,
			Company:      d.Company,
			Position:     d.Position,
			Contact:      d.ContactName,
			ContactPhone: d.ContactPhone,
			FollowUpAt:   d.FollowUpAt,
			Note:         d.Note,
		})
	}
	return out, nil
}

// LookupByPhone matches an inbound caller to a contact, their company and
// the company's open leads. The raw number goes through the same
// normalization as contact writes, so formatting differences cannot break
// the match.
func (s *Service) LookupByPhone(ctx context.Context, rawPhone string) (transport.PhoneLookupResponse, error) {
	normalized := phone.NormalizeE164(rawPhone)
	if normalized == "" {
		return transport.PhoneLookupResponse{}, apperr.Validation("phone number is required")
	}

	contact, err := s.store.FindContactByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return transport.PhoneLookupResponse{}, apperr.NotFound("no contact matches this number")
		}
		return transport.PhoneLookupResponse{}, err
	}

	resp := transport.PhoneLookupResponse{
		Contact:   toContactResponse(contact),
		OpenLeads: make([]transport.LeadResponse, 0),
	}

	company, err := s.store.GetCompany(ctx, contact.CompanyID)
	if err != nil {
		if !errors.Is(err, repository.ErrCompanyNotFound) {
			return transport.PhoneLookupResponse{}, err
		}
	} else {
		c := toCompanyResponse(company)
		resp.Company = &c

		open, err := s.store.OpenLeadsByCompany(ctx, company.ID)
		if err != nil {
			return transport.PhoneLookupResponse{}, err
		}
		resp.OpenLeads = toLeadResponses(open)
	}
	return resp, nil
}

// ListLeads returns a page of the worklist ordered by priority.
func (s *Service) ListLeads(ctx context.Context, params repository.ListLeadsParams) (transport.LeadListResponse, error) {
	leads, total, err := s.store.ListLeads(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	return transport.LeadListResponse{
		Items:    toLeadResponses(leads),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetLead returns one lead with its full call timeline, newest first.
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.store.GetLead(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadDetailResponse{}, err
	}
	calls, err := s.store.ListCallsForLead(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	detail := transport.LeadDetailResponse{
		LeadResponse: toLeadResponse(lead),
		Calls:        make([]transport.CallResponse, 0, len(calls)),
	}
	for _, call := range calls {
		detail.Calls = append(detail.Calls, toCallResponse(call))
	}
	return detail, nil
}

// AttachTranscript adds a post-hoc transcript to a call record, the only
// mutation a call record permits.
func (s *Service) AttachTranscript(ctx context.Context, callID uuid.UUID, transcript string) error {
	if err := s.store.AttachTranscript(ctx, callID, transcript); err != nil {
		if errors.Is(err, repository.ErrCallNotFound) {
			return apperr.NotFound("call record not found")
		}
		return err
	}
	return nil
}
