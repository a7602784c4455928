package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"akquise_backend/internal/acquisition/domain"
	"akquise_backend/internal/acquisition/ports"
	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/acquisition/transport"
	"akquise_backend/internal/events"
	"akquise_backend/platform/apperr"
	"akquise_backend/platform/phone"

	"github.com/google/uuid"
)

// recordCallResult collects everything the transaction produced so the
// post-commit side effects and the response can be built from it.
type recordCallResult struct {
	call       repository.CallRecord
	lead       repository.Lead
	prevStatus domain.Status
	contact    *repository.Contact
	company    *repository.Company
	cascaded   int
	actionLog  []string
	followUpAt *time.Time
}

// RecordCall processes one phone call against a lead: it validates the
// disposition against the lead's current status, applies the per-code side
// effects, writes the call record and the status change atomically, and
// then runs the best-effort post-commit steps (reminder enqueue, ATS
// conversion, event publishing).
func (s *Service) RecordCall(ctx context.Context, leadID uuid.UUID, req transport.RecordCallRequest) (transport.RecordCallResponse, error) {
	code := domain.DispositionCode(req.Disposition)
	rule, ok := domain.ResolveDisposition(code)
	if !ok {
		return transport.RecordCallResponse{}, apperr.Validation(
			fmt.Sprintf("unknown disposition code %q", req.Disposition))
	}
	if err := s.checkRequiredFields(rule, code, req); err != nil {
		return transport.RecordCallResponse{}, err
	}

	var res recordCallResult
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		return s.processDisposition(ctx, tx, leadID, code, rule, req, &res)
	})
	if err != nil {
		return transport.RecordCallResponse{}, err
	}

	// Committed. Everything below is best-effort and must not undo the
	// recorded call.
	s.log.WithContext(ctx).LeadTransition(
		res.lead.ID.String(), string(res.prevStatus), string(res.lead.Status), string(code))
	s.publishCallEvents(ctx, code, &res)

	if res.followUpAt != nil {
		s.scheduleReminder(ctx, &res)
	}
	if rule.TriggersConversion {
		s.convertLead(ctx, req.Qualification, &res)
	}

	return transport.RecordCallResponse{
		CallID:       res.call.ID,
		NewStatus:    string(res.lead.Status),
		ActionLog:    res.actionLog,
		AutoFollowUp: res.followUpAt,
	}, nil
}

// checkRequiredFields rejects a disposition before any write when the
// payload it needs is absent.
func (s *Service) checkRequiredFields(rule domain.DispositionRule, code domain.DispositionCode, req transport.RecordCallRequest) error {
	if rule.RequiresFollowUpAt && req.FollowUpAt == nil {
		return apperr.Validation(
			fmt.Sprintf("disposition %q requires a follow-up date", code)).
			WithDetails(map[string]string{"field": "followUpAt"})
	}
	if rule.CreatesContact && req.Transfer == nil {
		return apperr.Validation(
			fmt.Sprintf("disposition %q requires transfer contact details", code)).
			WithDetails(map[string]string{"field": "transfer"})
	}
	if rule.CreatesLead && req.NewVacancy == nil {
		return apperr.Validation(
			fmt.Sprintf("disposition %q requires the new vacancy details", code)).
			WithDetails(map[string]string{"field": "newVacancy"})
	}
	return nil
}

func (s *Service) processDisposition(ctx context.Context, tx repository.Store, leadID uuid.UUID, code domain.DispositionCode, rule domain.DispositionRule, req transport.RecordCallRequest, res *recordCallResult) error {
	lead, err := tx.GetLeadForUpdate(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}
	res.prevStatus = lead.Status

	if !rule.AllowedFromStatus(lead.Status) {
		return apperr.Validation(fmt.Sprintf(
			"disposition %q is not allowed while the lead is %q", code, lead.Status))
	}

	target := rule.Target
	if target == domain.StatusUnchanged {
		target = lead.Status
	}
	if err := domain.Validate(lead.Status, target); err != nil {
		var illegal *domain.IllegalTransitionError
		if errors.As(err, &illegal) {
			return apperr.Validation(illegal.Error())
		}
		return err
	}

	contact, err := s.resolveContact(ctx, tx, lead, req.ContactID)
	if err != nil {
		return err
	}
	res.contact = contact

	if rule.TriggersConversion && lead.CompanyID != nil {
		company, err := tx.GetCompany(ctx, *lead.CompanyID)
		if err != nil {
			return err
		}
		res.company = &company
	}

	followUpAt, followUpNote := s.resolveFollowUp(rule, req)
	res.followUpAt = followUpAt

	notes := req.Notes
	if rule.AppendsVoicemail {
		notes = appendNote(notes, "voicemail left")
		res.actionLog = append(res.actionLog, "voicemail note recorded")
	}

	if rule.PersistsGatekeeper && req.Gatekeeper != nil && contact != nil {
		if err := tx.SetContactGatekeeper(ctx, contact.ID, req.Gatekeeper.Name, req.Gatekeeper.Extension); err != nil {
			return err
		}
		res.actionLog = append(res.actionLog, "gatekeeper details saved on contact")
	}

	if rule.AppendsContactGone && contact != nil {
		note := fmt.Sprintf("reported gone on %s", s.now().Format("2006-01-02"))
		if err := tx.AppendContactNote(ctx, contact.ID, note); err != nil {
			return err
		}
		res.actionLog = append(res.actionLog, "contact marked as gone")
	}

	if rule.CreatesContact {
		created, err := s.createTransferContact(ctx, tx, lead, req.Transfer)
		if err != nil {
			return err
		}
		res.contact = created
		contact = created
		res.actionLog = append(res.actionLog,
			fmt.Sprintf("new contact %s %s created", created.FirstName, created.LastName))
	}

	if rule.CreatesLead {
		spawned, err := s.createVacancyLead(ctx, tx, lead, req.NewVacancy)
		if err != nil {
			return err
		}
		res.actionLog = append(res.actionLog,
			fmt.Sprintf("new lead created for vacancy %q", spawned.Position))
	}

	if rule.TriggersCascade {
		affected, err := s.applyBlacklistCascade(ctx, tx, lead)
		if err != nil {
			return err
		}
		res.cascaded = affected
		res.actionLog = append(res.actionLog,
			fmt.Sprintf("company blacklisted, %d sibling leads cascaded", affected))
	}

	var contactID *uuid.UUID
	if contact != nil {
		contactID = &contact.ID
	}
	call, err := tx.CreateCallRecord(ctx, repository.CreateCallRecordParams{
		LeadID:          lead.ID,
		ContactID:       contactID,
		Disposition:     code,
		Notes:           notes,
		DurationSeconds: req.DurationSeconds,
		FollowUpAt:      followUpAt,
		FollowUpNote:    followUpNote,
	})
	if err != nil {
		return err
	}
	res.call = call

	if target != lead.Status {
		updated, err := tx.UpdateLeadStatus(ctx, repository.UpdateLeadStatusParams{
			ID:              lead.ID,
			ExpectedVersion: lead.StatusVersion,
			NewStatus:       target,
		})
		if err != nil {
			if errors.Is(err, repository.ErrStaleLead) {
				return apperr.Conflict("lead was modified by a concurrent call, retry")
			}
			return err
		}
		lead = updated
		res.actionLog = append(res.actionLog,
			fmt.Sprintf("status changed from %s to %s", res.prevStatus, target))
	} else {
		res.actionLog = append(res.actionLog, "status unchanged")
	}
	res.lead = lead

	if followUpAt != nil {
		res.actionLog = append(res.actionLog,
			fmt.Sprintf("follow-up scheduled for %s", followUpAt.Format("2006-01-02")))
	}
	return nil
}

// resolveContact loads and sanity-checks the contact the operator spoke to.
func (s *Service) resolveContact(ctx context.Context, tx repository.Store, lead repository.Lead, contactID *uuid.UUID) (*repository.Contact, error) {
	if contactID == nil {
		return nil, nil
	}
	contact, err := tx.GetContact(ctx, *contactID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, apperr.NotFound("contact not found")
		}
		return nil, err
	}
	if lead.CompanyID != nil && contact.CompanyID != *lead.CompanyID {
		return nil, apperr.Validation("contact belongs to a different company")
	}
	return &contact, nil
}

func (s *Service) resolveFollowUp(rule domain.DispositionRule, req transport.RecordCallRequest) (*time.Time, *string) {
	var note *string
	if req.FollowUpNote != "" {
		n := req.FollowUpNote
		note = &n
	}
	if req.FollowUpAt != nil {
		return req.FollowUpAt, note
	}
	if rule.AutoFollowUpIn > 0 {
		at := s.now().Add(rule.AutoFollowUpIn)
		return &at, note
	}
	return nil, note
}

func (s *Service) createTransferContact(ctx context.Context, tx repository.Store, lead repository.Lead, details *transport.TransferDetails) (*repository.Contact, error) {
	if lead.CompanyID == nil {
		return nil, apperr.Validation("lead has no company to attach the contact to")
	}
	var email *string
	if details.Email != "" {
		e := details.Email
		email = &e
	}
	contact, err := tx.CreateContact(ctx, repository.CreateContactParams{
		CompanyID:       *lead.CompanyID,
		FirstName:       details.FirstName,
		LastName:        details.LastName,
		Role:            details.Role,
		Phone:           details.Phone,
		PhoneNormalized: phone.NormalizeE164(details.Phone),
		Email:           email,
	})
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *Service) createVacancyLead(ctx context.Context, tx repository.Store, lead repository.Lead, details *transport.NewVacancyDetails) (repository.Lead, error) {
	if lead.CompanyID == nil {
		return repository.Lead{}, apperr.Validation("lead has no company to attach the vacancy to")
	}
	now := s.now()
	var positionID *string
	if details.PositionID != "" {
		p := details.PositionID
		positionID = &p
	}
	source := "call"
	return tx.CreateLead(ctx, repository.CreateLeadParams{
		CompanyID:   lead.CompanyID,
		PositionID:  positionID,
		Position:    details.Position,
		Status:      domain.StatusNew,
		Priority:    lead.Priority,
		FirstSeenAt: now,
		LastSeenAt:  now,
		ExpiresAt:   now.Add(leadTTL),
		Source:      &source,
	})
}

// applyBlacklistCascade flips the company to blacklisted, force-transitions
// every open sibling lead to blacklist_hard in one bulk statement and
// writes a synthetic call record per affected sibling so the audit trail
// stays complete. Runs inside the triggering disposition's transaction.
func (s *Service) applyBlacklistCascade(ctx context.Context, tx repository.Store, lead repository.Lead) (int, error) {
	if lead.CompanyID == nil {
		return 0, nil
	}
	companyID := *lead.CompanyID
	if err := tx.SetCompanyBlacklisted(ctx, companyID, true); err != nil {
		return 0, err
	}
	affected, err := tx.BlacklistCompanyLeads(ctx, companyID, lead.ID)
	if err != nil {
		return 0, err
	}
	if len(affected) == 0 {
		return 0, nil
	}

	note := fmt.Sprintf("blacklisted via cascade from lead %s", lead.ID)
	records := make([]repository.CreateCallRecordParams, 0, len(affected))
	for _, sibling := range affected {
		records = append(records, repository.CreateCallRecordParams{
			LeadID:      sibling.ID,
			Disposition: domain.DispositionNeverAgain,
			Notes:       note,
			Synthetic:   true,
		})
	}
	if err := tx.CreateCallRecords(ctx, records); err != nil {
		return 0, err
	}
	return len(affected), nil
}

func (s *Service) publishCallEvents(ctx context.Context, code domain.DispositionCode, res *recordCallResult) {
	if s.bus == nil {
		return
	}
	if res.prevStatus != res.lead.Status {
		s.bus.Publish(ctx, events.LeadTransitioned{
			BaseEvent:   events.NewBaseEvent(),
			LeadID:      res.lead.ID,
			CompanyID:   res.lead.CompanyID,
			From:        string(res.prevStatus),
			To:          string(res.lead.Status),
			Disposition: string(code),
			CallID:      res.call.ID,
		})
	}
	if res.cascaded > 0 && res.lead.CompanyID != nil {
		s.bus.Publish(ctx, events.BlacklistCascadeApplied{
			BaseEvent:     events.NewBaseEvent(),
			CompanyID:     *res.lead.CompanyID,
			TriggerLeadID: res.lead.ID,
			Affected:      res.cascaded,
		})
		s.log.WithContext(ctx).BlacklistCascade(
			res.lead.CompanyID.String(), res.lead.ID.String(), res.cascaded)
	}
	if res.followUpAt != nil {
		note := ""
		if res.call.FollowUpNote != nil {
			note = *res.call.FollowUpNote
		}
		s.bus.Publish(ctx, events.FollowUpScheduled{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     res.lead.ID,
			CallID:     res.call.ID,
			FollowUpAt: *res.followUpAt,
			Note:       note,
		})
	}
}

// scheduleReminder enqueues the follow-up reminder. Failure is logged and
// noted in the action log, never propagated.
func (s *Service) scheduleReminder(ctx context.Context, res *recordCallResult) {
	if s.reminders == nil {
		return
	}
	note := ""
	if res.call.FollowUpNote != nil {
		note = *res.call.FollowUpNote
	}
	err := s.reminders.ScheduleReminder(ctx, ports.ReminderParams{
		LeadID: res.lead.ID,
		CallID: res.call.ID,
		DueAt:  *res.followUpAt,
		Note:   note,
	})
	if err != nil {
		s.log.WithContext(ctx).Warn("follow-up reminder enqueue failed",
			"lead_id", res.lead.ID.String(), "error", err.Error())
		res.actionLog = append(res.actionLog, "warning: follow-up reminder could not be scheduled")
	}
}

// convertLead hands the committed lead to the ATS. The disposition already
// committed; a conversion failure only surfaces as a warning in the action
// log.
func (s *Service) convertLead(ctx context.Context, payload *transport.QualificationPayload, res *recordCallResult) {
	if s.converter == nil {
		return
	}
	params := ports.ConversionParams{
		LeadID:   res.lead.ID,
		Position: res.lead.Position,
		Notes:    res.call.Notes,
	}
	if res.company != nil {
		params.CompanyName = res.company.Name
	}
	if res.contact != nil {
		params.ContactName = strings.TrimSpace(res.contact.FirstName + " " + res.contact.LastName)
		params.ContactPhone = res.contact.Phone
		if res.contact.Email != nil {
			params.ContactEmail = *res.contact.Email
		}
	}
	if payload != nil {
		params.StartDate = payload.StartDate
		params.SalaryRange = payload.SalaryRange
		params.Headcount = payload.Headcount
		params.Requirements = payload.Requirements
		if payload.Notes != "" {
			params.Notes = appendNote(params.Notes, payload.Notes)
		}
	}

	result, err := s.converter.ConvertLead(ctx, params)
	succeeded := err == nil
	externalID := ""
	if succeeded {
		externalID = result.ExternalJobID
		res.actionLog = append(res.actionLog,
			fmt.Sprintf("lead handed to ATS as job %s", result.ExternalJobID))
	} else {
		s.log.WithContext(ctx).Warn("ats conversion failed",
			"lead_id", res.lead.ID.String(), "error", err.Error())
		res.actionLog = append(res.actionLog,
			fmt.Sprintf("warning: ATS conversion failed: %v", err))
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadConverted{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        res.lead.ID,
			ExternalJobID: externalID,
			Succeeded:     succeeded,
		})
	}
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
