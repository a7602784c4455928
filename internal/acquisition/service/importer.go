package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"akquise_backend/internal/acquisition/domain"
	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/acquisition/transport"
	"akquise_backend/internal/events"
	"akquise_backend/platform/logger"
	"akquise_backend/platform/phone"

	"github.com/google/uuid"
)

type rowOutcome int

const (
	outcomeImported rowOutcome = iota
	outcomeRefreshed
	outcomeBlacklistedSkipped
	outcomeProtectedSkipped
)

// ImportBatch reconciles a batch of vendor lead rows against the known
// leads. Rows are processed sequentially and committed in bounded chunks;
// a failing row rolls back only its own savepoint and is reported in the
// summary, never aborting the rest of the batch.
func (s *Service) ImportBatch(ctx context.Context, req transport.ImportBatchRequest) (transport.ImportSummary, error) {
	batchID := uuid.New()
	ctx = context.WithValue(ctx, logger.BatchIDKey, batchID.String())

	summary := transport.ImportSummary{
		BatchID:      batchID,
		ErrorDetails: make([]transport.ImportRowError, 0),
	}

	for start := 0; start < len(req.Rows); start += s.importBatchSize {
		end := start + s.importBatchSize
		if end > len(req.Rows) {
			end = len(req.Rows)
		}
		chunk := req.Rows[start:end]
		chunkStart := start

		err := s.store.WithTx(ctx, func(tx repository.Store) error {
			for i, row := range chunk {
				rowNum := chunkStart + i + 1
				var outcome rowOutcome
				// Savepoint per row: a bad row must not take down the
				// rows already reconciled in this chunk.
				rowErr := tx.WithTx(ctx, func(rowTx repository.Store) error {
					var err error
					outcome, err = s.reconcileRow(ctx, rowTx, batchID, row)
					return err
				})
				if rowErr != nil {
					summary.Errors++
					summary.ErrorDetails = append(summary.ErrorDetails, transport.ImportRowError{
						Row:    rowNum,
						AdID:   strings.TrimSpace(row.AdID),
						Reason: rowErr.Error(),
					})
					continue
				}
				switch outcome {
				case outcomeImported:
					summary.Imported++
				case outcomeRefreshed:
					summary.DuplicatesRefreshed++
				case outcomeBlacklistedSkipped:
					summary.BlacklistedSkipped++
				case outcomeProtectedSkipped:
					summary.ProtectedSkipped++
				}
			}
			return nil
		})
		if err != nil {
			// The whole chunk failed to commit; every row in it is lost.
			for i := range chunk {
				summary.Errors++
				summary.ErrorDetails = append(summary.ErrorDetails, transport.ImportRowError{
					Row:    chunkStart + i + 1,
					AdID:   strings.TrimSpace(chunk[i].AdID),
					Reason: fmt.Sprintf("batch commit failed: %v", err),
				})
			}
		}
	}

	s.log.WithContext(ctx).ImportSummary(batchID.String(),
		summary.Imported, summary.DuplicatesRefreshed,
		summary.BlacklistedSkipped, summary.ProtectedSkipped, summary.Errors)

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadBatchImported{
			BaseEvent:           events.NewBaseEvent(),
			BatchID:             batchID,
			Imported:            summary.Imported,
			DuplicatesRefreshed: summary.DuplicatesRefreshed,
			BlacklistedSkipped:  summary.BlacklistedSkipped,
			ProtectedSkipped:    summary.ProtectedSkipped,
			Errors:              summary.Errors,
		})
	}
	return summary, nil
}

func (s *Service) reconcileRow(ctx context.Context, tx repository.Store, batchID uuid.UUID, row transport.ImportRow) (rowOutcome, error) {
	position := strings.TrimSpace(row.Position)
	adID := strings.TrimSpace(row.AdID)
	if position == "" && adID == "" {
		return 0, errors.New("row has neither a position title nor an ad id")
	}

	if adID != "" {
		existing, err := tx.GetLeadByAdID(ctx, adID)
		switch {
		case err == nil:
			return s.reconcileExisting(ctx, tx, batchID, existing, row)
		case !errors.Is(err, repository.ErrLeadNotFound):
			return 0, err
		}
	}
	return s.insertNewLead(ctx, tx, batchID, row, adID)
}

// reconcileExisting applies the dedup rules for a row whose ad id matched a
// known lead: skip hard-blacklisted, leave protected statuses alone, treat
// long-unseen ads as brand new, otherwise refresh the sighting window and
// reset resettable statuses back to "new".
func (s *Service) reconcileExisting(ctx context.Context, tx repository.Store, batchID uuid.UUID, lead repository.Lead, row transport.ImportRow) (rowOutcome, error) {
	now := s.now()

	if lead.Status == domain.StatusBlacklistHard {
		return outcomeBlacklistedSkipped, nil
	}

	if domain.ProtectedStatuses[lead.Status] {
		// A soft blacklist protects the lead only for its suppression
		// window; once that has elapsed the ad re-enters the pipeline.
		expired := lead.Status == domain.StatusBlacklistSoft &&
			now.Sub(lead.StatusChangedAt) >= softBlacklistSuppression
		if !expired {
			// Bump the sighting only; status and expiry stay untouched.
			_, err := tx.RefreshLeadSeen(ctx, repository.RefreshLeadSeenParams{
				ID:            lead.ID,
				LastSeenAt:    now,
				ExpiresAt:     lead.ExpiresAt,
				ImportBatchID: &batchID,
			})
			if err != nil {
				return 0, err
			}
			return outcomeProtectedSkipped, nil
		}
		if err := domain.ValidateReimport(lead.Status); err != nil {
			return 0, err
		}
		reset := domain.StatusNew
		_, err := tx.RefreshLeadSeen(ctx, repository.RefreshLeadSeenParams{
			ID:              lead.ID,
			ExpectedVersion: lead.StatusVersion,
			LastSeenAt:      now,
			ExpiresAt:       now.Add(leadTTL),
			ImportBatchID:   &batchID,
			ResetStatus:     &reset,
		})
		if err != nil {
			return 0, err
		}
		return outcomeRefreshed, nil
	}

	if now.Sub(lead.LastSeenAt) > stalenessWindow {
		// The ad vanished long enough that this sighting is effectively a
		// new vacancy. The stale lead is archived under a disambiguated ad
		// id and the fresh lead takes over the clean one, so tomorrow's
		// feed matches the fresh lead instead of minting yet another copy.
		adID := strings.TrimSpace(row.AdID)
		archived := fmt.Sprintf("%s-%s", adID, lead.LastSeenAt.Format("20060102"))
		if err := tx.UpdateLeadAdID(ctx, lead.ID, archived); err != nil {
			return 0, err
		}
		return s.insertNewLead(ctx, tx, batchID, row, adID)
	}

	params := repository.RefreshLeadSeenParams{
		ID:            lead.ID,
		LastSeenAt:    now,
		ExpiresAt:     now.Add(leadTTL),
		ImportBatchID: &batchID,
	}
	if domain.ResettableStatuses[lead.Status] {
		if err := domain.ValidateReimport(lead.Status); err != nil {
			return 0, err
		}
		reset := domain.StatusNew
		params.ExpectedVersion = lead.StatusVersion
		params.ResetStatus = &reset
	}
	if _, err := tx.RefreshLeadSeen(ctx, params); err != nil {
		return 0, err
	}
	return outcomeRefreshed, nil
}

func (s *Service) insertNewLead(ctx context.Context, tx repository.Store, batchID uuid.UUID, row transport.ImportRow, adID string) (rowOutcome, error) {
	now := s.now()

	var companyID *uuid.UUID
	companyKnown := false
	if strings.TrimSpace(row.CompanyName) != "" {
		company, existed, err := s.resolveCompany(ctx, tx, row)
		if err != nil {
			return 0, err
		}
		if company.Blacklisted {
			return outcomeBlacklistedSkipped, nil
		}
		companyID = &company.ID
		companyKnown = existed

		if err := s.ensureContact(ctx, tx, company.ID, row); err != nil {
			return 0, err
		}
	}

	priority := domain.ScorePriority(domain.ScoringInput{
		Position:      row.Position,
		Industry:      row.Industry,
		JobText:       row.JobText,
		ContactName:   strings.TrimSpace(row.ContactFirstName + " " + row.ContactLastName),
		ContactPhone:  row.ContactPhone,
		EmployeeCount: employeeCount(row),
		FreshlySeen:   true,
		CompanyKnown:  companyKnown,
	})

	params := repository.CreateLeadParams{
		CompanyID:     companyID,
		Position:      strings.TrimSpace(row.Position),
		Status:        domain.StatusNew,
		Priority:      priority,
		FirstSeenAt:   now,
		LastSeenAt:    now,
		ExpiresAt:     now.Add(leadTTL),
		ImportBatchID: &batchID,
	}
	if adID != "" {
		params.AdID = &adID
	}
	if pid := strings.TrimSpace(row.PositionID); pid != "" {
		params.PositionID = &pid
	}
	if src := strings.TrimSpace(row.Source); src != "" {
		params.Source = &src
	}

	if _, err := tx.CreateLead(ctx, params); err != nil {
		return 0, err
	}
	return outcomeImported, nil
}

// resolveCompany finds the row's company by case-insensitive name+city or
// creates it. CreateCompany upserts against the unique name+city index, so
// concurrent imports racing on the same company converge on one row.
func (s *Service) resolveCompany(ctx context.Context, tx repository.Store, row transport.ImportRow) (repository.Company, bool, error) {
	name := strings.TrimSpace(row.CompanyName)
	city := strings.TrimSpace(row.City)

	existing, err := tx.FindCompanyByNameCity(ctx, name, city)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, repository.ErrCompanyNotFound) {
		return repository.Company{}, false, err
	}

	params := repository.CreateCompanyParams{
		Name:    name,
		Street:  strings.TrimSpace(row.Street),
		ZipCode: strings.TrimSpace(row.ZipCode),
		City:    city,
	}
	if industry := strings.TrimSpace(row.Industry); industry != "" {
		params.Industry = &industry
	}
	if row.EmployeeCount != nil {
		params.EmployeeCount = row.EmployeeCount
	}
	created, err := tx.CreateCompany(ctx, params)
	if err != nil {
		return repository.Company{}, false, err
	}
	return created, false, nil
}

// ensureContact creates the row's contact if one with the same name does
// not already exist on the company.
func (s *Service) ensureContact(ctx context.Context, tx repository.Store, companyID uuid.UUID, row transport.ImportRow) error {
	first := strings.TrimSpace(row.ContactFirstName)
	last := strings.TrimSpace(row.ContactLastName)
	if first == "" && last == "" {
		return nil
	}

	_, err := tx.FindContactByName(ctx, companyID, first, last)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrContactNotFound) {
		return err
	}

	params := repository.CreateContactParams{
		CompanyID: companyID,
		FirstName: first,
		LastName:  last,
		Role:      strings.TrimSpace(row.ContactRole),
		Phone:     strings.TrimSpace(row.ContactPhone),
	}
	if params.Phone != "" {
		params.PhoneNormalized = phone.NormalizeE164(params.Phone)
	}
	if email := strings.TrimSpace(row.ContactEmail); email != "" {
		params.Email = &email
	}
	_, err = tx.CreateContact(ctx, params)
	return err
}

func employeeCount(row transport.ImportRow) int {
	if row.EmployeeCount == nil {
		return 0
	}
	return *row.EmployeeCount
}
