package service

import (
	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/acquisition/transport"
)

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		CompanyID:       lead.CompanyID,
		AdID:            lead.AdID,
		PositionID:      lead.PositionID,
		Position:        lead.Position,
		Status:          string(lead.Status),
		StatusChangedAt: lead.StatusChangedAt,
		Priority:        lead.Priority,
		FirstSeenAt:     lead.FirstSeenAt,
		LastSeenAt:      lead.LastSeenAt,
		ExpiresAt:       lead.ExpiresAt,
		Source:          lead.Source,
		CreatedAt:       lead.CreatedAt,
	}
}

func toLeadResponses(leads []repository.Lead) []transport.LeadResponse {
	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, toLeadResponse(lead))
	}
	return out
}

func toCallResponse(call repository.CallRecord) transport.CallResponse {
	return transport.CallResponse{
		ID:              call.ID,
		LeadID:          call.LeadID,
		ContactID:       call.ContactID,
		Disposition:     string(call.Disposition),
		Notes:           call.Notes,
		DurationSeconds: call.DurationSeconds,
		FollowUpAt:      call.FollowUpAt,
		FollowUpNote:    call.FollowUpNote,
		Transcript:      call.Transcript,
		Synthetic:       call.Synthetic,
		CreatedAt:       call.CreatedAt,
	}
}

func toContactResponse(contact repository.Contact) transport.ContactResponse {
	return transport.ContactResponse{
		ID:             contact.ID,
		CompanyID:      contact.CompanyID,
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		Role:           contact.Role,
		Phone:          contact.Phone,
		Extension:      contact.Extension,
		GatekeeperName: contact.GatekeeperName,
		Email:          contact.Email,
	}
}

func toCompanyResponse(company repository.Company) transport.CompanyResponse {
	return transport.CompanyResponse{
		ID:            company.ID,
		Name:          company.Name,
		Street:        company.Street,
		ZipCode:       company.ZipCode,
		City:          company.City,
		Industry:      company.Industry,
		EmployeeCount: company.EmployeeCount,
		Blacklisted:   company.Blacklisted,
	}
}
