package notification

import (
	"context"
	"fmt"

	"akquise_backend/internal/events"
	"akquise_backend/platform/config"
	"akquise_backend/platform/logger"
)

// Module turns engine events into operator emails. It is not HTTP-facing;
// it only subscribes to the bus.
type Module struct {
	sender  Sender
	inbox   string
	enabled bool
	log     *logger.Logger
}

func New(sender Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	return &Module{
		sender:  sender,
		inbox:   cfg.GetOperatorInbox(),
		enabled: cfg.GetEmailEnabled() && cfg.GetOperatorInbox() != "",
		log:     log,
	}
}

// RegisterHandlers subscribes the module to the events it delivers mail for.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.FollowUpDue{}.EventName(), events.HandlerFunc(m.handleFollowUpDue))
	bus.Subscribe(events.BlacklistCascadeApplied{}.EventName(), events.HandlerFunc(m.handleCascadeApplied))
}

func (m *Module) handleFollowUpDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FollowUpDue)
	if !ok {
		return nil
	}
	if !m.enabled {
		m.log.Debug("email disabled, skipping follow-up reminder", "lead_id", e.LeadID.String())
		return nil
	}

	subject := "Follow-up due: lead " + e.LeadID.String()
	body := fmt.Sprintf(
		"A scheduled follow-up is due.\n\nLead: %s\nCall: %s\nDue: %s\n",
		e.LeadID, e.CallID, e.FollowUpAt.Format("2006-01-02 15:04"))

	if err := m.sender.Send(ctx, m.inbox, subject, body); err != nil {
		m.log.Error("follow-up reminder email failed", "lead_id", e.LeadID.String(), "error", err)
		return err
	}
	return nil
}

func (m *Module) handleCascadeApplied(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BlacklistCascadeApplied)
	if !ok {
		return nil
	}
	if !m.enabled {
		return nil
	}

	subject := "Company blacklisted: " + e.CompanyID.String()
	body := fmt.Sprintf(
		"A never-again disposition blacklisted a company.\n\nCompany: %s\nTriggering lead: %s\nSibling leads affected: %d\n",
		e.CompanyID, e.TriggerLeadID, e.Affected)

	if err := m.sender.Send(ctx, m.inbox, subject, body); err != nil {
		m.log.Error("cascade notification email failed", "company_id", e.CompanyID.String(), "error", err)
		return err
	}
	return nil
}
