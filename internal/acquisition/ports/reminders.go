package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReminderParams describes one follow-up reminder to deliver at DueAt.
type ReminderParams struct {
	LeadID uuid.UUID
	CallID uuid.UUID
	DueAt  time.Time
	Note   string
}

// ReminderScheduler enqueues a follow-up reminder for future delivery.
// Enqueue failure never rolls back the disposition that scheduled it.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, params ReminderParams) error
}
