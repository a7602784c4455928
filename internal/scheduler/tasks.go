// Package scheduler delivers follow-up reminders through asynq: the client
// enqueues a task at the follow-up time, the worker turns due tasks into
// domain events.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFollowUpReminder = "akquise.followup.reminder"

type FollowUpReminderPayload struct {
	LeadID     string    `json:"leadId"`
	CallID     string    `json:"callId"`
	FollowUpAt time.Time `json:"followUpAt"`
	Note       string    `json:"note,omitempty"`
}

func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpReminder, data), nil
}

func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, err
	}
	return payload, nil
}
