package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskApprovalReminder = "approvals.reminder"

// ApprovalReminderPayload identifies the approval request a reminder task
// should re-check when it fires. The public token is carried in the payload
// because only its hash is persisted.
type ApprovalReminderPayload struct {
	ApprovalID  string `json:"approvalId"`
	OwnerID     string `json:"ownerId"`
	PublicToken string `json:"publicToken"`
}

func NewApprovalReminderTask(payload ApprovalReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskApprovalReminder, data), nil
}

func ParseApprovalReminderPayload(task *asynq.Task) (ApprovalReminderPayload, error) {
	var payload ApprovalReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ApprovalReminderPayload{}, err
	}
	return payload, nil
}
