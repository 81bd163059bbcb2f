package events

import "time"

const ProgramWorkflowTopic = "staffdesk.program.workflow.v1"

const KindProgramDecided = "program-decided"

type ProgramDecidedEvent struct {
	Kind        string    `json:"kind"`
	RequestID   string    `json:"request_id,omitempty"`
	EntryID     string    `json:"entry_id"`
	RecipientID string    `json:"recipient_id"`
	Division    string    `json:"division"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
