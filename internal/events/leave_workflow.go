package events

import "time"

const LeaveWorkflowTopic = "staffdesk.leave.workflow.v1"

// Notification kinds carried in the event payloads. These are the wire names
// the consumer and any external delivery channel key on.
const (
	KindLeaveRecommended = "leave-recommended"
	KindLeaveDecided     = "leave-decided"
)

type LeaveWorkflowEvent struct {
	Kind          string    `json:"kind"`
	RequestID     string    `json:"request_id,omitempty"`
	ApplicationID string    `json:"application_id"`
	RecipientID   string    `json:"recipient_id"`
	ApplicantID   string    `json:"applicant_id"`
	Division      string    `json:"division"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
