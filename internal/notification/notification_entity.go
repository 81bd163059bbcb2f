package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one row of a user's in-app feed, written by the workflow
// consumer. The payload keeps the full event so the frontend can render
// without a second lookup.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_notification_recipient"`
	Kind        string    `gorm:"type:varchar(30);not null"`
	Payload     []byte    `gorm:"type:jsonb"`
	Read        bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
}
