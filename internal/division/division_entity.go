package division

import (
	"time"

	"github.com/google/uuid"
)

type Division struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_division_name"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
