package program

import (
	"time"

	"github.com/google/uuid"
)

// AdvancedProgramEntry is one planned field-work day. At most one row exists
// per (user_id, date); the unique index is the arbiter under concurrent
// saves.
type AdvancedProgramEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_program_user_date"`
	UserName string    `gorm:"type:varchar(255);not null"`
	Division string    `gorm:"type:varchar(100);not null;index:idx_program_division_status"`

	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uq_program_user_date"`
	ProgramName string    `gorm:"type:varchar(255)"`
	Place       string    `gorm:"type:varchar(255)"`

	Status string `gorm:"type:varchar(20);not null;default:'draft';index:idx_program_division_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AdvancedProgramEntry) TableName() string {
	return "program_entries"
}
