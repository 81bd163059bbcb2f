package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the directory identity record every workflow decision keys off.
// Rows are soft-deleted: workflow records keep referencing the id of a
// removed user.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_user_email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`

	Role        string `gorm:"type:varchar(30);not null;default:'Staff';index:idx_user_division_role"`
	StaffType   string `gorm:"type:varchar(10);not null;default:'office'"`
	Division    string `gorm:"type:varchar(100);index:idx_user_division_role"`
	Designation string `gorm:"type:varchar(100)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
