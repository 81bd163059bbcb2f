package leave

import (
	"time"

	"github.com/google/uuid"
)

// LeaveApplication rows are never deleted; terminal records stay immutable
// except for denormalized fields touched by a division rename.
type LeaveApplication struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ApplicationNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_application_number"`

	ApplicantID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applicant"`
	ApplicantName string    `gorm:"type:varchar(255);not null"`
	Designation   string    `gorm:"type:varchar(100)"`
	Division      string    `gorm:"type:varchar(100);not null;index:idx_leave_division_status"`

	LeaveType  string    `gorm:"type:varchar(20);not null"`
	LeaveDays  int       `gorm:"type:int;not null"`
	StartDate  time.Time `gorm:"type:date;not null"`
	ResumeDate time.Time `gorm:"type:date;not null"`
	Reason     string    `gorm:"type:text;not null"`

	ActingOfficerID   uuid.UUID `gorm:"type:uuid;not null"`
	ActingOfficerName string    `gorm:"type:varchar(255)"`
	RecommenderID     uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_recommender_status"`
	ApproverID        uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_approver_status"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_division_status;index:idx_leave_recommender_status;index:idx_leave_approver_status"`

	RecommendationBy      *uuid.UUID `gorm:"type:uuid"`
	RecommendationDate    *time.Time
	RecommendationRemarks *string `gorm:"type:text"`

	ApprovalBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovalDate    *time.Time
	ApprovalRemarks *string `gorm:"type:text"`

	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Officer is the slim projection of a directory user the leave workflow
// needs when validating referenced officer ids.
type Officer struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	Name        string    `gorm:"column:name"`
	Role        string    `gorm:"column:role"`
	Division    string    `gorm:"column:division"`
	Designation string    `gorm:"column:designation"`
}

func (Officer) TableName() string {
	return "users"
}
