package leave

import (
	"context"
	"database/sql"
	"errors"

	"staffdesk/internal/domain"
	"staffdesk/internal/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveApplication) error
	FindByID(ctx context.Context, id string) (*LeaveApplication, error)
	FindByApplicant(ctx context.Context, applicantID string) ([]LeaveApplication, error)
	FindToRecommend(ctx context.Context, actor domain.Actor) ([]LeaveApplication, error)
	FindToApprove(ctx context.Context, actor domain.Actor) ([]LeaveApplication, error)
	FindApproved(ctx context.Context, actor domain.Actor) ([]LeaveApplication, error)
	// UpdateStatusFrom persists the transition only if the stored status
	// still equals expectedStatus; reports false when another actor won.
	UpdateStatusFrom(ctx context.Context, l *LeaveApplication, expectedStatus string) (bool, error)
	FindOfficer(ctx context.Context, id string) (*Officer, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveApplication) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var l LeaveApplication
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByApplicant(ctx context.Context, applicantID string) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// FindToRecommend returns pending applications the actor may act on at the
// recommendation stage: explicitly assigned ones, plus the division-wide
// fallback for Division CC.
func (r *repository) FindToRecommend(ctx context.Context, actor domain.Actor) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	db := r.db.WithContext(ctx).Scopes(scope.Status(StatusPending))

	if actor.Role == domain.RoleDivisionCC && actor.Division != "" {
		db = db.Where("recommender_id = ? OR division = ?", actor.ID, actor.Division)
	} else {
		db = db.Where("recommender_id = ?", actor.ID)
	}

	err := db.Order("created_at ASC").Find(&apps).Error
	return apps, err
}

// FindToApprove returns recommended applications the actor may decide:
// assigned ones, all of them for the system-wide roles, and the whole
// division for a Divisional Head.
func (r *repository) FindToApprove(ctx context.Context, actor domain.Actor) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	db := r.db.WithContext(ctx).Scopes(scope.Status(StatusRecommended))

	switch {
	case actor.Role.SystemWide():
		// no extra predicate
	case actor.Role == domain.RoleDivisionalHead && actor.Division != "":
		db = db.Where("approver_id = ? OR division = ?", actor.ID, actor.Division)
	default:
		db = db.Where("approver_id = ?", actor.ID)
	}

	err := db.Order("created_at ASC").Find(&apps).Error
	return apps, err
}

func (r *repository) FindApproved(ctx context.Context, actor domain.Actor) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	db := r.db.WithContext(ctx).Scopes(scope.Status(StatusApproved))

	if !actor.Role.SystemWide() {
		db = db.Scopes(scope.Division(actor.Division))
	}

	err := db.Order("approval_date DESC").Find(&apps).Error
	return apps, err
}

func (r *repository) UpdateStatusFrom(ctx context.Context, l *LeaveApplication, expectedStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("id = ? AND status = ?", l.ID, expectedStatus).
		Updates(map[string]any{
			"status":                 l.Status,
			"recommendation_by":      l.RecommendationBy,
			"recommendation_date":    l.RecommendationDate,
			"recommendation_remarks": l.RecommendationRemarks,
			"approval_by":            l.ApprovalBy,
			"approval_date":          l.ApprovalDate,
			"approval_remarks":       l.ApprovalRemarks,
			"rejection_reason":       l.RejectionReason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindOfficer(ctx context.Context, id string) (*Officer, error) {
	var o Officer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Take(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
