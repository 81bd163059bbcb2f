package program

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"staffdesk/internal/domain"
	"staffdesk/internal/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=program_repo.go -destination=mock/program_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *AdvancedProgramEntry) error
	FindByID(ctx context.Context, id string) (*AdvancedProgramEntry, error)
	FindByOwnerAndDate(ctx context.Context, userID string, date string) (*AdvancedProgramEntry, error)
	FindByOwnerForMonth(ctx context.Context, userID string, year, month int) ([]AdvancedProgramEntry, error)
	FindSubmittedForMonth(ctx context.Context, actor domain.Actor, year, month int) ([]AdvancedProgramEntry, error)
	// UpdateDraftFields rewrites program_name/place only while the row is
	// still a draft; reports false when the row moved on.
	UpdateDraftFields(ctx context.Context, e *AdvancedProgramEntry) (bool, error)
	// UpdateStatusFrom persists the transition only if the stored status
	// still equals expectedStatus; reports false when another actor won.
	UpdateStatusFrom(ctx context.Context, e *AdvancedProgramEntry, expectedStatus string) (bool, error)
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

func (r *repository) Create(ctx context.Context, e *AdvancedProgramEntry) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(e).Error)
}

func (r *repository) FindByID(ctx context.Context, id string) (*AdvancedProgramEntry, error) {
	var e AdvancedProgramEntry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByOwnerAndDate(ctx context.Context, userID string, date string) (*AdvancedProgramEntry, error) {
	var e AdvancedProgramEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByOwnerForMonth(ctx context.Context, userID string, year, month int) ([]AdvancedProgramEntry, error) {
	var entries []AdvancedProgramEntry
	err := r.db.WithContext(ctx).
		Scopes(scope.Owner(userID), scope.Month("date", year, time.Month(month))).
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}

// FindSubmittedForMonth lists the entries awaiting a decision that the actor
// may see: the whole system for the super-roles, own division otherwise.
func (r *repository) FindSubmittedForMonth(ctx context.Context, actor domain.Actor, year, month int) ([]AdvancedProgramEntry, error) {
	var entries []AdvancedProgramEntry
	db := r.db.WithContext(ctx).
		Scopes(scope.Status(StatusSubmitted), scope.Month("date", year, time.Month(month)))

	if !actor.Role.SystemWide() {
		db = db.Scopes(scope.Division(actor.Division))
	}

	err := db.Order("date ASC").Find(&entries).Error
	return entries, err
}

func (r *repository) UpdateDraftFields(ctx context.Context, e *AdvancedProgramEntry) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&AdvancedProgramEntry{}).
		Where("id = ? AND status = ?", e.ID, StatusDraft).
		Updates(map[string]any{
			"program_name": e.ProgramName,
			"place":        e.Place,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateStatusFrom(ctx context.Context, e *AdvancedProgramEntry, expectedStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&AdvancedProgramEntry{}).
		Where("id = ? AND status = ?", e.ID, expectedStatus).
		Update("status", e.Status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
