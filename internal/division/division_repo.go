package division

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=division_repo.go -destination=mock/division_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Division) error
	FindAll(ctx context.Context) ([]Division, error)
	FindByID(ctx context.Context, id string) (*Division, error)
	// FindByNameFold matches case-insensitively; returns nil when absent.
	FindByNameFold(ctx context.Context, name string) (*Division, error)
	Update(ctx context.Context, d *Division) error
	Delete(ctx context.Context, id string) error
	CountAssignedUsers(ctx context.Context, name string) (int64, error)
	// RenameReferences rewrites the denormalized division column on every
	// table that carries it.
	RenameReferences(ctx context.Context, oldName, newName string) error
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

func (r *repository) Create(ctx context.Context, d *Division) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Division, error) {
	var divisions []Division
	err := r.db.WithContext(ctx).Order("name ASC").Find(&divisions).Error
	return divisions, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Division, error) {
	var d Division
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) FindByNameFold(ctx context.Context, name string) (*Division, error) {
	var d Division
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Update(ctx context.Context, d *Division) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Division{}, "id = ?", id).Error
}

func (r *repository) CountAssignedUsers(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("division = ? AND deleted_at IS NULL", name).
		Count(&count).Error
	return count, err
}

func (r *repository) RenameReferences(ctx context.Context, oldName, newName string) error {
	for _, table := range []string{"users", "leave_applications", "program_entries"} {
		err := r.db.WithContext(ctx).
			Table(table).
			Where("division = ?", oldName).
			Update("division", newName).Error
		if err != nil {
			return err
		}
	}
	return nil
}
