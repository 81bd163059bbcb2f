package directory

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByEmail returns nil when no user carries the email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindByDivision(ctx context.Context, division string) ([]User, error)
	FindByRole(ctx context.Context, role string) ([]User, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) error
	// FindOfficerOptions lists the non-deleted users of a division plus the
	// system-wide roles, enough to populate the workflow officer pickers.
	FindOfficerOptions(ctx context.Context, division string) ([]User, error)
	DivisionExists(ctx context.Context, name string) (bool, error)
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(u).Error)
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Order("name ASC").Find(&users).Error
	return users, err
}

func (r *repository) FindByDivision(ctx context.Context, division string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("division = ?", division).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindByRole(ctx context.Context, role string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return mapRepositoryError(r.db.WithContext(ctx).Save(u).Error)
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (r *repository) FindOfficerOptions(ctx context.Context, division string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("division = ? OR role IN ?", division, []string{"HOD", "Admin"}).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) DivisionExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("divisions").
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	return count > 0, err
}
