package division

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	divisionerrors "staffdesk/internal/division/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=division_service.go -destination=mock/division_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDivisionRequest) (DivisionResponse, error)
	GetAll(ctx context.Context) ([]DivisionResponse, error)
	GetByID(ctx context.Context, id string) (DivisionResponse, error)
	Rename(ctx context.Context, id string, req UpdateDivisionRequest) (DivisionResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("division.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("division.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateDivisionRequest) (DivisionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return DivisionResponse{}, divisionerrors.ErrNameTooShort
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DivisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByNameFold(ctx, name)
	if err != nil {
		return DivisionResponse{}, err
	}
	if existing != nil {
		return DivisionResponse{}, divisionerrors.ErrDuplicateName
	}

	d := &Division{
		ID:   uuid.New(),
		Name: name,
	}
	if err := qtx.Create(ctx, d); err != nil {
		s.logger.Error("create division failed", zap.String("name", name), zap.Error(err))
		return DivisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DivisionResponse{}, err
	}

	s.logger.Info("division created", zap.String("division_id", d.ID.String()), zap.String("name", name))
	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context) ([]DivisionResponse, error) {
	divisions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(divisions), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DivisionResponse, error) {
	d, err := s.loadDivision(ctx, id)
	if err != nil {
		return DivisionResponse{}, err
	}
	return mapToResponse(*d), nil
}

// Rename changes the division's name and rewrites every denormalized
// division column in the same transaction, so referencing records never
// point at a name that no longer exists.
func (s *service) Rename(ctx context.Context, id string, req UpdateDivisionRequest) (DivisionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return DivisionResponse{}, divisionerrors.ErrNameTooShort
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DivisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DivisionResponse{}, divisionerrors.ErrDivisionNotFound
		}
		return DivisionResponse{}, err
	}

	if d.Name == name {
		return mapToResponse(*d), nil
	}

	existing, err := qtx.FindByNameFold(ctx, name)
	if err != nil {
		return DivisionResponse{}, err
	}
	if existing != nil && existing.ID != d.ID {
		return DivisionResponse{}, divisionerrors.ErrDuplicateName
	}

	oldName := d.Name
	d.Name = name
	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("rename division failed", zap.String("division_id", id), zap.Error(err))
		return DivisionResponse{}, err
	}
	if err := qtx.RenameReferences(ctx, oldName, name); err != nil {
		s.logger.Error("rename division cascade failed",
			zap.String("division_id", id),
			zap.String("old_name", oldName),
			zap.String("new_name", name),
			zap.Error(err),
		)
		return DivisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DivisionResponse{}, err
	}

	s.logger.Info("division renamed",
		zap.String("division_id", id),
		zap.String("old_name", oldName),
		zap.String("new_name", name),
	)
	return mapToResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return divisionerrors.ErrDivisionNotFound
		}
		return err
	}

	assigned, err := qtx.CountAssignedUsers(ctx, d.Name)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return divisionerrors.ErrDivisionInUse
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete division failed", zap.String("division_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("division deleted", zap.String("division_id", id), zap.String("name", d.Name))
	return nil
}

func (s *service) loadDivision(ctx context.Context, id string) (*Division, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, divisionerrors.ErrDivisionNotFound
		}
		return nil, err
	}
	return d, nil
}

func mapToResponse(d Division) DivisionResponse {
	return DivisionResponse{
		ID:        d.ID.String(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: d.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func mapToListResponse(divisions []Division) []DivisionResponse {
	resp := make([]DivisionResponse, len(divisions))
	for i, d := range divisions {
		resp[i] = mapToResponse(d)
	}
	return resp
}
