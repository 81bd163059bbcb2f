package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	directoryerrors "staffdesk/internal/directory/errors"
	"staffdesk/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const OfficerOptionsKeyPrefix = "directory:options:"

func GetOfficerOptionsKey(division string) string {
	return OfficerOptionsKeyPrefix + strings.ToLower(division)
}

//go:generate mockgen -source=directory_service.go -destination=mock/directory_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateUserRequest) (UserResponse, error)
	List(ctx context.Context, actor domain.Actor) ([]UserResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (UserResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateUserRequest) (UserResponse, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, req UpdateProfileRequest) (UserResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	GetOfficerOptions(ctx context.Context, actor domain.Actor) ([]OfficerOption, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// validateRoleAndDivision enforces the directory invariants: the role must be
// one of the closed set, division-scoped roles carry an existing division,
// and the staff type defaults to office.
func (s *service) validateRoleAndDivision(ctx context.Context, repo Repository, role, staffType, division string) (string, error) {
	if !domain.Role(role).Valid() {
		return "", directoryerrors.ErrInvalidRole
	}
	if staffType == "" {
		staffType = string(domain.StaffTypeOffice)
	}
	if !domain.StaffType(staffType).Valid() {
		return "", directoryerrors.ErrInvalidStaffType
	}
	if domain.Role(role).DivisionScoped() {
		if division == "" {
			return "", directoryerrors.ErrDivisionRequired
		}
		exists, err := repo.DivisionExists(ctx, division)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", directoryerrors.ErrDivisionUnknown
		}
	}
	return staffType, nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateUserRequest) (UserResponse, error) {
	s.logger.Debug("create user requested",
		zap.String("actor_id", actor.ID),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	staffType, err := s.validateRoleAndDivision(ctx, qtx, req.Role, req.StaffType, req.Division)
	if err != nil {
		return UserResponse{}, err
	}

	existing, err := qtx.FindByEmail(ctx, req.Email)
	if err != nil {
		return UserResponse{}, err
	}
	if existing != nil {
		return UserResponse{}, directoryerrors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := &User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         req.Role,
		StaffType:    staffType,
		Division:     req.Division,
		Designation:  req.Designation,
	}
	if err := qtx.Create(ctx, u); err != nil {
		s.logger.Error("create user failed", zap.String("email", req.Email), zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	s.invalidateOptions(ctx, u.Division)
	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
		zap.String("division", u.Division),
	)
	return mapToResponse(*u), nil
}

// List applies the directory visibility rule: super-roles see everyone, the
// division-scoped leadership sees its division, plain Staff sees nothing.
func (s *service) List(ctx context.Context, actor domain.Actor) ([]UserResponse, error) {
	switch actor.DirectoryScope() {
	case domain.DirectoryAll:
		users, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(users), nil
	case domain.DirectoryDivision:
		users, err := s.repo.FindByDivision(ctx, actor.Division)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(users), nil
	default:
		return nil, directoryerrors.ErrNotAuthorized
	}
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (UserResponse, error) {
	u, err := s.loadUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	if actor.ID != id && !canSeeUser(actor, u) {
		return UserResponse{}, directoryerrors.ErrNotAuthorized
	}
	return mapToResponse(*u), nil
}

func canSeeUser(actor domain.Actor, u *User) bool {
	switch actor.DirectoryScope() {
	case domain.DirectoryAll:
		return true
	case domain.DirectoryDivision:
		return u.Division == actor.Division
	default:
		return false
	}
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateUserRequest) (UserResponse, error) {
	s.logger.Debug("update user requested",
		zap.String("actor_id", actor.ID),
		zap.String("user_id", id),
		zap.String("role", req.Role),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, directoryerrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	staffType, err := s.validateRoleAndDivision(ctx, qtx, req.Role, req.StaffType, req.Division)
	if err != nil {
		return UserResponse{}, err
	}

	oldDivision := u.Division
	u.Name = req.Name
	u.Role = req.Role
	u.StaffType = staffType
	u.Division = req.Division
	u.Designation = req.Designation

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	s.invalidateOptions(ctx, oldDivision)
	if u.Division != oldDivision {
		s.invalidateOptions(ctx, u.Division)
	}
	s.logger.Info("user updated",
		zap.String("user_id", id),
		zap.String("role", u.Role),
		zap.String("division", u.Division),
	)
	return mapToResponse(*u), nil
}

func (s *service) UpdateProfile(ctx context.Context, actor domain.Actor, req UpdateProfileRequest) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, directoryerrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	u.Name = req.Name
	u.Designation = req.Designation

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update profile failed", zap.String("user_id", actor.ID), zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	s.invalidateOptions(ctx, u.Division)
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if actor.ID == id {
		return directoryerrors.ErrCannotDeleteSelf
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return directoryerrors.ErrUserNotFound
		}
		return err
	}

	if err := qtx.SoftDelete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateOptions(ctx, u.Division)
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", actor.ID))
	return nil
}

// GetOfficerOptions serves the leave-form pickers for the actor's division.
// The list is near-static master data, so it sits in redis for an hour and
// concurrent misses collapse into one query via singleflight.
func (s *service) GetOfficerOptions(ctx context.Context, actor domain.Actor) ([]OfficerOption, error) {
	if actor.Division == "" {
		return nil, directoryerrors.ErrDivisionRequired
	}
	cacheKey := GetOfficerOptionsKey(actor.Division)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var opts []OfficerOption
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		users, err := s.repo.FindOfficerOptions(ctx, actor.Division)
		if err != nil {
			return nil, err
		}

		opts := make([]OfficerOption, len(users))
		for i, u := range users {
			opts[i] = OfficerOption{
				ID:       u.ID.String(),
				Name:     u.Name,
				Role:     u.Role,
				Division: u.Division,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(opts); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}
		return opts, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]OfficerOption), nil
}

func (s *service) invalidateOptions(ctx context.Context, division string) {
	if s.rdb == nil || division == "" {
		return
	}
	if err := s.rdb.Del(ctx, GetOfficerOptionsKey(division)).Err(); err != nil {
		s.logger.Warn("invalidate officer options cache failed",
			zap.String("division", division),
			zap.Error(err),
		)
	}
}

func (s *service) loadUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, directoryerrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		StaffType:   u.StaffType,
		Division:    u.Division,
		Designation: u.Designation,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
