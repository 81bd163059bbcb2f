package directory_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"staffdesk/internal/directory"
	directoryerrors "staffdesk/internal/directory/errors"
	"staffdesk/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeDirectoryRepository struct {
	withTxFn             func(tx *sql.Tx) directory.Repository
	createFn             func(ctx context.Context, u *directory.User) error
	findByIDFn           func(ctx context.Context, id string) (*directory.User, error)
	findByEmailFn        func(ctx context.Context, email string) (*directory.User, error)
	findAllFn            func(ctx context.Context) ([]directory.User, error)
	findByDivisionFn     func(ctx context.Context, division string) ([]directory.User, error)
	findByRoleFn         func(ctx context.Context, role string) ([]directory.User, error)
	updateFn             func(ctx context.Context, u *directory.User) error
	softDeleteFn         func(ctx context.Context, id string) error
	findOfficerOptionsFn func(ctx context.Context, division string) ([]directory.User, error)
	divisionExistsFn     func(ctx context.Context, name string) (bool, error)
}

func (f *fakeDirectoryRepository) WithTx(tx *sql.Tx) directory.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeDirectoryRepository) Create(ctx context.Context, u *directory.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeDirectoryRepository) FindByID(ctx context.Context, id string) (*directory.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectoryRepository) FindByEmail(ctx context.Context, email string) (*directory.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeDirectoryRepository) FindAll(ctx context.Context) ([]directory.User, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeDirectoryRepository) FindByDivision(ctx context.Context, division string) ([]directory.User, error) {
	if f.findByDivisionFn != nil {
		return f.findByDivisionFn(ctx, division)
	}
	return nil, nil
}

func (f *fakeDirectoryRepository) FindByRole(ctx context.Context, role string) ([]directory.User, error) {
	if f.findByRoleFn != nil {
		return f.findByRoleFn(ctx, role)
	}
	return nil, nil
}

func (f *fakeDirectoryRepository) Update(ctx context.Context, u *directory.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeDirectoryRepository) SoftDelete(ctx context.Context, id string) error {
	if f.softDeleteFn != nil {
		return f.softDeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeDirectoryRepository) FindOfficerOptions(ctx context.Context, division string) ([]directory.User, error) {
	if f.findOfficerOptionsFn != nil {
		return f.findOfficerOptionsFn(ctx, division)
	}
	return nil, nil
}

func (f *fakeDirectoryRepository) DivisionExists(ctx context.Context, name string) (bool, error) {
	if f.divisionExistsFn != nil {
		return f.divisionExistsFn(ctx, name)
	}
	return true, nil
}

type directoryServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   directory.Service
	repo      *fakeDirectoryRepository
	redisMock redismock.ClientMock
}

func setupDirectoryServiceTest(t *testing.T) *directoryServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	rdb, redisMock := redismock.NewClientMock()

	repo := &fakeDirectoryRepository{}
	svc := directory.NewService(db, repo, rdb)

	return &directoryServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redisMock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func adminActor() domain.Actor {
	return domain.Actor{ID: uuid.New().String(), Role: domain.RoleAdmin}
}

func TestDirectoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes password and defaults staff type", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(directory.GetOfficerOptionsKey("Planning")).SetVal(1)
		deps.repo.createFn = func(ctx context.Context, u *directory.User) error {
			assert.Equal(t, "jane@example.org", u.Email)
			assert.Equal(t, string(domain.StaffTypeOffice), u.StaffType)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
			return nil
		}

		resp, err := deps.service.Create(ctx, adminActor(), directory.CreateUserRequest{
			Name:     "Jane Doe",
			Email:    "Jane@Example.org",
			Password: "s3cret-pass",
			Role:     string(domain.RoleStaff),
			Division: "Planning",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(domain.RoleStaff), resp.Role)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("negative email already registered", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByEmailFn = func(ctx context.Context, email string) (*directory.User, error) {
			return &directory.User{ID: uuid.New(), Email: "jane@example.org"}, nil
		}

		_, err := deps.service.Create(ctx, adminActor(), directory.CreateUserRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.org",
			Password: "s3cret-pass",
			Role:     string(domain.RoleStaff),
			Division: "Planning",
		})

		assert.ErrorIs(t, err, directoryerrors.ErrEmailTaken)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative scoped role without division", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, adminActor(), directory.CreateUserRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.org",
			Password: "s3cret-pass",
			Role:     string(domain.RoleDivisionCC),
		})

		assert.ErrorIs(t, err, directoryerrors.ErrDivisionRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown division", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.divisionExistsFn = func(ctx context.Context, name string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, adminActor(), directory.CreateUserRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.org",
			Password: "s3cret-pass",
			Role:     string(domain.RoleStaff),
			Division: "Atlantis",
		})

		assert.ErrorIs(t, err, directoryerrors.ErrDivisionUnknown)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDirectoryService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees everyone", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]directory.User, error) {
			return []directory.User{
				{ID: uuid.New(), Name: "A", Division: "Planning"},
				{ID: uuid.New(), Name: "B", Division: "Finance"},
			}, nil
		}

		resp, err := deps.service.List(ctx, adminActor())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("division cc sees own division only", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		actor := domain.Actor{ID: uuid.New().String(), Role: domain.RoleDivisionCC, Division: "Planning"}
		deps.repo.findByDivisionFn = func(ctx context.Context, division string) ([]directory.User, error) {
			assert.Equal(t, "Planning", division)
			return []directory.User{{ID: uuid.New(), Name: "A", Division: "Planning"}}, nil
		}

		resp, err := deps.service.List(ctx, actor)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("negative plain staff denied", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		actor := domain.Actor{ID: uuid.New().String(), Role: domain.RoleStaff, Division: "Planning"}

		_, err := deps.service.List(ctx, actor)

		assert.ErrorIs(t, err, directoryerrors.ErrNotAuthorized)
	})
}

func TestDirectoryService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("self lookup always allowed", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		actor := domain.Actor{ID: id.String(), Role: domain.RoleStaff, Division: "Planning"}
		deps.repo.findByIDFn = func(ctx context.Context, lookupID string) (*directory.User, error) {
			return &directory.User{ID: id, Name: "Jane", Division: "Planning"}, nil
		}

		resp, err := deps.service.GetByID(ctx, actor, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Jane", resp.Name)
	})

	t.Run("negative staff reading someone else", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		actor := domain.Actor{ID: uuid.New().String(), Role: domain.RoleStaff, Division: "Planning"}
		other := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*directory.User, error) {
			return &directory.User{ID: other, Name: "Other", Division: "Planning"}, nil
		}

		_, err := deps.service.GetByID(ctx, actor, other.String())

		assert.ErrorIs(t, err, directoryerrors.ErrNotAuthorized)
	})
}

func TestDirectoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("negative self deletion refused", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		actor := adminActor()

		err := deps.service.Delete(ctx, actor, actor.ID)

		assert.ErrorIs(t, err, directoryerrors.ErrCannotDeleteSelf)
	})

	t.Run("success soft deletes and invalidates options", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		target := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(directory.GetOfficerOptionsKey("Planning")).SetVal(1)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*directory.User, error) {
			return &directory.User{ID: target, Division: "Planning"}, nil
		}
		var deleted bool
		deps.repo.softDeleteFn = func(ctx context.Context, id string) error {
			deleted = true
			assert.Equal(t, target.String(), id)
			return nil
		}

		err := deps.service.Delete(ctx, adminActor(), target.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})
}

func TestDirectoryService_GetOfficerOptions(t *testing.T) {
	ctx := context.Background()
	actor := domain.Actor{ID: uuid.New().String(), Role: domain.RoleStaff, Division: "Planning"}
	cacheKey := directory.GetOfficerOptionsKey("Planning")

	t.Run("cache hit skips the repository", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		cached := []directory.OfficerOption{{ID: uuid.New().String(), Name: "CC", Role: string(domain.RoleDivisionCC), Division: "Planning"}}
		jsonResp, _ := json.Marshal(cached)
		deps.redisMock.ExpectGet(cacheKey).SetVal(string(jsonResp))
		deps.repo.findOfficerOptionsFn = func(ctx context.Context, division string) ([]directory.User, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return nil, nil
		}

		opts, err := deps.service.GetOfficerOptions(ctx, actor)

		assert.NoError(t, err)
		assert.Len(t, opts, 1)
		assert.Equal(t, "CC", opts[0].Name)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		users := []directory.User{{
			ID:       uuid.New(),
			Name:     "Head",
			Role:     string(domain.RoleDivisionalHead),
			Division: "Planning",
		}}
		expected := []directory.OfficerOption{{
			ID:       users[0].ID.String(),
			Name:     "Head",
			Role:     string(domain.RoleDivisionalHead),
			Division: "Planning",
		}}
		jsonData, _ := json.Marshal(expected)

		deps.redisMock.ExpectGet(cacheKey).RedisNil()
		deps.repo.findOfficerOptionsFn = func(ctx context.Context, division string) ([]directory.User, error) {
			assert.Equal(t, "Planning", division)
			return users, nil
		}
		deps.redisMock.ExpectSet(cacheKey, jsonData, time.Hour).SetVal("OK")

		opts, err := deps.service.GetOfficerOptions(ctx, actor)

		assert.NoError(t, err)
		assert.Len(t, opts, 1)
		assert.Equal(t, "Head", opts[0].Name)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("negative actor without division", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetOfficerOptions(ctx, domain.Actor{ID: uuid.New().String(), Role: domain.RoleStaff})

		assert.ErrorIs(t, err, directoryerrors.ErrDivisionRequired)
	})
}
