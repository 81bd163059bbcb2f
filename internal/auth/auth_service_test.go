package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"staffdesk/internal/auth"
	autherrors "staffdesk/internal/auth/errors"
	"staffdesk/internal/directory"
	"staffdesk/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	findByEmailFn func(ctx context.Context, email string) (*directory.User, error)
	findByIDFn    func(ctx context.Context, id string) (*directory.User, error)
	createFn      func(ctx context.Context, u *directory.User) error
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) directory.Repository { return f }

func (f *fakeUserRepository) Create(ctx context.Context, u *directory.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*directory.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*directory.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeUserRepository) FindAll(ctx context.Context) ([]directory.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) FindByDivision(ctx context.Context, division string) ([]directory.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) FindByRole(ctx context.Context, role string) ([]directory.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *directory.User) error { return nil }

func (f *fakeUserRepository) SoftDelete(ctx context.Context, id string) error { return nil }

func (f *fakeUserRepository) FindOfficerOptions(ctx context.Context, division string) ([]directory.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) DivisionExists(ctx context.Context, name string) (bool, error) {
	return true, nil
}

func hashedUser(t *testing.T, password string) *directory.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &directory.User{
		ID:           uuid.New(),
		Name:         "Jane Doe",
		Email:        "jane@example.org",
		PasswordHash: string(hash),
		Role:         string(domain.RoleStaff),
		StaffType:    string(domain.StaffTypeOffice),
		Division:     "Planning",
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success issues both tokens with identity claims", func(t *testing.T) {
		repo := &fakeUserRepository{}
		user := hashedUser(t, "s3cret-pass")
		repo.findByEmailFn = func(ctx context.Context, email string) (*directory.User, error) {
			assert.Equal(t, "jane@example.org", email)
			return user, nil
		}
		svc := auth.NewService(repo)

		access, refresh, resp, err := svc.Login(ctx, "jane@example.org", "s3cret-pass")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.ID.String(), resp.ID)

		token, err := jwt.Parse(access, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, string(domain.RoleStaff), claims["role"])
		assert.Equal(t, "Planning", claims["division"])
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeUserRepository{}
		user := hashedUser(t, "s3cret-pass")
		repo.findByEmailFn = func(ctx context.Context, email string) (*directory.User, error) {
			return user, nil
		}
		svc := auth.NewService(repo)

		_, _, _, err := svc.Login(ctx, "jane@example.org", "wrong-pass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{})

		_, _, _, err := svc.Login(ctx, "nobody@example.org", "whatever")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success reissues tokens with the current role", func(t *testing.T) {
		repo := &fakeUserRepository{}
		user := hashedUser(t, "s3cret-pass")
		repo.findByEmailFn = func(ctx context.Context, email string) (*directory.User, error) {
			return user, nil
		}
		svc := auth.NewService(repo)

		_, refresh, _, err := svc.Login(ctx, "jane@example.org", "s3cret-pass")
		assert.NoError(t, err)

		// Promotion between token issuance and refresh must show up in the
		// refreshed identity.
		promoted := *user
		promoted.Role = string(domain.RoleDivisionCC)
		repo.findByIDFn = func(ctx context.Context, id string) (*directory.User, error) {
			assert.Equal(t, user.ID.String(), id)
			return &promoted, nil
		}

		newAccess, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, string(domain.RoleDivisionCC), resp.Role)
	})

	t.Run("negative malformed token", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{})

		_, _, _, err := svc.RefreshToken(ctx, "not-a-token")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success provisions a plain staff account", func(t *testing.T) {
		repo := &fakeUserRepository{}
		var created *directory.User
		repo.createFn = func(ctx context.Context, u *directory.User) error {
			created = u
			return nil
		}
		svc := auth.NewService(repo)

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Jane Doe",
			Email:    "Jane@Example.org",
			Password: "s3cret-pass",
			Division: "Planning",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, "jane@example.org", created.Email)
		assert.Equal(t, string(domain.RoleStaff), created.Role)
		assert.Equal(t, string(domain.StaffTypeOffice), created.StaffType)
		assert.Equal(t, string(domain.RoleStaff), resp.Role)
	})

	t.Run("negative email already registered", func(t *testing.T) {
		repo := &fakeUserRepository{}
		repo.findByEmailFn = func(ctx context.Context, email string) (*directory.User, error) {
			return hashedUser(t, "s3cret-pass"), nil
		}
		svc := auth.NewService(repo)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.org",
			Password: "s3cret-pass",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("negative malformed user id", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{})

		_, err := svc.GetMe(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("success returns the stored identity", func(t *testing.T) {
		repo := &fakeUserRepository{}
		user := hashedUser(t, "s3cret-pass")
		repo.findByIDFn = func(ctx context.Context, id string) (*directory.User, error) {
			return user, nil
		}
		svc := auth.NewService(repo)

		resp, err := svc.GetMe(ctx, user.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, user.Email, resp.Email)
	})
}
