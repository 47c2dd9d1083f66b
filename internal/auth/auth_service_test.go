package auth

import (
	"context"
	"errors"
	"testing"

	autherrors "cafedesk/internal/auth/errors"
	"cafedesk/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	createFn         func(ctx context.Context, user *User) error
	findByUsernameFn func(ctx context.Context, username string) (*User, error)
	findByIDFn       func(ctx context.Context, id string) (*User, error)
	countUsersFn     func(ctx context.Context) (int64, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *User) error { return f.createFn(ctx, user) }
func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	return f.findByUsernameFn(ctx, username)
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeUserRepo) CountUsers(ctx context.Context) (int64, error) { return f.countUsersFn(ctx) }

func hashedUser(t *testing.T, username, password, role string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &User{ID: uuid.New(), Username: username, PasswordHash: string(hash), Role: role}
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := hashedUser(t, "chu.quan", "mat-khau-123", rbac.RoleManager)
	repo := &fakeUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc := NewService(repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "chu.quan", Password: "mat-khau-123"})
	assert.NoError(t, err)
	assert.Equal(t, rbac.RoleManager, resp.Role)

	token, err := jwt.Parse(resp.AccessToken, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, rbac.RoleManager, claims["role"])
}

func TestService_Login_WrongPassword(t *testing.T) {
	user := hashedUser(t, "chu.quan", "mat-khau-123", rbac.RoleStaff)
	repo := &fakeUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc := NewService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "chu.quan", Password: "sai"})
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	repo := &fakeUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(repo)

	// Unknown username and wrong password are indistinguishable.
	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Register_DuplicateUsername(t *testing.T) {
	repo := &fakeUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			return errors.New(`ERROR: duplicate key value violates unique constraint "uq_user_username"`)
		},
	}

	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterUserRequest{
		Username: "chu.quan",
		Password: "mat-khau-123",
		Role:     rbac.RoleStaff,
	})
	assert.ErrorIs(t, err, autherrors.ErrUsernameTaken)
}

func TestService_EnsureAdmin_BootstrapsOnEmptyTable(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "doi-mat-khau-ngay")

	var created *User
	repo := &fakeUserRepo{
		countUsersFn: func(ctx context.Context) (int64, error) { return 0, nil },
		createFn:     func(ctx context.Context, user *User) error { created = user; return nil },
	}

	svc := NewService(repo)

	assert.NoError(t, svc.EnsureAdmin(context.Background()))
	assert.NotNil(t, created)
	assert.Equal(t, "admin", created.Username)
	assert.Equal(t, rbac.RoleAdmin, created.Role)
}

func TestService_EnsureAdmin_SkipsWhenUsersExist(t *testing.T) {
	repo := &fakeUserRepo{
		countUsersFn: func(ctx context.Context) (int64, error) { return 3, nil },
		createFn: func(ctx context.Context, user *User) error {
			t.Fatal("no user should be created when the table is not empty")
			return nil
		},
	}

	svc := NewService(repo)
	assert.NoError(t, svc.EnsureAdmin(context.Background()))
}
