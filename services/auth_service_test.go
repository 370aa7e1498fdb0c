package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/repositories"
)

type fakeUserRepo struct {
	create       func(ctx context.Context, user *models.User) error
	getByEmail   func(ctx context.Context, email string) (*models.User, error)
	existsByRole func(ctx context.Context, role models.UserRole) (bool, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.create == nil {
		user.ID = 1
		return nil
	}
	return f.create(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmail == nil {
		return nil, repositories.ErrUserNotFound
	}
	return f.getByEmail(ctx, email)
}

func (f *fakeUserRepo) ExistsByRole(ctx context.Context, role models.UserRole) (bool, error) {
	if f.existsByRole == nil {
		return false, nil
	}
	return f.existsByRole(ctx, role)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	var created *models.User
	repo := &fakeUserRepo{
		create: func(ctx context.Context, user *models.User) error {
			user.ID = 42
			created = user
			return nil
		},
	}

	svc := NewAuthService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "  Ada@Example.COM ",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.Equal(t, 42, user.ID)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.NotEqual(t, "supersecret", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("supersecret")))
}

func TestRegisterMapsEmailConflict(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(ctx context.Context, user *models.User) error {
			return repositories.ErrUserEmailConflict
		},
	}

	svc := NewAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestLoginSucceedsAndClearsHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{
		getByEmail: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "ada@example.com", email)
			return &models.User{ID: 7, Email: email, PasswordHash: string(hash), Role: models.RoleAdmin}, nil
		},
	}

	svc := NewAuthService(repo)

	user, err := svc.Login(context.Background(), LoginInput{Email: "Ada@Example.com", Password: "supersecret"})
	require.NoError(t, err)

	assert.Equal(t, 7, user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Empty(t, user.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{
		getByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 7, Email: email, PasswordHash: string(hash)}, nil
		},
	}

	svc := NewAuthService(repo)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}
