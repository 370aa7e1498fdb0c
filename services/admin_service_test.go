package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hybee22/football-fixture-api/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateAdminAssignsAdminRole(t *testing.T) {
	var created *models.User
	repo := &fakeUserRepo{
		create: func(ctx context.Context, user *models.User) error {
			user.ID = 5
			created = user
			return nil
		},
	}

	svc := NewAdminService(repo, discardLogger())

	admin, err := svc.CreateAdmin(context.Background(), "admin@example.com", "supersecret")
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.Empty(t, admin.PasswordHash)
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	svc := NewAdminService(&fakeUserRepo{}, discardLogger())

	_, err := svc.CreateAdmin(context.Background(), "admin@example.com", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestEnsureSuperAdminSeedsWhenMissing(t *testing.T) {
	var created *models.User
	repo := &fakeUserRepo{
		existsByRole: func(ctx context.Context, role models.UserRole) (bool, error) {
			assert.Equal(t, models.RoleSuperAdmin, role)
			return false, nil
		},
		create: func(ctx context.Context, user *models.User) error {
			created = user
			return nil
		},
	}

	svc := NewAdminService(repo, discardLogger())

	require.NoError(t, svc.EnsureSuperAdmin(context.Background(), "root@example.com", "supersecret"))
	require.NotNil(t, created)
	assert.Equal(t, models.RoleSuperAdmin, created.Role)
	assert.Equal(t, "root@example.com", created.Email)
}

func TestEnsureSuperAdminSkipsWhenPresent(t *testing.T) {
	repo := &fakeUserRepo{
		existsByRole: func(ctx context.Context, role models.UserRole) (bool, error) {
			return true, nil
		},
		create: func(ctx context.Context, user *models.User) error {
			t.Fatal("no superadmin should be created when one exists")
			return nil
		},
	}

	svc := NewAdminService(repo, discardLogger())
	assert.NoError(t, svc.EnsureSuperAdmin(context.Background(), "root@example.com", "supersecret"))
}

func TestEnsureSuperAdminSkipsWithoutCredentials(t *testing.T) {
	repo := &fakeUserRepo{
		existsByRole: func(ctx context.Context, role models.UserRole) (bool, error) {
			t.Fatal("no lookup expected when credentials are absent")
			return false, nil
		},
	}

	svc := NewAdminService(repo, discardLogger())
	assert.NoError(t, svc.EnsureSuperAdmin(context.Background(), "", ""))
}
