package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/repositories"
	"golang.org/x/crypto/bcrypt"
)

type AdminService interface {
	CreateAdmin(ctx context.Context, email, password string) (*models.User, error)
	// EnsureSuperAdmin seeds the superadmin account on startup when no
	// user with that role exists yet.
	EnsureSuperAdmin(ctx context.Context, email, password string) error
}

type adminService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewAdminService(userRepo repositories.UserRepository, logger *slog.Logger) AdminService {
	return &adminService{userRepo: userRepo, logger: logger}
}

func (s *adminService) CreateAdmin(ctx context.Context, email, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	admin.PasswordHash = ""
	return admin, nil
}

func (s *adminService) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.logger.Warn("superadmin credentials not configured, skipping seed")
		return nil
	}

	exists, err := s.userRepo.ExistsByRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("failed to check for existing superadmin: %w", err)
	}
	if exists {
		s.logger.Info("superadmin already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash superadmin password: %w", err)
	}

	superAdmin := &models.User{
		Name:         "Super Admin",
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleSuperAdmin,
	}

	if err := s.userRepo.Create(ctx, superAdmin); err != nil {
		return fmt.Errorf("failed to seed superadmin: %w", err)
	}

	s.logger.Info("superadmin created", slog.String("email", email))
	return nil
}
