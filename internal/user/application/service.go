package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notiflow/notiflow/internal/user/domain"
	"github.com/notiflow/notiflow/pkg/notify"
)

const table = "users"

type Service struct {
	log      *slog.Logger
	repo     UserRepository
	notifier notify.Publisher
	now      func() time.Time
}

func NewService(log *slog.Logger, repo UserRepository, notifier notify.Publisher) *Service {
	return &Service{log: log, repo: repo, notifier: notifier, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

type CreateInput struct {
	Email    string
	Name     string
	Role     domain.Role
	Password string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.User, error) {
	if !domain.ValidRole(in.Role) {
		return domain.User{}, domain.ErrUnknownRole
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	u := domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         in.Name,
		Role:         in.Role,
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	s.publish(ctx)
	return u, nil
}

type UpdateInput struct {
	Name     *string
	Role     *domain.Role
	IsActive *bool
	Password *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (domain.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Role != nil {
		if !domain.ValidRole(*in.Role) {
			return domain.User{}, domain.ErrUnknownRole
		}
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hash, err := domain.HashPassword(*in.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	s.publish(ctx)
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Authenticate verifies credentials for an active account. Deactivated users
// fail with the same error as a bad password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !u.IsActive {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err := u.CheckPassword(password); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) publish(ctx context.Context) {
	if err := s.notifier.Publish(ctx, table); err != nil {
		s.log.Error("change notification failed", "table", table, "err", err)
	}
}
