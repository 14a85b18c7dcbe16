package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/photoevents/photo-api/internal/core/domain"
	"github.com/photoevents/photo-api/internal/core/ports"
	"github.com/photoevents/photo-api/internal/pkg/token"
)

const defaultTokenTTL = time.Hour

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a photographer account.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.newUser(email, in.Password, strings.TrimSpace(in.Name), domain.RolePhotographer)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login checks credentials and returns a signed token. Only photographers and
// admins may log in; clients have no password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.CanUpload() {
		return "", nil, domain.ErrForbidden
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tkn, err := token.Issue(s.jwtSecret, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return tkn, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if !domain.ValidID(userID) {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	user, err := s.newUser(email, password, "", domain.RoleAdmin)
	if err != nil {
		return err
	}
	created, err := s.repo.Create(ctx, user)
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("admin account created")
	return nil
}

func (s *AuthService) newUser(email, password, name, role string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		Role:             role,
		RegistrationDate: time.Now().UTC(),
		EventIDs:         []string{},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
