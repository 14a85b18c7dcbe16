package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/photoevents/photo-api/internal/core/domain"
	"github.com/photoevents/photo-api/internal/core/ports"
	"github.com/photoevents/photo-api/internal/pkg/token"
)

type stubUserRepo struct {
	users      map[string]*domain.User // keyed by id
	seq        int
	addEvents  []string
	addEventFn func(userID, eventID string) error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.EventIDs = append([]string(nil), u.EventIDs...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("%024x", r.seq)
	r.users[c.ID] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) AddEvent(_ context.Context, userID, eventID string) error {
	if r.addEventFn != nil {
		if err := r.addEventFn(userID, eventID); err != nil {
			return err
		}
	}
	r.addEvents = append(r.addEvents, userID+":"+eventID)
	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	for _, id := range u.EventIDs {
		if id == eventID {
			return nil
		}
	}
	u.EventIDs = append(u.EventIDs, eventID)
	return nil
}

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_CreatesPhotographer(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{Email: " Alice@Example.com ", Password: "pass123", Name: "Alice"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RolePhotographer {
		t.Fatalf("expected photographer role, got %s", user.Role)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.RegistrationDate.IsZero() {
		t.Fatalf("expected registration date to be set")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "", Password: "x"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "a@b.c", Password: ""}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass"})
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass2"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	registered, err := svc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tkn, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := token.Parse("secret", tkn)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != registered.ID || claims.Role != domain.RolePhotographer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Hour {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "right"})

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "right"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_Login_ClientForbidden(t *testing.T) {
	repo := newStubUserRepo()
	_, _ = repo.Create(context.Background(), &domain.User{Email: "client@example.com", Role: domain.RoleClient})
	svc := newAuthSvc(repo)

	if _, _, err := svc.Login(context.Background(), "client@example.com", "anything"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	registered, _ := svc.Register(context.Background(), ports.RegisterInput{Email: "erin@example.com", Password: "pw"})

	user, err := svc.Me(context.Background(), registered.ID)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if user.Email != "erin@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Me(context.Background(), "not-an-id"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_EnsureAdmin_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	if err := svc.EnsureAdmin(context.Background(), "root@example.com", "toor"); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), "root@example.com", "toor"); err != nil {
		t.Fatalf("second EnsureAdmin returned error: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(repo.users))
	}

	_, user, err := svc.Login(context.Background(), "root@example.com", "toor")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}
}
