package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"campuseats/internal/domain"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*domain.User{}, byID: map[string]*domain.User{}}
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, domain.ErrConflict
	}
	u.ID = "user-" + u.Email
	u.CreatedAt = time.Now()
	s.byEmail[u.Email] = &u
	s.byID[u.ID] = &u
	return &u, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func TestSignupAndLogin(t *testing.T) {
	svc := New(newStubUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{
		Email:     "Juan@Example.com",
		Password:  "Password1",
		FirstName: "Juan",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if created.Email != "juan@example.com" {
		t.Fatalf("expected lowercased email, got %s", created.Email)
	}
	if created.Role != domain.RoleCustomer {
		t.Fatalf("expected default customer role, got %s", created.Role)
	}
	if created.PasswordHash == "Password1" {
		t.Fatalf("password must be hashed")
	}

	u, token, err := svc.Login(ctx, "juan@example.com", "Password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != created.ID || token == "" {
		t.Fatalf("unexpected login result")
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != created.ID || claims.Email != "juan@example.com" || claims.Role != domain.RoleCustomer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	svc := New(newStubUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	weak := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, pw := range weak {
		if _, err := svc.Signup(ctx, SignupInput{Email: "a@b.c", Password: pw}); err == nil {
			t.Fatalf("expected password %q rejected", pw)
		}
	}
}

func TestSignupRejectsAdminRole(t *testing.T) {
	svc := New(newStubUserRepo(), "test-secret", time.Hour)
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: "Password1", Role: domain.RoleAdmin}); err == nil {
		t.Fatalf("signup must not create admins")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := New(newStubUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	in := SignupInput{Email: "a@b.c", Password: "Password1"}
	if _, err := svc.Signup(ctx, in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, in); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := New(newStubUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "a@b.c", Password: "Password1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@b.c", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "missing@b.c", "Password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	svc := New(newStubUserRepo(), "test-secret", time.Hour)
	other := New(newStubUserRepo(), "other-secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "a@b.c", Password: "Password1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, token, err := svc.Login(ctx, "a@b.c", "Password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
	if _, err := svc.ParseToken(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := New(newStubUserRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "a@b.c", Password: "Password1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	svc.accessTTL = -time.Minute
	_, token, err := svc.Login(ctx, "a@b.c", "Password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}
