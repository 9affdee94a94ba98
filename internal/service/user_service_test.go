package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/finance-dashboard/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceFixture() (*UserService, *mockUserRepo) {
	userRepo := newMockUserRepo()
	tokens := auth.NewTokenIssuer("test-secret", 30*time.Minute)
	service := NewUserService(userRepo, tokens, bcrypt.MinCost, testLogger())
	return service, userRepo
}

func TestUserService_Register(t *testing.T) {
	service, _ := newUserServiceFixture()

	user, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if user.CurrencyPreference != "USD" {
		t.Errorf("expected default currency USD, got %s", user.CurrencyPreference)
	}
	if user.HashedPassword == "correct horse" {
		t.Error("password must be stored hashed")
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	service, _ := newUserServiceFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"short username", RegisterInput{Username: "ab", Password: "long enough"}},
		{"long username", RegisterInput{Username: strings.Repeat("a", 51), Password: "long enough"}},
		{"short password", RegisterInput{Username: "alice", Password: "short"}},
	}
	for _, tc := range cases {
		if _, err := service.Register(ctx, tc.input); serviceErrorCode(err) != "INVALID_INPUT" {
			t.Errorf("%s: expected INVALID_INPUT, got %v", tc.name, err)
		}
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	service, _ := newUserServiceFixture()
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correct horse"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "another pass"})
	if serviceErrorCode(err) != "REGISTRATION_FAILED" {
		t.Errorf("expected generic REGISTRATION_FAILED on duplicate, got %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	service, _ := newUserServiceFixture()
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correct horse"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, err := service.Login(ctx, LoginInput{Username: "alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token.AccessToken == "" {
		t.Error("expected an access token")
	}
	if token.TokenType != "bearer" {
		t.Errorf("expected token type bearer, got %s", token.TokenType)
	}
}

func TestUserService_Login_Failures(t *testing.T) {
	service, _ := newUserServiceFixture()
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correct horse"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Wrong password and unknown user collapse into the same failure
	_, wrongPass := service.Login(ctx, LoginInput{Username: "alice", Password: "wrong"})
	_, unknownUser := service.Login(ctx, LoginInput{Username: "nobody", Password: "whatever"})

	if serviceErrorCode(wrongPass) != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS for wrong password, got %v", wrongPass)
	}
	if serviceErrorCode(unknownUser) != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS for unknown user, got %v", unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Error("login failures must be indistinguishable")
	}
}

func TestUserService_TokenRoundTrip(t *testing.T) {
	service, _ := newUserServiceFixture()
	ctx := context.Background()

	user, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token, err := service.Login(ctx, LoginInput{Username: "alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	issuer := auth.NewTokenIssuer("test-secret", 30*time.Minute)
	subject, err := issuer.Validate(token.AccessToken)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if subject != user.ID {
		t.Errorf("expected subject %s, got %s", user.ID, subject)
	}
}
