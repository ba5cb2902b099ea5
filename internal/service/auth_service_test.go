package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(users *memUserRepo, clients *memClientRepo, trainers *memTrainerRepo) AuthService {
	return NewAuthService(users, clients, trainers, "test-secret", time.Hour, bcrypt.MinCost, time.Hour)
}

func TestRegisterClientCreatesProfileAndSession(t *testing.T) {
	users := newMemUserRepo()
	clients := newMemClientRepo()
	trainers := newMemTrainerRepo()
	svc := newTestAuthService(users, clients, trainers)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "maria",
		Email:    "maria@example.com",
		Password: "s3cret",
		RoleName: "client",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in returned user")
	}
	if !user.IsClient() {
		t.Errorf("expected client scope, got %v", user.Role.Scopes)
	}

	if _, err := clients.GetByUserID(context.Background(), user.ID); err != nil {
		t.Errorf("client profile was not created: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("claims carry user id %q, want %q", claims.UserID, user.ID.Hex())
	}
}

func TestRegisterTrainerCannotLoginUntilValidated(t *testing.T) {
	users := newMemUserRepo()
	clients := newMemClientRepo()
	trainers := newMemTrainerRepo()
	svc := newTestAuthService(users, clients, trainers)

	user, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "coach",
		Email:    "coach@example.com",
		Password: "s3cret",
		RoleName: "trainer",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(user.Role.Scopes) != 0 {
		t.Errorf("trainer should start with no scopes, got %v", user.Role.Scopes)
	}
	if _, err := trainers.GetByUserID(context.Background(), user.ID); err != nil {
		t.Errorf("trainer profile was not created: %v", err)
	}

	_, _, err = svc.Login(context.Background(), "coach@example.com", "s3cret")
	if !IsKind(err, KindInvalidCredentials) {
		t.Errorf("login before validation: got %v, want invalid_credentials", err)
	}
}

func TestRegisterRejectsDuplicateAndMissingFields(t *testing.T) {
	users := newMemUserRepo()
	svc := newTestAuthService(users, newMemClientRepo(), newMemTrainerRepo())

	input := RegisterInput{Name: "maria", Email: "maria@example.com", Password: "pw", RoleName: "client"}
	if _, _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, _, err := svc.Register(context.Background(), input)
	if !IsKind(err, KindDuplicate) {
		t.Errorf("duplicate register: got %v, want duplicate", err)
	}

	_, _, err = svc.Register(context.Background(), RegisterInput{RoleName: "wizard"})
	if !IsKind(err, KindValidation) {
		t.Fatalf("empty register: got %v, want validation", err)
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatal("expected a service error")
	}
	for _, field := range []string{"name", "email", "password", "role"} {
		if se.Fields[field] == "" {
			t.Errorf("missing validation detail for %q", field)
		}
	}
}

func TestLoginByEmailOrName(t *testing.T) {
	svc := newTestAuthService(newMemUserRepo(), newMemClientRepo(), newMemTrainerRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{
		Name: "maria", Email: "maria@example.com", Password: "s3cret", RoleName: "client",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, identifier := range []string{"maria@example.com", "maria"} {
		token, user, err := svc.Login(ctx, identifier, "s3cret")
		if err != nil {
			t.Fatalf("Login(%q) failed: %v", identifier, err)
		}
		if token == "" || user == nil {
			t.Fatalf("Login(%q) returned empty session", identifier)
		}
	}
}

func TestLoginDoesNotDistinguishFailures(t *testing.T) {
	svc := newTestAuthService(newMemUserRepo(), newMemClientRepo(), newMemTrainerRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{
		Name: "maria", Email: "maria@example.com", Password: "s3cret", RoleName: "client",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, _, wrongPassword := svc.Login(ctx, "maria@example.com", "nope")
	_, _, unknownUser := svc.Login(ctx, "ghost@example.com", "nope")

	if !IsKind(wrongPassword, KindInvalidCredentials) || !IsKind(unknownUser, KindInvalidCredentials) {
		t.Fatalf("got %v / %v, want invalid_credentials for both", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestVerifyTokenRejectsExpiredAndTampered(t *testing.T) {
	users := newMemUserRepo()
	clients := newMemClientRepo()
	trainers := newMemTrainerRepo()
	svc := newTestAuthService(users, clients, trainers)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name: "maria", Email: "maria@example.com", Password: "pw", RoleName: "client",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.VerifyToken(token + "x"); !IsKind(err, KindUnauthorized) {
		t.Errorf("tampered token: got %v, want unauthorized", err)
	}

	// A service with a nanosecond lifetime issues tokens that are already
	// expired by the time they are verified.
	shortLived := NewAuthService(users, clients, trainers, "test-secret", time.Nanosecond, bcrypt.MinCost, time.Hour)
	stored, err := users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	expired, _, err := shortLived.IssueToken(stored)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := shortLived.VerifyToken(expired); !IsKind(err, KindUnauthorized) {
		t.Errorf("expired token: got %v, want unauthorized", err)
	}
}

func TestQRLoginRoundTrip(t *testing.T) {
	svc := newTestAuthService(newMemUserRepo(), newMemClientRepo(), newMemTrainerRepo())
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{
		Name: "maria", Email: "maria@example.com", Password: "pw", RoleName: "client",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	payload, err := svc.GenerateQRLogin(ctx, user.ID.Hex())
	if err != nil {
		t.Fatalf("GenerateQRLogin failed: %v", err)
	}

	token, redeemed, err := svc.RedeemQRLogin(ctx, payload)
	if err != nil {
		t.Fatalf("RedeemQRLogin failed: %v", err)
	}
	if token == "" || redeemed.ID != user.ID {
		t.Fatalf("redeemed session does not match user %s", user.ID.Hex())
	}
}

func TestQRLoginRejectsExpiredAndMalformed(t *testing.T) {
	users := newMemUserRepo()
	clients := newMemClientRepo()
	trainers := newMemTrainerRepo()
	ctx := context.Background()

	svc := newTestAuthService(users, clients, trainers)
	user, _, err := svc.Register(ctx, RegisterInput{
		Name: "maria", Email: "maria@example.com", Password: "pw", RoleName: "client",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	shortLived := NewAuthService(users, clients, trainers, "test-secret", time.Hour, bcrypt.MinCost, time.Nanosecond)
	payload, err := shortLived.GenerateQRLogin(ctx, user.ID.Hex())
	if err != nil {
		t.Fatalf("GenerateQRLogin failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, _, err := shortLived.RedeemQRLogin(ctx, payload); !IsKind(err, KindExpired) {
		t.Errorf("stale payload: got %v, want expired", err)
	}

	if _, _, err := svc.RedeemQRLogin(ctx, "not-a-jwt"); !IsKind(err, KindValidation) {
		t.Errorf("malformed payload: got %v, want validation", err)
	}

	// A session token is a valid JWT but not a QR payload.
	sessionToken, _, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if _, _, err := svc.RedeemQRLogin(ctx, sessionToken); !IsKind(err, KindValidation) {
		t.Errorf("wrong payload type: got %v, want validation", err)
	}
}
