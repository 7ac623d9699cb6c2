package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/internal/models"
	"github.com/codecritic/codecritic/internal/utils"
	"github.com/codecritic/codecritic/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.Review{}, &models.SystemLog{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", ExpireMinutes: 60}
}

func validSignup() *SignupRequest {
	return &SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Contact:  "555-0100",
	}
}

func TestSignup_CreatesAccount(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTConfig())

	account, err := svc.Signup(validSignup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if account.ID == 0 {
		t.Error("expected a persisted account ID")
	}
	if account.Password == "s3cret-pass" {
		t.Error("password stored in plaintext")
	}
	if !utils.CheckPassword("s3cret-pass", account.Password) {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTConfig())

	if _, err := svc.Signup(validSignup()); err != nil {
		t.Fatalf("first Signup: %v", err)
	}

	second := validSignup()
	second.Contact = "555-0199"
	_, err := svc.Signup(second)

	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.HTTPStatus != 400 || appErr.Message != "Email already registered" {
		t.Errorf("got status %d message %q", appErr.HTTPStatus, appErr.Message)
	}
}

func TestSignup_DuplicateContact(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTConfig())

	if _, err := svc.Signup(validSignup()); err != nil {
		t.Fatalf("first Signup: %v", err)
	}

	second := validSignup()
	second.Email = "bob@example.com"
	_, err := svc.Signup(second)

	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Message != "Contact already registered" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestSignup_PasswordTooLong(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTConfig())

	req := validSignup()
	req.Password = strings.Repeat("a", 73)
	_, err := svc.Signup(req)

	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.HTTPStatus != 400 || appErr.Message != "Password too long, max 72 bytes" {
		t.Errorf("got status %d message %q", appErr.HTTPStatus, appErr.Message)
	}

	var count int64
	svc.db.Model(&models.Account{}).Count(&count)
	if count != 0 {
		t.Errorf("no account should be created, found %d", count)
	}
}

func TestLogin_IssuesTokenBoundToEmail(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	svc := NewAuthService(setupTestDB(t), testJWTConfig())

	if _, err := svc.Signup(validSignup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	token, err := svc.Login("alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("token subject = %q, expected the account email", claims.Subject)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTConfig())

	if _, err := svc.Signup(validSignup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, err := svc.Login("alice@example.com", "wrong")

	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.HTTPStatus != 401 || appErr.Message != "Invalid credentials" {
		t.Errorf("got status %d message %q", appErr.HTTPStatus, appErr.Message)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testJWTConfig())

	_, err := svc.Login("nobody@example.com", "whatever")

	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Message != "Invalid credentials" {
		t.Errorf("unknown email must look like a bad password, got %q", appErr.Message)
	}
}
