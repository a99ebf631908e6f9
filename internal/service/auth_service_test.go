package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/config"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-for-auth-service"
	cfg.JWT.ExpireHours = 24
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func createTestAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string, active bool) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := models.Admin{Username: username, PasswordHash: hash, IsActive: active}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return &admin
}

func TestHashAndVerifyPassword(t *testing.T) {
	svc, _ := setupAuthTest(t)

	hash, err := svc.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := svc.VerifyPassword(hash, "secret123"); err != nil {
		t.Fatalf("verify correct password failed: %v", err)
	}
	if err := svc.VerifyPassword(hash, "wrong"); err == nil {
		t.Fatalf("verify wrong password should fail")
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	svc, _ := setupAuthTest(t)
	admin := &models.Admin{ID: 7, Username: "boss"}

	token, expiresAt, err := svc.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("token should expire in the future")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.AdminID != 7 || claims.Username != "boss" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := svc.ParseJWT(token + "x"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("tampered token want ErrTokenInvalid got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, db := setupAuthTest(t)
	createTestAdmin(t, svc, db, "admin", "admin123", true)

	admin, token, _, err := svc.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("login should return token")
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("login should record last_login_at")
	}

	if _, _, _, err := svc.Login("admin", "bad-pass"); !errors.Is(err, ErrPasswordIncorrect) {
		t.Fatalf("wrong password want ErrPasswordIncorrect got %v", err)
	}
	// 不存在的账号与密码错误返回同一错误，避免账号枚举
	if _, _, _, err := svc.Login("ghost", "admin123"); !errors.Is(err, ErrPasswordIncorrect) {
		t.Fatalf("missing admin want ErrPasswordIncorrect got %v", err)
	}
}

func TestLoginDisabledAdmin(t *testing.T) {
	svc, db := setupAuthTest(t)
	createTestAdmin(t, svc, db, "frozen", "admin123", false)

	if _, _, _, err := svc.Login("frozen", "admin123"); !errors.Is(err, ErrAdminDisabled) {
		t.Fatalf("disabled admin want ErrAdminDisabled got %v", err)
	}
}
