package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSettingTest(t *testing.T) *SettingService {
	t.Helper()
	dsn := fmt.Sprintf("file:setting_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.SystemConfig{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSettingService(repository.NewSystemConfigRepository(db))
}

func TestRateDefaultsToOne(t *testing.T) {
	svc := setupSettingTest(t)
	if got := svc.GetGrowthRate(); got != 1 {
		t.Fatalf("unset growth rate want 1 got %d", got)
	}
	if got := svc.GetPointsRate(); got != 1 {
		t.Fatalf("unset points rate want 1 got %d", got)
	}
}

func TestRateFromConfig(t *testing.T) {
	svc := setupSettingTest(t)
	if _, err := svc.Update(constants.SettingKeyGrowthRate, map[string]interface{}{"rate": 10}); err != nil {
		t.Fatalf("update growth rate failed: %v", err)
	}
	if got := svc.GetGrowthRate(); got != 10 {
		t.Fatalf("growth rate want 10 got %d", got)
	}
	// points_rate 未配置仍回退为 1
	if got := svc.GetPointsRate(); got != 1 {
		t.Fatalf("points rate want 1 got %d", got)
	}
}

func TestRateIgnoresInvalidConfig(t *testing.T) {
	svc := setupSettingTest(t)
	if _, err := svc.Update(constants.SettingKeyPointsRate, map[string]interface{}{"rate": 0}); err != nil {
		t.Fatalf("update points rate failed: %v", err)
	}
	if got := svc.GetPointsRate(); got != 1 {
		t.Fatalf("non-positive rate should fall back to 1, got %d", got)
	}

	if _, err := svc.Update(constants.SettingKeyPointsRate, map[string]interface{}{"rate": "abc"}); err != nil {
		t.Fatalf("update points rate failed: %v", err)
	}
	if got := svc.GetPointsRate(); got != 1 {
		t.Fatalf("invalid rate should fall back to 1, got %d", got)
	}
}

func TestGetByKeyMissing(t *testing.T) {
	svc := setupSettingTest(t)
	value, err := svc.GetByKey("no-such-key")
	if err != nil {
		t.Fatalf("get missing key failed: %v", err)
	}
	if value != nil {
		t.Fatalf("missing key want nil value got %v", value)
	}
}
