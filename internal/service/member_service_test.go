package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAdminSetGrowthValueUpgradeAndDowngrade(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "normal", 0, decimal.Zero)

	upgraded, err := env.memberSvc.AdminSetGrowthValue(member.ID, 2500)
	if err != nil {
		t.Fatalf("set growth failed: %v", err)
	}
	if upgraded.LevelID != "gold" {
		t.Fatalf("growth=2500 level want gold got %s", upgraded.LevelID)
	}

	// 下调成长值必须触发降级
	downgraded, err := env.memberSvc.AdminSetGrowthValue(member.ID, 600)
	if err != nil {
		t.Fatalf("set growth failed: %v", err)
	}
	if downgraded.LevelID != "silver" {
		t.Fatalf("growth=600 level want silver got %s", downgraded.LevelID)
	}

	base, err := env.memberSvc.AdminSetGrowthValue(member.ID, 0)
	if err != nil {
		t.Fatalf("set growth failed: %v", err)
	}
	if base.LevelID != "normal" {
		t.Fatalf("growth=0 level want normal got %s", base.LevelID)
	}
}

func TestAdminSetGrowthValueValidation(t *testing.T) {
	env := setupOrderTest(t)

	if _, err := env.memberSvc.AdminSetGrowthValue(1, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative growth want ErrInvalidInput got %v", err)
	}
	if _, err := env.memberSvc.AdminSetGrowthValue(9999, 100); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("missing member want ErrMemberNotFound got %v", err)
	}
}

func TestGetMemberDetailIncludesLevel(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "silver", 600, decimal.NewFromInt(50))

	detail, err := env.memberSvc.GetMember(member.ID)
	if err != nil {
		t.Fatalf("get member failed: %v", err)
	}
	if detail.Level == nil || detail.Level.LevelID != "silver" {
		t.Fatalf("detail should carry silver level, got %+v", detail.Level)
	}
	if !detail.Member.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("detail balance want 50 got %s", detail.Member.Balance)
	}
}

func TestGetMemberMissing(t *testing.T) {
	env := setupOrderTest(t)
	if _, err := env.memberSvc.GetMember(9999); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("missing member want ErrMemberNotFound got %v", err)
	}
}
