package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupLedgerTest(t *testing.T) (*LedgerService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:ledger_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Member{}, &models.BalanceRecord{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	memberRepo := repository.NewMemberRepository(db)
	recordRepo := repository.NewBalanceRecordRepository(db)
	return NewLedgerService(memberRepo, recordRepo), db
}

func createLedgerMember(t *testing.T, db *gorm.DB, balance decimal.Decimal) *models.Member {
	t.Helper()
	member := models.Member{
		OpenID:   fmt.Sprintf("oLedger%d", time.Now().UnixNano()),
		MemberNo: fmt.Sprintf("M%d", time.Now().UnixNano()),
		LevelID:  "normal",
		Balance:  models.NewMoneyFromDecimal(balance),
		IsActive: true,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	return &member
}

func TestLedgerAppendRecharge(t *testing.T) {
	svc, db := setupLedgerTest(t)
	member := createLedgerMember(t, db, decimal.NewFromInt(10))

	record, err := svc.Append(LedgerAppendInput{
		MemberID:   member.ID,
		Kind:       constants.BalanceKindRecharge,
		Amount:     models.NewMoneyFromDecimal(decimal.NewFromFloat(100.50)),
		SourceType: constants.BalanceSourceRecharge,
	})
	if err != nil {
		t.Fatalf("append recharge failed: %v", err)
	}
	if !record.BalanceBefore.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("balance_before want 10 got %s", record.BalanceBefore)
	}
	if !record.BalanceAfter.Equal(decimal.NewFromFloat(110.50)) {
		t.Fatalf("balance_after want 110.50 got %s", record.BalanceAfter)
	}
	if !record.BalanceAfter.Equal(record.BalanceBefore.Add(record.Amount.Decimal)) {
		t.Fatalf("balance_after must equal balance_before + amount")
	}

	var stored models.Member
	if err := db.First(&stored, member.ID).Error; err != nil {
		t.Fatalf("reload member failed: %v", err)
	}
	if !stored.Balance.Equal(record.BalanceAfter.Decimal) {
		t.Fatalf("member balance want %s got %s", record.BalanceAfter, stored.Balance)
	}
}

func TestLedgerConsumeOverdraftRejected(t *testing.T) {
	svc, db := setupLedgerTest(t)
	member := createLedgerMember(t, db, decimal.NewFromInt(5))

	_, err := svc.Append(LedgerAppendInput{
		MemberID:   member.ID,
		Kind:       constants.BalanceKindConsume,
		Amount:     models.NewMoneyFromDecimal(decimal.NewFromInt(-6)),
		SourceType: constants.BalanceSourceOrder,
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overdraft consume want ErrInsufficientBalance got %v", err)
	}

	// 拒绝后不留任何流水
	var count int64
	db.Model(&models.BalanceRecord{}).Where("member_id = ?", member.ID).Count(&count)
	if count != 0 {
		t.Fatalf("rejected append should leave no record, got %d", count)
	}
	var stored models.Member
	db.First(&stored, member.ID)
	if !stored.Balance.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("member balance should be unchanged, got %s", stored.Balance)
	}
}

func TestLedgerAdjustAllowsNegativeBalance(t *testing.T) {
	svc, db := setupLedgerTest(t)
	member := createLedgerMember(t, db, decimal.NewFromInt(3))

	record, err := svc.Append(LedgerAppendInput{
		MemberID:   member.ID,
		Kind:       constants.BalanceKindAdjust,
		Amount:     models.NewMoneyFromDecimal(decimal.NewFromInt(-10)),
		SourceType: constants.BalanceSourceAdmin,
	})
	if err != nil {
		t.Fatalf("adjust below zero should succeed, got %v", err)
	}
	if !record.BalanceAfter.Equal(decimal.NewFromInt(-7)) {
		t.Fatalf("balance_after want -7 got %s", record.BalanceAfter)
	}
}

func TestLedgerRefundExemptFromGuard(t *testing.T) {
	svc, db := setupLedgerTest(t)
	member := createLedgerMember(t, db, decimal.NewFromInt(-2))

	// 余额已为负时退款入账依然可写
	record, err := svc.Append(LedgerAppendInput{
		MemberID:   member.ID,
		Kind:       constants.BalanceKindRefund,
		Amount:     models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
		SourceType: constants.BalanceSourceOrder,
	})
	if err != nil {
		t.Fatalf("refund append failed: %v", err)
	}
	if !record.BalanceAfter.Equal(decimal.NewFromInt(-1)) {
		t.Fatalf("balance_after want -1 got %s", record.BalanceAfter)
	}
}

func TestLedgerAppendValidation(t *testing.T) {
	svc, db := setupLedgerTest(t)
	member := createLedgerMember(t, db, decimal.NewFromInt(1))

	if _, err := svc.Append(LedgerAppendInput{
		MemberID: member.ID,
		Kind:     "bonus",
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown kind want ErrInvalidInput got %v", err)
	}

	if _, err := svc.Append(LedgerAppendInput{
		MemberID: member.ID,
		Kind:     constants.BalanceKindRecharge,
		Amount:   models.Money{},
	}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount want ErrInvalidAmount got %v", err)
	}

	if _, err := svc.Append(LedgerAppendInput{
		MemberID: 9999,
		Kind:     constants.BalanceKindRecharge,
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
	}); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("missing member want ErrMemberNotFound got %v", err)
	}
}

func TestLedgerReplayMatchesBalance(t *testing.T) {
	svc, db := setupLedgerTest(t)
	member := createLedgerMember(t, db, decimal.Zero)

	steps := []LedgerAppendInput{
		{MemberID: member.ID, Kind: constants.BalanceKindRecharge, Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)), SourceType: constants.BalanceSourceRecharge},
		{MemberID: member.ID, Kind: constants.BalanceKindConsume, Amount: models.NewMoneyFromDecimal(decimal.NewFromFloat(-33.30)), SourceType: constants.BalanceSourceOrder},
		{MemberID: member.ID, Kind: constants.BalanceKindRefund, Amount: models.NewMoneyFromDecimal(decimal.NewFromFloat(33.30)), SourceType: constants.BalanceSourceOrder},
		{MemberID: member.ID, Kind: constants.BalanceKindAdjust, Amount: models.NewMoneyFromDecimal(decimal.NewFromFloat(-0.99)), SourceType: constants.BalanceSourceAdmin},
	}
	for i, step := range steps {
		if _, err := svc.Append(step); err != nil {
			t.Fatalf("append step %d failed: %v", i, err)
		}
	}

	replayed, err := svc.ReplayBalance(member.ID)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	var stored models.Member
	if err := db.First(&stored, member.ID).Error; err != nil {
		t.Fatalf("reload member failed: %v", err)
	}
	if !stored.Balance.Equal(replayed.Decimal) {
		t.Fatalf("replayed balance %s must equal stored balance %s", replayed, stored.Balance)
	}
	if !replayed.Equal(decimal.NewFromFloat(99.01)) {
		t.Fatalf("replayed balance want 99.01 got %s", replayed)
	}
}
