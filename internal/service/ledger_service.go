package service

import (
	"strings"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService 余额流水服务
// members.balance 的唯一写入口，每次变动同事务追加一条不可变流水。
type LedgerService struct {
	memberRepo repository.MemberRepository
	recordRepo repository.BalanceRecordRepository
}

// LedgerAppendInput 余额变动输入
type LedgerAppendInput struct {
	MemberID    uint
	Kind        string
	Amount      models.Money
	SourceType  string
	SourceID    *uint
	Description string
}

// NewLedgerService 创建余额流水服务
func NewLedgerService(
	memberRepo repository.MemberRepository,
	recordRepo repository.BalanceRecordRepository,
) *LedgerService {
	return &LedgerService{
		memberRepo: memberRepo,
		recordRepo: recordRepo,
	}
}

// Append 在独立事务内追加余额变动
func (s *LedgerService) Append(input LedgerAppendInput) (*models.BalanceRecord, error) {
	var record *models.BalanceRecord
	if err := s.memberRepo.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.AppendInTx(tx, input)
		return err
	}); err != nil {
		return nil, err
	}
	return record, nil
}

// AppendInTx 在调用方事务内追加余额变动
// 锁定会员行 → balance_after = balance_before + amount → 校验非负 → 写流水 → 改余额。
// adjust 与 refund 不受非负约束拦截（管理员修正与退款必须能落账）。
func (s *LedgerService) AppendInTx(tx *gorm.DB, input LedgerAppendInput) (*models.BalanceRecord, error) {
	if tx == nil {
		return nil, ErrBalanceWriteFailed
	}
	if input.MemberID == 0 {
		return nil, ErrMemberNotFound
	}
	kind := strings.TrimSpace(input.Kind)
	if !validBalanceKind(kind) {
		return nil, ErrInvalidInput
	}
	amount := input.Amount.Decimal.Round(2)
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}

	memberRepo := s.memberRepo.WithTx(tx)
	member, err := memberRepo.GetByIDForUpdate(input.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	before := member.Balance.Decimal.Round(2)
	after := before.Add(amount).Round(2)
	if after.LessThan(decimal.Zero) && balanceGuardApplies(kind) {
		return nil, ErrInsufficientBalance
	}

	now := time.Now()
	record := &models.BalanceRecord{
		MemberID:      member.ID,
		Kind:          kind,
		Amount:        models.NewMoneyFromDecimal(amount),
		BalanceBefore: models.NewMoneyFromDecimal(before),
		BalanceAfter:  models.NewMoneyFromDecimal(after),
		SourceType:    strings.TrimSpace(input.SourceType),
		SourceID:      input.SourceID,
		Description:   strings.TrimSpace(input.Description),
		CreatedAt:     now,
	}
	if err := s.recordRepo.WithTx(tx).Create(record); err != nil {
		return nil, ErrBalanceWriteFailed
	}

	member.Balance = models.NewMoneyFromDecimal(after)
	member.UpdatedAt = now
	if err := memberRepo.Update(member); err != nil {
		return nil, ErrBalanceWriteFailed
	}
	return record, nil
}

// ListRecords 分页查询余额流水
func (s *LedgerService) ListRecords(filter repository.BalanceRecordListFilter) ([]models.BalanceRecord, int64, error) {
	return s.recordRepo.List(filter)
}

// ReplayBalance 按写入顺序回放全部流水重算余额（审计核对用）
func (s *LedgerService) ReplayBalance(memberID uint) (models.Money, error) {
	if memberID == 0 {
		return models.Money{}, ErrMemberNotFound
	}
	records, err := s.recordRepo.ListByMemberAsc(memberID)
	if err != nil {
		return models.Money{}, err
	}
	balance := decimal.Zero
	for _, record := range records {
		balance = balance.Add(record.Amount.Decimal).Round(2)
	}
	return models.NewMoneyFromDecimal(balance), nil
}

// balanceGuardApplies 判断流水类型是否受余额非负约束
func balanceGuardApplies(kind string) bool {
	return kind != constants.BalanceKindAdjust && kind != constants.BalanceKindRefund
}

func validBalanceKind(kind string) bool {
	switch kind {
	case constants.BalanceKindRecharge,
		constants.BalanceKindConsume,
		constants.BalanceKindRefund,
		constants.BalanceKindAdjust:
		return true
	}
	return false
}
