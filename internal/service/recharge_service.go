package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/logger"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RechargeService 会员储值服务
type RechargeService struct {
	memberRepo repository.MemberRepository
	ledgerSvc  *LedgerService
	memberSvc  *MemberService
}

// RechargeInput 储值输入
type RechargeInput struct {
	MemberID uint         `json:"member_id"`
	Amount   models.Money `json:"amount"`
	Bonus    models.Money `json:"bonus"`
	Remark   string       `json:"remark"`
}

// RechargeReceipt 储值回执
type RechargeReceipt struct {
	MemberID    uint         `json:"member_id"`
	Amount      models.Money `json:"amount"`
	Bonus       models.Money `json:"bonus"`
	NewBalance  models.Money `json:"new_balance"`
	PointsAdded int          `json:"points_added"`
	GrowthAdded int          `json:"growth_added"`
}

// NewRechargeService 创建储值服务
func NewRechargeService(
	memberRepo repository.MemberRepository,
	ledgerSvc *LedgerService,
	memberSvc *MemberService,
) *RechargeService {
	return &RechargeService{
		memberRepo: memberRepo,
		ledgerSvc:  ledgerSvc,
		memberSvc:  memberSvc,
	}
}

// Recharge 会员储值（含赠送金额）
// 余额入账 amount+bonus，积分与成长值各按实充金额取整累加，随后重新评定等级，全程一个事务。
func (s *RechargeService) Recharge(input RechargeInput) (*RechargeReceipt, error) {
	if input.MemberID == 0 {
		return nil, ErrMemberNotFound
	}
	amount := input.Amount.Decimal.Round(2)
	bonus := input.Bonus.Decimal.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) || bonus.LessThan(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	credit := amount.Add(bonus).Round(2)
	accrual := int(amount.IntPart())

	var receipt *RechargeReceipt
	if err := s.memberRepo.Transaction(func(tx *gorm.DB) error {
		record, err := s.ledgerSvc.AppendInTx(tx, LedgerAppendInput{
			MemberID:    input.MemberID,
			Kind:        constants.BalanceKindRecharge,
			Amount:      models.NewMoneyFromDecimal(credit),
			SourceType:  constants.BalanceSourceRecharge,
			Description: rechargeDescription(amount, bonus, input.Remark),
		})
		if err != nil {
			return err
		}

		member, err := s.memberRepo.WithTx(tx).GetByIDForUpdate(input.MemberID)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrMemberNotFound
		}
		if err := s.memberSvc.AddGrowthAndPointsInTx(tx, member, accrual, accrual); err != nil {
			return err
		}
		member.UpdatedAt = time.Now()
		if err := s.memberRepo.WithTx(tx).Update(member); err != nil {
			return err
		}

		receipt = &RechargeReceipt{
			MemberID:    member.ID,
			Amount:      models.NewMoneyFromDecimal(amount),
			Bonus:       models.NewMoneyFromDecimal(bonus),
			NewBalance:  record.BalanceAfter,
			PointsAdded: accrual,
			GrowthAdded: accrual,
		}
		return nil
	}); err != nil {
		return nil, err
	}

	logger.Infow("member_recharged",
		"member_id", receipt.MemberID,
		"amount", receipt.Amount.String(),
		"bonus", receipt.Bonus.String(),
		"new_balance", receipt.NewBalance.String(),
	)
	return receipt, nil
}

func rechargeDescription(amount, bonus decimal.Decimal, remark string) string {
	remark = strings.TrimSpace(remark)
	if remark != "" {
		return remark
	}
	if bonus.GreaterThan(decimal.Zero) {
		return fmt.Sprintf("储值 %s 赠送 %s", amount.StringFixed(2), bonus.StringFixed(2))
	}
	return fmt.Sprintf("储值 %s", amount.StringFixed(2))
}
