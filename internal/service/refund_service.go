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

// RefundService 订单退款服务
type RefundService struct {
	orderRepo      repository.OrderRepository
	userCouponRepo repository.UserCouponRepository
	ledgerSvc      *LedgerService
}

// RefundReceipt 退款回执
type RefundReceipt struct {
	OrderID      uint          `json:"order_id"`
	OrderNo      string        `json:"order_no"`
	RefundAmount models.Money  `json:"refund_amount"`
	NewBalance   *models.Money `json:"new_balance,omitempty"`
}

// NewRefundService 创建退款服务
func NewRefundService(
	orderRepo repository.OrderRepository,
	userCouponRepo repository.UserCouponRepository,
	ledgerSvc *LedgerService,
) *RefundService {
	return &RefundService{
		orderRepo:      orderRepo,
		userCouponRepo: userCouponRepo,
		ledgerSvc:      ledgerSvc,
	}
}

// Refund 整单退款
// 订单置为已取消、余额退回、优惠券恢复未使用在同一事务内完成，任一步失败全部回滚。
// 终态订单（已取消/已完成/已送达）与零元单不可退；匿名 POS 单没有账户，只改状态不退余额。
func (s *RefundService) Refund(orderID uint, reason string) (*RefundReceipt, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	var receipt *RefundReceipt
	if err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if isTerminalStatus(order.Status) {
			return ErrRefundNotAllowed
		}
		refundAmount := order.FinalPrice.Decimal.Round(2)
		if refundAmount.LessThanOrEqual(decimal.Zero) {
			return ErrRefundNotAllowed
		}

		now := time.Now()
		order.Status = constants.OrderStatusCancelled
		order.CancelReason = cleanRefundReason(reason)
		order.CancelledAt = &now
		order.UpdatedAt = now
		if err := repo.Update(order); err != nil {
			return ErrOrderUpdateFailed
		}

		receipt = &RefundReceipt{
			OrderID:      order.ID,
			OrderNo:      order.OrderNo,
			RefundAmount: models.NewMoneyFromDecimal(refundAmount),
		}

		if order.MemberID != nil {
			record, ledgerErr := s.ledgerSvc.AppendInTx(tx, LedgerAppendInput{
				MemberID:    *order.MemberID,
				Kind:        constants.BalanceKindRefund,
				Amount:      models.NewMoneyFromDecimal(refundAmount),
				SourceType:  constants.BalanceSourceOrder,
				SourceID:    &order.ID,
				Description: fmt.Sprintf("订单退款 %s", order.OrderNo),
			})
			if ledgerErr != nil {
				return ledgerErr
			}
			receipt.NewBalance = &record.BalanceAfter
		}

		if order.CouponID != nil && order.MemberID != nil {
			if err := s.restoreCouponInTx(tx, *order.MemberID, *order.CouponID, now); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	logger.Infow("order_refunded",
		"order_id", receipt.OrderID,
		"order_no", receipt.OrderNo,
		"refund_amount", receipt.RefundAmount.String(),
	)
	return receipt, nil
}

// restoreCouponInTx 将订单核销的优惠券恢复为未使用
func (s *RefundService) restoreCouponInTx(tx *gorm.DB, memberID, couponID uint, now time.Time) error {
	repo := s.userCouponRepo.WithTx(tx)
	userCoupons, _, err := repo.List(repository.UserCouponListFilter{
		MemberID: memberID,
		Status:   constants.UserCouponStatusUsed,
	})
	if err != nil {
		return err
	}
	for i := range userCoupons {
		if userCoupons[i].CouponID != couponID {
			continue
		}
		userCoupon := &userCoupons[i]
		userCoupon.Status = constants.UserCouponStatusUnused
		userCoupon.UseTime = nil
		userCoupon.UpdatedAt = now
		return repo.Update(userCoupon)
	}
	return nil
}

func cleanRefundReason(raw string) string {
	reason := strings.TrimSpace(raw)
	if reason == "" {
		return "订单退款"
	}
	return reason
}
