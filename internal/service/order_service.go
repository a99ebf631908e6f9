package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/logger"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/queue"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单业务服务
// 订单从创建到终态的全部状态写入都经由此服务。
type OrderService struct {
	orderRepo      repository.OrderRepository
	memberRepo     repository.MemberRepository
	userCouponRepo repository.UserCouponRepository
	levelRepo      repository.MemberLevelRepository
	memberSvc      *MemberService
	ledgerSvc      *LedgerService
	settingSvc     *SettingService
	queueClient    *queue.Client
}

// CreateOrderItem 下单商品项
type CreateOrderItem struct {
	ProductID    uint         `json:"product_id"`
	ProductName  string       `json:"product_name"`
	Price        models.Money `json:"price"`
	Quantity     int          `json:"quantity"`
	Spec         string       `json:"spec"`
	Sugar        string       `json:"sugar"`
	Ice          string       `json:"ice"`
	Toppings     string       `json:"toppings"`
	ProductImage string       `json:"product_image"`
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	MemberID      uint              `json:"member_id"`
	MemberPhone   string            `json:"member_phone"`
	StoreID       uint              `json:"store_id"`
	OrderType     string            `json:"order_type"`
	PaymentMethod string            `json:"payment_method"`
	Phone         string            `json:"phone"`
	Remark        string            `json:"remark"`
	DeliveryFee   models.Money      `json:"delivery_fee"`
	UserCouponID  *uint             `json:"user_coupon_id"`
	IsPOS         bool              `json:"is_pos"`
	Items         []CreateOrderItem `json:"items"`
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	memberRepo repository.MemberRepository,
	userCouponRepo repository.UserCouponRepository,
	levelRepo repository.MemberLevelRepository,
	memberSvc *MemberService,
	ledgerSvc *LedgerService,
	settingSvc *SettingService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		memberRepo:     memberRepo,
		userCouponRepo: userCouponRepo,
		levelRepo:      levelRepo,
		memberSvc:      memberSvc,
		ledgerSvc:      ledgerSvc,
		settingSvc:     settingSvc,
		queueClient:    queueClient,
	}
}

// CreateOrder 创建订单
// 校验、算价、商品快照、核销优惠券、余额支付扣款在同一事务内完成；
// 余额不足时整单拒绝，不产生「已下单未支付」的订单。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if err := validateCreateOrderInput(&input); err != nil {
		return nil, err
	}

	member, err := s.resolveOrderMember(input)
	if err != nil {
		return nil, err
	}
	if member == nil && input.PaymentMethod == constants.PaymentMethodWallet {
		// 匿名 POS 单没有账户可扣
		return nil, ErrMemberNotFound
	}
	if member == nil && input.UserCouponID != nil {
		return nil, ErrCouponNotUsable
	}

	productTotal := decimal.Zero
	for _, item := range input.Items {
		lineTotal := item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		productTotal = productTotal.Add(lineTotal)
	}
	productTotal = productTotal.Round(2)

	var order *models.Order
	if err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		couponDiscount := decimal.Zero
		hasCoupon := false
		var userCoupon *models.UserCoupon
		if input.UserCouponID != nil {
			var couponErr error
			userCoupon, couponDiscount, couponErr = s.resolveCouponInTx(tx, member.ID, *input.UserCouponID, productTotal, now)
			if couponErr != nil {
				return couponErr
			}
			hasCoupon = true
		}

		memberDiscount := decimal.Zero
		if member != nil && !hasCoupon {
			level, levelErr := s.levelRepo.WithTx(tx).GetByLevelID(member.LevelID)
			if levelErr != nil {
				return levelErr
			}
			memberDiscount = MemberDiscountAmount(productTotal, level)
		}

		finalPrice := FinalPrice(productTotal, input.DeliveryFee.Decimal, couponDiscount, memberDiscount, hasCoupon)

		order = &models.Order{
			OrderNo:        generateOrderNo(),
			StoreID:        input.StoreID,
			Remark:         strings.TrimSpace(input.Remark),
			ProductTotal:   models.NewMoneyFromDecimal(productTotal),
			DeliveryFee:    input.DeliveryFee,
			CouponDiscount: models.NewMoneyFromDecimal(couponDiscount),
			MemberDiscount: models.NewMoneyFromDecimal(memberDiscount),
			FinalPrice:     models.NewMoneyFromDecimal(finalPrice),
			PaymentMethod:  input.PaymentMethod,
			Status:         constants.OrderStatusPlaced,
			Phone:          strings.TrimSpace(input.Phone),
			OrderType:      input.OrderType,
			IsPOS:          input.IsPOS,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if member != nil {
			order.MemberID = &member.ID
		}
		if userCoupon != nil {
			order.CouponID = &userCoupon.CouponID
		}
		for _, item := range input.Items {
			lineTotal := item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
			order.Items = append(order.Items, models.OrderItem{
				ProductID:    item.ProductID,
				ProductName:  strings.TrimSpace(item.ProductName),
				Price:        item.Price,
				Quantity:     item.Quantity,
				Spec:         item.Spec,
				Sugar:        item.Sugar,
				Ice:          item.Ice,
				Toppings:     item.Toppings,
				ProductImage: item.ProductImage,
				TotalPrice:   models.NewMoneyFromDecimal(lineTotal),
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}

		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}

		if userCoupon != nil {
			userCoupon.Status = constants.UserCouponStatusUsed
			userCoupon.UseTime = &now
			userCoupon.UpdatedAt = now
			if err := s.userCouponRepo.WithTx(tx).Update(userCoupon); err != nil {
				return err
			}
		}

		if input.PaymentMethod == constants.PaymentMethodWallet {
			if finalPrice.GreaterThan(decimal.Zero) {
				if _, err := s.ledgerSvc.AppendInTx(tx, LedgerAppendInput{
					MemberID:    member.ID,
					Kind:        constants.BalanceKindConsume,
					Amount:      models.NewMoneyFromDecimal(finalPrice.Neg()),
					SourceType:  constants.BalanceSourceOrder,
					SourceID:    &order.ID,
					Description: fmt.Sprintf("订单消费 %s", order.OrderNo),
				}); err != nil {
					return err
				}
			}
			order.PayTime = &now
			if err := s.orderRepo.WithTx(tx).Update(order); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"final_price", order.FinalPrice.String(),
		"payment_method", order.PaymentMethod,
	)
	return order, nil
}

// UpdateStatus 订单状态流转（小程序、POS、外卖回调共用的常规路径）
// 非终态可以流转到任意其他状态；0/5/6 为终态，不再接受任何流转；
// 已完成或已取消的订单不允许再次取消。
func (s *OrderService) UpdateStatus(orderID uint, newStatus int, reason string) (*models.Order, error) {
	if !validOrderStatus(newStatus) {
		return nil, ErrInvalidInput
	}
	order, err := s.transitionStatus(orderID, newStatus, reason, false)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AdminOverrideStatus 管理员强制改写订单状态
// 与常规流转不同，管理员可以把订单改到任意状态（含从终态改出）；
// 完成奖励仍然只按 accrual_applied 发放一次。
func (s *OrderService) AdminOverrideStatus(orderID uint, newStatus int, reason string) (*models.Order, error) {
	if !validOrderStatus(newStatus) {
		return nil, ErrInvalidInput
	}
	order, err := s.transitionStatus(orderID, newStatus, reason, true)
	if err != nil {
		return nil, err
	}
	logger.Warnw("order_status_overridden",
		"order_id", order.ID,
		"status", newStatus,
		"reason", reason,
	)
	return order, nil
}

// GetOrder 获取订单详情（含商品明细）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetWithItems(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByOrderNo 按订单号获取订单
func (s *OrderService) GetOrderByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 分页查询订单
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

func (s *OrderService) transitionStatus(orderID uint, newStatus int, reason string, adminOverride bool) (*models.Order, error) {
	var result *models.Order
	var fromStatus int
	if err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		fromStatus = order.Status

		// 常规路径：终态订单不再接受任何流转
		if !adminOverride && isTerminalStatus(order.Status) {
			return ErrOrderStatusInvalid
		}
		if order.Status == newStatus {
			result = order
			return nil
		}

		now := time.Now()
		order.Status = newStatus
		switch newStatus {
		case constants.OrderStatusPlaced:
			if order.PayTime == nil {
				order.PayTime = &now
			}
		case constants.OrderStatusCancelled:
			order.CancelReason = strings.TrimSpace(reason)
			order.CancelledAt = &now
		case constants.OrderStatusCompleted, constants.OrderStatusDelivered:
			if order.CompleteTime == nil {
				order.CompleteTime = &now
			}
			if err := s.applyAccrualInTx(tx, order); err != nil {
				return err
			}
		}
		order.UpdatedAt = now
		if err := repo.Update(order); err != nil {
			return ErrOrderUpdateFailed
		}
		result = order
		return nil
	}); err != nil {
		return nil, err
	}

	if fromStatus != result.Status {
		s.enqueueStatusNotify(result, fromStatus)
	}
	return result, nil
}

// applyAccrualInTx 发放订单完成奖励（成长值/积分），每单只发一次
// growth += floor(final_price/growth_rate)，points += floor(final_price/points_rate)，
// 随后按新成长值重新评定等级。
func (s *OrderService) applyAccrualInTx(tx *gorm.DB, order *models.Order) error {
	if order.AccrualApplied {
		return nil
	}
	order.AccrualApplied = true
	if order.MemberID == nil {
		return nil
	}

	member, err := s.memberRepo.WithTx(tx).GetByIDForUpdate(*order.MemberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrMemberNotFound
	}

	growthRate := s.settingSvc.GetGrowthRate()
	pointsRate := s.settingSvc.GetPointsRate()
	final := order.FinalPrice.Decimal
	growthDelta := int(final.Div(decimal.NewFromInt(int64(growthRate))).IntPart())
	pointsDelta := int(final.Div(decimal.NewFromInt(int64(pointsRate))).IntPart())
	if growthDelta == 0 && pointsDelta == 0 {
		return nil
	}

	if err := s.memberSvc.AddGrowthAndPointsInTx(tx, member, growthDelta, pointsDelta); err != nil {
		return err
	}
	member.UpdatedAt = time.Now()
	if err := s.memberRepo.WithTx(tx).Update(member); err != nil {
		return err
	}
	logger.Infow("order_accrual_applied",
		"order_id", order.ID,
		"member_id", member.ID,
		"growth_delta", growthDelta,
		"points_delta", pointsDelta,
	)
	return nil
}

// resolveOrderMember 解析下单会员：按 ID 优先，POS 场景支持手机号查找，两者皆空为匿名单
func (s *OrderService) resolveOrderMember(input CreateOrderInput) (*models.Member, error) {
	if input.MemberID != 0 {
		member, err := s.memberRepo.GetByID(input.MemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrMemberNotFound
		}
		if !member.IsActive {
			return nil, ErrMemberInactive
		}
		return member, nil
	}
	phone := strings.TrimSpace(input.MemberPhone)
	if phone != "" {
		member, err := s.memberRepo.GetByPhone(phone)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrMemberNotFound
		}
		if !member.IsActive {
			return nil, ErrMemberInactive
		}
		return member, nil
	}
	if !input.IsPOS {
		return nil, ErrMemberNotFound
	}
	return nil, nil
}

// resolveCouponInTx 加锁校验用户优惠券并返回抵扣金额
func (s *OrderService) resolveCouponInTx(tx *gorm.DB, memberID, userCouponID uint, productTotal decimal.Decimal, now time.Time) (*models.UserCoupon, decimal.Decimal, error) {
	repo := s.userCouponRepo.WithTx(tx)
	userCoupon, err := repo.GetByIDForUpdate(userCouponID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if userCoupon == nil || userCoupon.MemberID != memberID {
		return nil, decimal.Zero, ErrCouponNotFound
	}
	if userCoupon.Status != constants.UserCouponStatusUnused {
		return nil, decimal.Zero, ErrCouponNotUsable
	}

	withCoupon, err := repo.GetWithCoupon(userCouponID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if withCoupon == nil || withCoupon.Coupon == nil {
		return nil, decimal.Zero, ErrCouponNotFound
	}
	coupon := withCoupon.Coupon
	if !coupon.IsActive {
		return nil, decimal.Zero, ErrCouponNotUsable
	}
	if coupon.StartTime != nil && now.Before(*coupon.StartTime) {
		return nil, decimal.Zero, ErrCouponNotUsable
	}
	if coupon.EndTime != nil && now.After(*coupon.EndTime) {
		return nil, decimal.Zero, ErrCouponNotUsable
	}
	if coupon.Type == "full" && productTotal.LessThan(coupon.MinAmount.Decimal) {
		return nil, decimal.Zero, ErrCouponMinNotReach
	}
	return userCoupon, coupon.Amount.Decimal.Round(2), nil
}

func (s *OrderService) enqueueStatusNotify(order *models.Order, fromStatus int) {
	if s.queueClient == nil {
		return
	}
	err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		FromStatus: fromStatus,
		ToStatus:   order.Status,
	})
	if err != nil {
		logger.Warnw("order_status_notify_enqueue_failed",
			"order_id", order.ID,
			"to_status", order.Status,
			"error", err,
		)
	}
}

func validateCreateOrderInput(input *CreateOrderInput) error {
	if input == nil || input.StoreID == 0 {
		return ErrInvalidInput
	}
	if len(input.Items) == 0 {
		return ErrInvalidInput
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ProductName) == "" || item.Quantity <= 0 {
			return ErrInvalidInput
		}
		if item.Price.Decimal.LessThan(decimal.Zero) {
			return ErrInvalidAmount
		}
	}
	if input.DeliveryFee.Decimal.LessThan(decimal.Zero) {
		return ErrInvalidAmount
	}
	switch input.OrderType {
	case constants.OrderTypeSelf, constants.OrderTypeDelivery, constants.OrderTypePickup:
	case "":
		input.OrderType = constants.OrderTypeSelf
	default:
		return ErrInvalidInput
	}
	switch input.PaymentMethod {
	case constants.PaymentMethodWallet, constants.PaymentMethodWechat, constants.PaymentMethodCash:
	default:
		return ErrInvalidInput
	}
	return nil
}

func isTerminalStatus(status int) bool {
	switch status {
	case constants.OrderStatusCancelled, constants.OrderStatusCompleted, constants.OrderStatusDelivered:
		return true
	}
	return false
}

func validOrderStatus(status int) bool {
	return status >= constants.OrderStatusCancelled && status <= constants.OrderStatusDelivered
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("MT%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
