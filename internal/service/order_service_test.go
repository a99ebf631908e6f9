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

type orderTestEnv struct {
	db          *gorm.DB
	orderSvc    *OrderService
	memberSvc   *MemberService
	ledgerSvc   *LedgerService
	refundSvc   *RefundService
	rechargeSvc *RechargeService
}

func setupOrderTest(t *testing.T) *orderTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Member{},
		&models.MemberLevel{},
		&models.BalanceRecord{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.UserCoupon{},
		&models.SystemConfig{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	levels := []models.MemberLevel{
		{Name: "普通会员", LevelID: "normal", GrowthRequired: 0, Discount: decimal.NewFromInt(100), SortOrder: 1, IsActive: true},
		{Name: "白银会员", LevelID: "silver", GrowthRequired: 500, Discount: decimal.NewFromInt(95), SortOrder: 2, IsActive: true},
		{Name: "黄金会员", LevelID: "gold", GrowthRequired: 2000, Discount: decimal.NewFromInt(90), SortOrder: 3, IsActive: true},
	}
	if err := db.Create(&levels).Error; err != nil {
		t.Fatalf("seed levels failed: %v", err)
	}

	memberRepo := repository.NewMemberRepository(db)
	levelRepo := repository.NewMemberLevelRepository(db)
	recordRepo := repository.NewBalanceRecordRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userCouponRepo := repository.NewUserCouponRepository(db)
	settingRepo := repository.NewSystemConfigRepository(db)

	memberSvc := NewMemberService(memberRepo, levelRepo)
	ledgerSvc := NewLedgerService(memberRepo, recordRepo)
	settingSvc := NewSettingService(settingRepo)
	orderSvc := NewOrderService(orderRepo, memberRepo, userCouponRepo, levelRepo, memberSvc, ledgerSvc, settingSvc, nil)
	refundSvc := NewRefundService(orderRepo, userCouponRepo, ledgerSvc)
	rechargeSvc := NewRechargeService(memberRepo, ledgerSvc, memberSvc)

	return &orderTestEnv{
		db:          db,
		orderSvc:    orderSvc,
		memberSvc:   memberSvc,
		ledgerSvc:   ledgerSvc,
		refundSvc:   refundSvc,
		rechargeSvc: rechargeSvc,
	}
}

func (e *orderTestEnv) createMember(t *testing.T, levelID string, growth int, balance decimal.Decimal) *models.Member {
	t.Helper()
	member := models.Member{
		OpenID:      fmt.Sprintf("oOrder%d", time.Now().UnixNano()),
		Phone:       fmt.Sprintf("138%08d", time.Now().UnixNano()%100000000),
		MemberNo:    fmt.Sprintf("M%d", time.Now().UnixNano()),
		LevelID:     levelID,
		GrowthValue: growth,
		Balance:     models.NewMoneyFromDecimal(balance),
		IsActive:    true,
	}
	if err := e.db.Create(&member).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	return &member
}

func (e *orderTestEnv) grantCoupon(t *testing.T, memberID uint, amount, minAmount decimal.Decimal) *models.UserCoupon {
	t.Helper()
	coupon := models.Coupon{
		Name:      "满减券",
		Amount:    models.NewMoneyFromDecimal(amount),
		Type:      "full",
		MinAmount: models.NewMoneyFromDecimal(minAmount),
		IsActive:  true,
	}
	if err := e.db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	userCoupon := models.UserCoupon{
		MemberID:   memberID,
		CouponID:   coupon.ID,
		Status:     constants.UserCouponStatusUnused,
		ObtainedAt: time.Now(),
	}
	if err := e.db.Create(&userCoupon).Error; err != nil {
		t.Fatalf("create user coupon failed: %v", err)
	}
	return &userCoupon
}

func milkTeaItems() []CreateOrderItem {
	return []CreateOrderItem{
		{ProductID: 1, ProductName: "珍珠奶茶", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(12)), Quantity: 2, Sugar: "半糖", Ice: "少冰"},
		{ProductID: 2, ProductName: "杨枝甘露", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(6)), Quantity: 1},
	}
}

func TestCreateOrderWalletPayment(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "normal", 0, decimal.NewFromInt(100))

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		MemberID:      member.ID,
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWallet,
		Items:         milkTeaItems(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.ProductTotal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("product_total want 30 got %s", order.ProductTotal)
	}
	if !order.FinalPrice.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("final_price want 30 got %s", order.FinalPrice)
	}
	if order.Status != constants.OrderStatusPlaced {
		t.Fatalf("status want placed got %d", order.Status)
	}
	if order.PayTime == nil {
		t.Fatalf("wallet order should have pay_time set")
	}

	var stored models.Member
	env.db.First(&stored, member.ID)
	if !stored.Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("balance after wallet debit want 70 got %s", stored.Balance)
	}

	var record models.BalanceRecord
	if err := env.db.Where("member_id = ?", member.ID).First(&record).Error; err != nil {
		t.Fatalf("load balance record failed: %v", err)
	}
	if record.Kind != constants.BalanceKindConsume {
		t.Fatalf("record kind want consume got %s", record.Kind)
	}
	if !record.Amount.Equal(decimal.NewFromInt(-30)) {
		t.Fatalf("record amount want -30 got %s", record.Amount)
	}
	if record.SourceID == nil || *record.SourceID != order.ID {
		t.Fatalf("record source_id should reference order %d", order.ID)
	}
}

func TestCreateOrderInsufficientBalanceRollsBack(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "normal", 0, decimal.NewFromInt(10))
	userCoupon := env.grantCoupon(t, member.ID, decimal.NewFromInt(5), decimal.NewFromInt(20))

	_, err := env.orderSvc.CreateOrder(CreateOrderInput{
		MemberID:      member.ID,
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWallet,
		UserCouponID:  &userCoupon.ID,
		Items:         milkTeaItems(),
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("want ErrInsufficientBalance got %v", err)
	}

	// 整单回滚：无订单、无流水、优惠券仍未使用
	var orderCount int64
	env.db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 0 {
		t.Fatalf("rejected order should not persist, got %d orders", orderCount)
	}
	var recordCount int64
	env.db.Model(&models.BalanceRecord{}).Count(&recordCount)
	if recordCount != 0 {
		t.Fatalf("rejected order should leave no ledger record, got %d", recordCount)
	}
	var storedCoupon models.UserCoupon
	env.db.First(&storedCoupon, userCoupon.ID)
	if storedCoupon.Status != constants.UserCouponStatusUnused {
		t.Fatalf("coupon should stay unused after rollback, got %s", storedCoupon.Status)
	}
}

func TestCreateOrderCouponExcludesMemberDiscount(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "silver", 600, decimal.NewFromInt(200))
	userCoupon := env.grantCoupon(t, member.ID, decimal.NewFromInt(10), decimal.NewFromInt(20))

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		MemberID:      member.ID,
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWallet,
		UserCouponID:  &userCoupon.ID,
		Items:         milkTeaItems(),
	})
	if err != nil {
		t.Fatalf("create order with coupon failed: %v", err)
	}
	if !order.CouponDiscount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("coupon_discount want 10 got %s", order.CouponDiscount)
	}
	if !order.MemberDiscount.IsZero() {
		t.Fatalf("member_discount must be 0 when coupon used, got %s", order.MemberDiscount)
	}
	if !order.FinalPrice.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("final_price want 20 got %s", order.FinalPrice)
	}

	var storedCoupon models.UserCoupon
	env.db.First(&storedCoupon, userCoupon.ID)
	if storedCoupon.Status != constants.UserCouponStatusUsed {
		t.Fatalf("coupon should be marked used, got %s", storedCoupon.Status)
	}
	if storedCoupon.UseTime == nil {
		t.Fatalf("used coupon should have use_time")
	}
}

func TestCreateOrderMemberDiscountWithoutCoupon(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "silver", 600, decimal.NewFromInt(200))

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		MemberID:      member.ID,
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWallet,
		Items:         milkTeaItems(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// 30 × 5% = 1.50
	if !order.MemberDiscount.Equal(decimal.NewFromFloat(1.50)) {
		t.Fatalf("member_discount want 1.50 got %s", order.MemberDiscount)
	}
	if !order.CouponDiscount.IsZero() {
		t.Fatalf("coupon_discount want 0 got %s", order.CouponDiscount)
	}
	if !order.FinalPrice.Equal(decimal.NewFromFloat(28.50)) {
		t.Fatalf("final_price want 28.50 got %s", order.FinalPrice)
	}
}

func TestCreateOrderCouponMinNotReached(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "normal", 0, decimal.NewFromInt(100))
	userCoupon := env.grantCoupon(t, member.ID, decimal.NewFromInt(10), decimal.NewFromInt(50))

	_, err := env.orderSvc.CreateOrder(CreateOrderInput{
		MemberID:      member.ID,
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWallet,
		UserCouponID:  &userCoupon.ID,
		Items:         milkTeaItems(),
	})
	if !errors.Is(err, ErrCouponMinNotReach) {
		t.Fatalf("want ErrCouponMinNotReach got %v", err)
	}
}

func TestCreateOrderAnonymousPOS(t *testing.T) {
	env := setupOrderTest(t)

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodCash,
		IsPOS:         true,
		Items:         milkTeaItems(),
	})
	if err != nil {
		t.Fatalf("anonymous POS order failed: %v", err)
	}
	if order.MemberID != nil {
		t.Fatalf("anonymous order should have nil member_id")
	}

	// 非 POS 渠道不允许匿名下单
	_, err = env.orderSvc.CreateOrder(CreateOrderInput{
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWechat,
		Items:         milkTeaItems(),
	})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("anonymous non-POS order want ErrMemberNotFound got %v", err)
	}

	// 匿名单不能用余额支付
	_, err = env.orderSvc.CreateOrder(CreateOrderInput{
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWallet,
		IsPOS:         true,
		Items:         milkTeaItems(),
	})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("anonymous wallet order want ErrMemberNotFound got %v", err)
	}
}

func TestCompleteOrderAccruesOnlyOnce(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "normal", 0, decimal.NewFromInt(100))

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		MemberID:      member.ID,
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWallet,
		Items:         milkTeaItems(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := env.orderSvc.UpdateStatus(order.ID, constants.OrderStatusCompleted, ""); err != nil {
		t.Fatalf("complete order failed: %v", err)
	}

	var stored models.Member
	env.db.First(&stored, member.ID)
	if stored.GrowthValue != 30 || stored.Points != 30 {
		t.Fatalf("accrual want growth=30 points=30 got growth=%d points=%d", stored.GrowthValue, stored.Points)
	}

	// 管理员把订单改回制作完成再次完成，奖励不得重复发放
	if _, err := env.orderSvc.AdminOverrideStatus(order.ID, constants.OrderStatusMade, "重走流程"); err != nil {
		t.Fatalf("override status failed: %v", err)
	}
	if _, err := env.orderSvc.UpdateStatus(order.ID, constants.OrderStatusCompleted, ""); err != nil {
		t.Fatalf("re-complete order failed: %v", err)
	}

	env.db.First(&stored, member.ID)
	if stored.GrowthValue != 30 || stored.Points != 30 {
		t.Fatalf("accrual must apply once, got growth=%d points=%d", stored.GrowthValue, stored.Points)
	}
}

func TestUpdateStatusTerminalRejected(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "normal", 0, decimal.NewFromInt(100))

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		MemberID:      member.ID,
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWallet,
		Items:         milkTeaItems(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := env.orderSvc.UpdateStatus(order.ID, constants.OrderStatusCompleted, ""); err != nil {
		t.Fatalf("complete order failed: %v", err)
	}

	if _, err := env.orderSvc.UpdateStatus(order.ID, constants.OrderStatusMaking, ""); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("transition out of terminal want ErrOrderStatusInvalid got %v", err)
	}

	// 管理员覆写不受终态限制
	updated, err := env.orderSvc.AdminOverrideStatus(order.ID, constants.OrderStatusMaking, "门店重做")
	if err != nil {
		t.Fatalf("admin override from terminal failed: %v", err)
	}
	if updated.Status != constants.OrderStatusMaking {
		t.Fatalf("override status want making got %d", updated.Status)
	}
}

func TestUpdateStatusInvalidTarget(t *testing.T) {
	env := setupOrderTest(t)
	if _, err := env.orderSvc.UpdateStatus(1, 9, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid status code want ErrInvalidInput got %v", err)
	}
}

func TestCancelOrderRecordsReason(t *testing.T) {
	env := setupOrderTest(t)
	member := env.createMember(t, "normal", 0, decimal.NewFromInt(100))

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		MemberID:      member.ID,
		StoreID:       1,
		PaymentMethod: constants.PaymentMethodWechat,
		Items:         milkTeaItems(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cancelled, err := env.orderSvc.UpdateStatus(order.ID, constants.OrderStatusCancelled, "顾客取消")
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if cancelled.CancelReason != "顾客取消" {
		t.Fatalf("cancel_reason want 顾客取消 got %s", cancelled.CancelReason)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("cancelled order should have cancelled_at")
	}
}
