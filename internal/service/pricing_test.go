package service

import (
	"testing"

	"github.com/adminsolds/milktea-program-sub000/internal/models"

	"github.com/shopspring/decimal"
)

func TestMemberDiscountAmount(t *testing.T) {
	total := decimal.NewFromInt(100)

	if got := MemberDiscountAmount(total, nil); !got.IsZero() {
		t.Fatalf("nil level should yield zero discount, got %s", got)
	}

	noDiscount := &models.MemberLevel{LevelID: "normal", Discount: decimal.NewFromInt(100)}
	if got := MemberDiscountAmount(total, noDiscount); !got.IsZero() {
		t.Fatalf("discount=100 should yield zero, got %s", got)
	}

	silver := &models.MemberLevel{LevelID: "silver", Discount: decimal.NewFromInt(95)}
	if got := MemberDiscountAmount(total, silver); !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("95 折 on 100 should discount 5, got %s", got)
	}

	gold := &models.MemberLevel{LevelID: "gold", Discount: decimal.NewFromInt(90)}
	if got := MemberDiscountAmount(decimal.NewFromFloat(33.33), gold); !got.Equal(decimal.NewFromFloat(3.33)) {
		t.Fatalf("9 折 on 33.33 should discount 3.33, got %s", got)
	}

	broken := &models.MemberLevel{LevelID: "x", Discount: decimal.NewFromInt(-5)}
	if got := MemberDiscountAmount(total, broken); !got.IsZero() {
		t.Fatalf("negative discount config should yield zero, got %s", got)
	}
}

func TestFinalPriceCouponExcludesMemberDiscount(t *testing.T) {
	total := decimal.NewFromInt(50)
	memberDiscount := decimal.NewFromFloat(2.50)
	couponDiscount := decimal.NewFromInt(10)

	// 用券时会员折扣不参与
	got := FinalPrice(total, decimal.Zero, couponDiscount, memberDiscount, true)
	if !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("with coupon final want 40 got %s", got)
	}

	// 不用券时会员折扣生效
	got = FinalPrice(total, decimal.Zero, decimal.Zero, memberDiscount, false)
	if !got.Equal(decimal.NewFromFloat(47.50)) {
		t.Fatalf("without coupon final want 47.50 got %s", got)
	}
}

func TestFinalPriceClampedNonNegative(t *testing.T) {
	got := FinalPrice(decimal.NewFromInt(5), decimal.Zero, decimal.NewFromInt(20), decimal.Zero, true)
	if !got.IsZero() {
		t.Fatalf("over-discounted order should clamp to 0, got %s", got)
	}
}

func TestFinalPriceIncludesDeliveryFee(t *testing.T) {
	got := FinalPrice(decimal.NewFromInt(30), decimal.NewFromInt(3), decimal.Zero, decimal.Zero, false)
	if !got.Equal(decimal.NewFromInt(33)) {
		t.Fatalf("final with delivery fee want 33 got %s", got)
	}
}
