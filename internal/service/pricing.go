package service

import (
	"github.com/adminsolds/milktea-program-sub000/internal/models"

	"github.com/shopspring/decimal"
)

var pricingHundred = decimal.NewFromInt(100)

// MemberDiscountAmount 计算会员折扣金额
// discount 为百分制折扣（100 表示无折扣，95 表示 95 折），折扣金额 = 商品总价 ×(1 - discount/100)。
func MemberDiscountAmount(productTotal decimal.Decimal, level *models.MemberLevel) decimal.Decimal {
	if level == nil {
		return decimal.Zero
	}
	discount := level.Discount
	if discount.LessThanOrEqual(decimal.Zero) || discount.GreaterThanOrEqual(pricingHundred) {
		return decimal.Zero
	}
	ratio := pricingHundred.Sub(discount).Div(pricingHundred)
	return productTotal.Mul(ratio).Round(2)
}

// FinalPrice 计算订单最终价格
// 优惠券与会员折扣互斥：用券时会员折扣强制为 0。结果保留 2 位小数并钳制为非负。
func FinalPrice(productTotal, deliveryFee, couponDiscount, memberDiscount decimal.Decimal, hasCoupon bool) decimal.Decimal {
	effectiveMemberDiscount := memberDiscount
	if hasCoupon {
		effectiveMemberDiscount = decimal.Zero
	}
	final := productTotal.
		Sub(couponDiscount).
		Sub(effectiveMemberDiscount).
		Add(deliveryFee).
		Round(2)
	if final.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return final
}
