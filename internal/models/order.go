package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;type:varchar(50);not null" json:"order_no"`        // 订单编号
	MemberID       *uint          `gorm:"index" json:"member_id,omitempty"`                             // 会员ID（POS 现场点单可为空）
	StoreID        uint           `gorm:"index;not null" json:"store_id"`                               // 店铺ID
	Remark         string         `gorm:"type:text" json:"remark"`                                      // 备注
	ProductTotal   Money          `gorm:"type:decimal(10,2);not null;default:0" json:"product_total"`   // 商品总价
	DeliveryFee    Money          `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_fee"`    // 配送费
	CouponDiscount Money          `gorm:"type:decimal(10,2);not null;default:0" json:"coupon_discount"` // 优惠券折扣
	MemberDiscount Money          `gorm:"type:decimal(10,2);not null;default:0" json:"member_discount"` // 会员折扣（与优惠券互斥）
	FinalPrice     Money          `gorm:"type:decimal(10,2);not null;default:0" json:"final_price"`     // 最终价格
	CouponID       *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	PaymentMethod  string         `gorm:"type:varchar(20);not null" json:"payment_method"`              // 支付方式
	Status         int            `gorm:"index;not null;default:1" json:"status"`                       // 订单状态（0已取消, 1已下单, 2制作中, 3制作完成, 4配送中/待取餐, 5已完成, 6已送达）
	Phone          string         `gorm:"type:varchar(20)" json:"phone"`                                // 联系电话
	OrderType      string         `gorm:"type:varchar(20);not null;default:'self'" json:"order_type"`   // 订单类型：self-堂食, delivery-外卖, pickup-自取
	IsPOS          bool           `gorm:"not null;default:false" json:"is_pos"`                         // 是否 POS 现场点单
	AccrualApplied bool           `gorm:"not null;default:false" json:"-"`                              // 完成奖励是否已发放（成长值/积分只发一次）
	PayTime        *time.Time     `json:"pay_time"`                                                     // 支付时间
	CompleteTime   *time.Time     `json:"complete_time"`                                                // 完成时间
	CancelReason   string         `gorm:"type:varchar(200)" json:"cancel_reason"`                       // 取消原因
	CancelledAt    *time.Time     `json:"cancelled_at"`                                                 // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单商品
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
