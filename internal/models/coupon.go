package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券表
type Coupon struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`                  // 优惠券名称
	Description string         `gorm:"type:text" json:"description"`                            // 优惠券描述
	Amount      Money          `gorm:"type:decimal(10,2);not null" json:"amount"`               // 优惠金额
	Type        string         `gorm:"type:varchar(20);not null" json:"type"`                   // 类型（full-满减, no-threshold-无门槛）
	MinAmount   Money          `gorm:"type:decimal(10,2);not null;default:0" json:"min_amount"` // 最低使用金额
	StartTime   *time.Time     `json:"start_time"`                                              // 开始时间
	EndTime     *time.Time     `json:"end_time"`                                                // 结束时间
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`                  // 是否激活
	CreatedAt   time.Time      `json:"created_at"`                                              // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// UserCoupon 用户优惠券表
type UserCoupon struct {
	ID         uint       `gorm:"primarykey" json:"id"`                                       // 主键
	MemberID   uint       `gorm:"index;not null" json:"member_id"`                            // 会员ID
	CouponID   uint       `gorm:"index;not null" json:"coupon_id"`                            // 优惠券ID
	Status     string     `gorm:"type:varchar(20);not null;default:'unused'" json:"status"`   // 状态（unused/used）
	UseTime    *time.Time `json:"use_time"`                                                   // 使用时间
	ObtainedAt time.Time  `json:"obtained_at"`                                                // 获取时间
	CreatedAt  time.Time  `json:"created_at"`                                                 // 创建时间
	UpdatedAt  time.Time  `json:"updated_at"`                                                 // 更新时间

	Coupon *Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"` // 优惠券
}

// TableName 指定表名
func (UserCoupon) TableName() string {
	return "user_coupons"
}
