package models

import (
	"time"

	"gorm.io/gorm"
)

// Member 会员表
// 余额只能通过余额流水服务变更，成长值/积分/等级只能由会员服务写入。
type Member struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                 // 主键
	OpenID      string         `gorm:"uniqueIndex;not null" json:"openid"`                   // 微信 OpenID
	Phone       string         `gorm:"index;type:varchar(20)" json:"phone"`                  // 手机号（POS 查会员用）
	Nickname    string         `gorm:"type:varchar(50)" json:"nickname"`                     // 昵称
	MemberNo    string         `gorm:"uniqueIndex;type:varchar(20)" json:"member_no"`        // 会员编号
	LevelID     string         `gorm:"not null;default:'normal';index" json:"member_level"`  // 会员等级标识（派生值，不可单独改写）
	GrowthValue int            `gorm:"not null;default:0" json:"growth_value"`               // 成长值
	Points      int            `gorm:"not null;default:0" json:"points"`                     // 积分
	Balance     Money          `gorm:"type:decimal(10,2);not null;default:0" json:"balance"` // 余额（等于流水按序回放的结果）
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`               // 是否激活
	LastLoginAt *time.Time     `json:"last_login_at"`                                        // 最后登录时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (Member) TableName() string {
	return "members"
}
