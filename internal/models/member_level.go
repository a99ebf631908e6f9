package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberLevel 会员等级表（管理后台维护，引擎只读）
type MemberLevel struct {
	ID             uint            `gorm:"primarykey" json:"id"`                                    // 主键
	Name           string          `gorm:"type:varchar(50);not null" json:"name"`                   // 等级名称
	LevelID        string          `gorm:"uniqueIndex;type:varchar(20);not null" json:"level_id"`   // 等级标识（normal/silver/gold）
	GrowthRequired int             `gorm:"not null" json:"growth_required"`                         // 升到该等级所需成长值（全表严格递增，基础等级为 0）
	Discount       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:100" json:"discount"`  // 会员折扣（100 表示无折扣，95 表示 95 折）
	Icon           string          `gorm:"type:varchar(255)" json:"icon"`                           // 等级图标
	Color          string          `gorm:"type:varchar(20)" json:"color"`                           // 等级颜色
	SortOrder      int             `gorm:"not null;default:0" json:"sort_order"`                    // 排序顺序
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`                  // 是否激活
	CreatedAt      time.Time       `json:"created_at"`                                              // 创建时间
	UpdatedAt      time.Time       `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (MemberLevel) TableName() string {
	return "member_levels"
}
