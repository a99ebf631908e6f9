package models

import "time"

// SystemConfig 系统配置表
// 成长值/积分换算比例以 {"rate": n} 形式存在 value 中。
type SystemConfig struct {
	ID          uint      `gorm:"primarykey" json:"id"`                             // 主键
	Key         string    `gorm:"uniqueIndex;type:varchar(50);not null" json:"key"` // 配置键
	Value       JSON      `gorm:"type:json" json:"value"`                           // 配置值（JSON）
	Description string    `gorm:"type:varchar(255)" json:"description"`             // 配置描述
	Category    string    `gorm:"type:varchar(50)" json:"category"`                 // 配置分类
	CreatedAt   time.Time `json:"created_at"`                                       // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (SystemConfig) TableName() string {
	return "system_configs"
}
