package models

import "time"

// BalanceRecord 余额流水表
// 只追加、不修改、不删除，是会员余额的审计底账；按 id（创建顺序）回放
// 全部 amount 必须恰好得到 members.balance 的当前值。
type BalanceRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                        // 主键
	MemberID      uint      `gorm:"index:idx_balance_member;not null" json:"member_id"`          // 会员ID
	Kind          string    `gorm:"index;type:varchar(20);not null" json:"kind"`                 // 变动类型：recharge-充值, consume-消费, refund-退款, adjust-调整
	Amount        Money     `gorm:"type:decimal(10,2);not null" json:"amount"`                   // 变动金额（正数为增加，负数为减少）
	BalanceBefore Money     `gorm:"type:decimal(10,2);not null" json:"balance_before"`           // 变动前余额
	BalanceAfter  Money     `gorm:"type:decimal(10,2);not null" json:"balance_after"`            // 变动后余额（= balance_before + amount）
	SourceType    string    `gorm:"index:idx_balance_source;type:varchar(50)" json:"source_type"` // 来源类型：recharge-储值, order-订单, admin-管理员操作, system-系统
	SourceID      *uint     `gorm:"index:idx_balance_source" json:"source_id,omitempty"`         // 来源ID（如订单ID、储值记录ID）
	Description   string    `gorm:"type:varchar(200)" json:"description"`                        // 描述
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                     // 创建时间
}

// TableName 指定表名
func (BalanceRecord) TableName() string {
	return "balance_records"
}
