package models

import "time"

// OrderItem 订单商品表
// 名称/单价/规格在下单时快照，后续商品目录变更不影响已生成的订单。
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                  // 主键
	OrderID      uint      `gorm:"index;not null" json:"order_id"`                        // 订单ID
	ProductID    uint      `gorm:"index" json:"product_id"`                               // 商品ID
	ProductName  string    `gorm:"type:varchar(100);not null" json:"product_name"`        // 商品名称快照
	Price        Money     `gorm:"type:decimal(10,2);not null" json:"price"`              // 单价快照
	Quantity     int       `gorm:"not null" json:"quantity"`                              // 数量
	Spec         string    `gorm:"type:varchar(50)" json:"spec"`                          // 规格
	Sugar        string    `gorm:"type:varchar(50)" json:"sugar"`                         // 糖分
	Ice          string    `gorm:"type:varchar(50)" json:"ice"`                           // 冰度
	Toppings     string    `gorm:"type:text" json:"toppings"`                             // 配料（JSON 数组文本）
	ProductImage string    `gorm:"type:varchar(255)" json:"product_image"`                // 商品图片
	TotalPrice   Money     `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt    time.Time `json:"created_at"`                                            // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
