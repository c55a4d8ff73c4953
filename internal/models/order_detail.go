package models

import "time"

// OrderDetail 订单明细
type OrderDetail struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                       // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`                             // 订单ID
	ProductID *uint     `gorm:"index" json:"product_id,omitempty"`                          // 商品ID（自由行为空）
	VariantID *uint     `gorm:"index" json:"variant_id,omitempty"`                          // 规格ID
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`                     // 商品名称快照
	Qty       int       `gorm:"not null" json:"qty"`                                        // 数量
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 单价
	Amount    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`        // 行金额（数量×单价）
	Discount  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`      // 分摊优惠
	Reserved  bool      `gorm:"not null;default:false" json:"reserved"`                     // 该行库存是否已预占
	CreatedAt time.Time `json:"created_at"`                                                 // 创建时间
}

// TableName 指定表名
func (OrderDetail) TableName() string {
	return "order_details"
}
