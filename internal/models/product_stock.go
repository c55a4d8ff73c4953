package models

import "time"

// ProductStock 库存流水（只追加；提交时仅 RESERVE 翻转为 OUT）
type ProductStock struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                           // 主键
	ProductID uint      `gorm:"index:idx_product_stock_product;not null" json:"product_id"`     // 商品ID
	Qty       int64     `gorm:"not null" json:"qty"`                                            // 带符号数量（正数增加，负数减少）
	Type      string    `gorm:"type:varchar(16);index;not null" json:"type"`                    // 类型（IN/OUT/RESERVE/RELEASE）
	RefType   string    `gorm:"type:varchar(32);index:idx_product_stock_ref" json:"ref_type"`   // 关联单据类型
	RefID     uint      `gorm:"index:idx_product_stock_ref" json:"ref_id"`                      // 关联单据ID
	Note      string    `gorm:"type:varchar(500)" json:"note"`                                  // 备注
	Status    int       `gorm:"index:idx_product_stock_product;not null;default:1" json:"status"` // 状态（1 有效 / 0 已清除）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                     // 更新时间
}

// TableName 指定表名
func (ProductStock) TableName() string {
	return "product_stocks"
}
