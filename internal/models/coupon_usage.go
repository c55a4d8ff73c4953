package models

import "time"

// CouponUsage 优惠券使用记录（只追加，取消时仅标记回退）
type CouponUsage struct {
	ID             uint       `gorm:"primarykey" json:"id"`                                         // 主键
	CouponID       uint       `gorm:"uniqueIndex:idx_coupon_usage_order;not null" json:"coupon_id"` // 优惠券ID
	OrderID        uint       `gorm:"uniqueIndex:idx_coupon_usage_order;not null" json:"order_id"`  // 订单ID
	CustomerID     *uint      `gorm:"index" json:"customer_id,omitempty"`                           // 会员ID
	Email          string     `gorm:"type:varchar(255);index" json:"email,omitempty"`               // 使用者邮箱
	Phone          string     `gorm:"type:varchar(32);index" json:"phone,omitempty"`                // 使用者电话
	OrderAmount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"order_amount"`    // 订单金额
	DiscountAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	ReleasedAt     *time.Time `gorm:"index" json:"released_at,omitempty"`                           // 回退时间，非空时不再计入使用次数
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                                      // 创建时间
}

// TableName 指定表名
func (CouponUsage) TableName() string {
	return "coupon_usages"
}
