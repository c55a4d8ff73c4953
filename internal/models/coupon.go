package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
type Coupon struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                                            // 主键
	Code                  string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"code"`              // 优惠码
	Name                  string         `gorm:"type:varchar(255)" json:"name"`                                   // 展示名称
	DiscountType          string         `gorm:"type:varchar(16);not null" json:"discount_type"`                 // 类型（fixed/percent/free_ship）
	DiscountValue         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"`    // 数值（固定金额或百分比）
	MaxDiscount           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`      // 最大优惠金额（0 表示不限）
	MinOrderAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"`  // 使用门槛
	StartDate             *time.Time     `gorm:"index" json:"start_date"`                                         // 生效时间
	EndDate               *time.Time     `gorm:"index" json:"end_date"`                                           // 失效时间
	TimeRestriction       string         `gorm:"type:varchar(16)" json:"time_restriction"`                        // 每日可用时段（HH:MM-HH:MM）
	TotalUsageLimit       int            `gorm:"not null;default:0" json:"total_usage_limit"`                     // 总使用上限（0 表示不限制）
	CurrentUsageCount     int            `gorm:"not null;default:0" json:"current_usage_count"`                   // 已使用次数
	UsagePerCustomer      int            `gorm:"not null;default:0" json:"usage_per_customer"`                    // 每人使用上限（0 表示不限制）
	AllowedCustomerEmails StringArray    `gorm:"type:json" json:"allowed_customer_emails"`                        // 限定邮箱（为空表示不限）
	Status                int            `gorm:"index;not null;default:1" json:"status"`                          // 状态（1 启用 / 0 停用）
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt             time.Time      `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
