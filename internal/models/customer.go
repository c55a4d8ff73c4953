package models

import "time"

// Customer 顾客及会员汇总（汇总字段由订单全量重算）
type Customer struct {
	ID                  uint       `gorm:"primarykey" json:"id"`                                       // 主键
	Name                string     `gorm:"type:varchar(120)" json:"name"`                              // 姓名
	Email               string     `gorm:"type:varchar(255);uniqueIndex" json:"email"`                 // 邮箱（小写存储，唯一）
	Phone               string     `gorm:"type:varchar(32);index" json:"phone"`                        // 电话
	Locale              string     `gorm:"type:varchar(20)" json:"locale"`                             // 语言偏好
	TotalOrders         int        `gorm:"not null;default:0" json:"total_orders"`                     // 已送达订单数
	TotalSpent          Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_spent"`  // 累计消费
	MembershipLevel     string     `gorm:"type:varchar(32);index" json:"membership_level"`             // 会员等级
	MembershipLabel     string     `gorm:"type:varchar(64)" json:"membership_label"`                   // 等级名称
	MembershipChangedAt *time.Time `json:"membership_changed_at"`                                      // 等级变更时间
	CreatedAt           time.Time  `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt           time.Time  `json:"updated_at"`                                                 // 更新时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
