package queue

import (
	"encoding/json"

	"github.com/bakery-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmationEmail 下单确认邮件任务
	TaskOrderConfirmationEmail = constants.TaskOrderConfirmationEmail
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskMembershipRecompute 会员等级重算任务
	TaskMembershipRecompute = constants.TaskMembershipRecompute
)

// OrderConfirmationEmailPayload 下单确认邮件任务载荷
type OrderConfirmationEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Locale  string `json:"locale"`
}

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  int    `json:"status"`
	Locale  string `json:"locale"`
}

// MembershipRecomputePayload 会员等级重算任务载荷
type MembershipRecomputePayload struct {
	CustomerID uint `json:"customer_id"`
}

// NewOrderConfirmationEmailTask 创建下单确认邮件任务
func NewOrderConfirmationEmailTask(payload OrderConfirmationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmationEmail, body, asynq.MaxRetry(5)), nil
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body, asynq.MaxRetry(5)), nil
}

// NewMembershipRecomputeTask 创建会员等级重算任务
func NewMembershipRecomputeTask(payload MembershipRecomputePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMembershipRecompute, body), nil
}

// ParsePayload 解析任务载荷
func ParsePayload(task *asynq.Task, out interface{}) error {
	return json.Unmarshal(task.Payload(), out)
}
