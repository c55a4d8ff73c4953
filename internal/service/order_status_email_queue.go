package service

import (
	"strings"

	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/queue"
)

// enqueueOrderStatusEmailTaskIfEligible 根据订单联系邮箱决定是否入队状态邮件任务。
// 返回值 skipped 表示任务被跳过（未开启队列或订单无邮箱）。
func enqueueOrderStatusEmailTaskIfEligible(queueClient *queue.Client, order *models.Order, locale string) (skipped bool, err error) {
	if !queueClient.Enabled() || order == nil || order.ID == 0 {
		return true, nil
	}
	if strings.TrimSpace(order.CustomerEmail) == "" {
		return true, nil
	}
	if err := queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: order.ID,
		Status:  order.Status,
		Locale:  strings.TrimSpace(locale),
	}); err != nil {
		return false, err
	}
	return false, nil
}

// enqueueOrderConfirmationEmailTaskIfEligible 下单后入队确认邮件
func enqueueOrderConfirmationEmailTaskIfEligible(queueClient *queue.Client, order *models.Order, locale string) (queued bool, err error) {
	if !queueClient.Enabled() || order == nil || order.ID == 0 {
		return false, nil
	}
	if strings.TrimSpace(order.CustomerEmail) == "" {
		return false, nil
	}
	if err := queueClient.EnqueueOrderConfirmationEmail(queue.OrderConfirmationEmailPayload{
		OrderID: order.ID,
		Locale:  strings.TrimSpace(locale),
	}); err != nil {
		return false, err
	}
	return true, nil
}
