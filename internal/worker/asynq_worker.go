package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/metrics"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/provider"
	"github.com/bakery-next/internal/queue"
	"github.com/bakery-next/internal/service"

	"github.com/hibiken/asynq"
)

type orderLoader interface {
	GetOrder(orderID uint) (*models.Order, error)
}

type orderMailer interface {
	Enabled() bool
	SendOrderConfirmationEmail(order *models.Order, locale string) error
	SendOrderStatusEmail(order *models.Order, status int, locale string) error
}

type membershipRefresher interface {
	Recompute(ctx context.Context, customerID uint) (*models.Customer, error)
	RefreshAll(ctx context.Context) (int, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	orders     orderLoader
	mailer     orderMailer
	membership membershipRefresher
	metrics    *metrics.Metrics
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return nil
	}
	return &Consumer{
		orders:     c.OrderService,
		mailer:     c.EmailService,
		membership: c.MembershipService,
		metrics:    c.Metrics,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.observe(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail))
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.observe(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail))
	mux.HandleFunc(queue.TaskMembershipRecompute, c.observe(queue.TaskMembershipRecompute, c.handleMembershipRecompute))
}

func (c *Consumer) observe(job string, handler func(context.Context, *asynq.Task) error) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		start := time.Now()
		err := handler(ctx, task)
		c.metrics.ObserveJob(job, time.Since(start), err)
		return err
	}
}

func (c *Consumer) handleOrderConfirmationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmation_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := queue.ParsePayload(task, &payload); err != nil {
		logger.Warnw("worker_order_confirmation_email_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadMailableOrder("worker_order_confirmation_email", payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	if err := c.mailer.SendOrderConfirmationEmail(order, payload.Locale); err != nil {
		logger.Warnw("worker_order_confirmation_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", order.CustomerEmail,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := queue.ParsePayload(task, &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadMailableOrder("worker_order_status_email", payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	if err := c.mailer.SendOrderStatusEmail(order, payload.Status, payload.Locale); err != nil {
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", order.CustomerEmail,
			"status", payload.Status,
			"error", err,
		)
		return err
	}
	return nil
}

// loadMailableOrder 加载需要发信的订单，返回 nil 订单表示跳过
func (c *Consumer) loadMailableOrder(event string, orderID uint) (*models.Order, error) {
	if orderID == 0 {
		logger.Debugw(event+"_skip_invalid_payload", "order_id", orderID)
		return nil, nil
	}
	if c.mailer == nil || !c.mailer.Enabled() {
		logger.Debugw(event+"_skip_email_disabled", "order_id", orderID)
		return nil, nil
	}
	if c.orders == nil {
		logger.Warnw(event+"_skip_order_service_nil", "order_id", orderID)
		return nil, nil
	}
	order, err := c.orders.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw(event+"_skip_order_not_found", "order_id", orderID)
			return nil, nil
		}
		logger.Warnw(event+"_fetch_order_failed", "order_id", orderID, "error", err)
		return nil, err
	}
	if strings.TrimSpace(order.CustomerEmail) == "" {
		logger.Debugw(event+"_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil, nil
	}
	return order, nil
}

func (c *Consumer) handleMembershipRecompute(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_membership_recompute_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.MembershipRecomputePayload
	if err := queue.ParsePayload(task, &payload); err != nil {
		logger.Warnw("worker_membership_recompute_unmarshal_failed", "error", err)
		return err
	}
	if payload.CustomerID == 0 || c.membership == nil {
		logger.Debugw("worker_membership_recompute_skip", "customer_id", payload.CustomerID)
		return nil
	}
	if _, err := c.membership.Recompute(ctx, payload.CustomerID); err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			logger.Debugw("worker_membership_recompute_skip_customer_not_found", "customer_id", payload.CustomerID)
			return nil
		}
		logger.Warnw("worker_membership_recompute_failed", "customer_id", payload.CustomerID, "error", err)
		return err
	}
	return nil
}

// refreshMemberships 全量刷新会员等级，使窗口外的消费自然失效
func (c *Consumer) refreshMemberships(ctx context.Context) {
	if c == nil || c.membership == nil {
		return
	}
	start := time.Now()
	count, err := c.membership.RefreshAll(ctx)
	c.metrics.ObserveJob("membership:refresh_all", time.Since(start), err)
	if err != nil {
		logger.Warnw("worker_membership_refresh_failed", "error", err)
		return
	}
	logger.Infow("worker_membership_refreshed", "customers", count, "elapsed_ms", time.Since(start).Milliseconds())
}
