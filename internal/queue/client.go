package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 顾客可感知任务（下单确认邮件）使用的队列
	CriticalQueue = constants.QueueCritical

	maxRetryDelay = 10 * time.Minute
)

// Client 队列客户端，未启用时所有投递为空操作
type Client struct {
	client *asynq.Client
	queues map[string]int
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{
		client: asynq.NewClient(buildRedisOpt(cfg)),
		queues: resolveQueues(cfg),
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderConfirmationEmail 推送下单确认邮件任务
func (c *Client) EnqueueOrderConfirmationEmail(payload OrderConfirmationEmailPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderConfirmationEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, c.queueFor(CriticalQueue), opts...)
}

// EnqueueOrderStatusEmail 推送订单状态邮件任务
func (c *Client) EnqueueOrderStatusEmail(payload OrderStatusEmailPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderStatusEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, DefaultQueue, opts...)
}

// EnqueueMembershipRecompute 推送会员等级重算任务
// 同一顾客在 delay 窗口内的重复触发只保留一个任务。
func (c *Client) EnqueueMembershipRecompute(payload MembershipRecomputePayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if delay < 0 {
		delay = 0
	}
	task, err := NewMembershipRecomputeTask(payload)
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.ProcessIn(delay)}
	if delay > 0 {
		opts = append(opts, asynq.Unique(delay))
	}
	return c.enqueue(task, DefaultQueue, opts...)
}

func (c *Client) enqueue(task *asynq.Task, queueName string, opts ...asynq.Option) error {
	options := append([]asynq.Option{asynq.Queue(queueName)}, opts...)
	info, err := c.client.Enqueue(task, options...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Debugw("queue_task_deduplicated", "type", task.Type(), "queue", queueName)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debugw("queue_task_enqueued", "type", task.Type(), "queue", info.Queue, "task_id", info.ID)
	return nil
}

// queueFor 目标队列未在配置中声明时回退到默认队列，避免任务无人消费
func (c *Client) queueFor(name string) string {
	if _, ok := c.queues[name]; ok {
		return name
	}
	return DefaultQueue
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency:    concurrency,
		Queues:         resolveQueues(cfg),
		RetryDelayFunc: retryDelay,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warnw("queue_task_failed",
				"type", task.Type(),
				"retried", retried,
				"max_retry", maxRetry,
				"error", err,
			)
		}),
	}
}

// retryDelay 指数退避：30s、1m、2m……上限 10 分钟
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	delay := 30 * time.Second
	for i := 0; i < n && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

func resolveQueues(cfg *config.QueueConfig) map[string]int {
	queues := map[string]int{}
	if cfg != nil {
		for name, weight := range cfg.Queues {
			name = strings.TrimSpace(name)
			if name == "" || weight <= 0 {
				continue
			}
			queues[name] = weight
		}
	}
	if _, ok := queues[DefaultQueue]; !ok {
		queues[DefaultQueue] = 1
	}
	return queues
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	opt := asynq.RedisClientOpt{}
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		opt.Password = cfg.Password
		opt.DB = cfg.DB
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	return opt
}
