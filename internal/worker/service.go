package worker

import (
	"context"
	"errors"
	"time"

	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务；队列未启用时仅运行会员定时刷新
type Service struct {
	name            string
	server          *asynq.Server
	mux             *asynq.ServeMux
	consumer        *Consumer
	refreshInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	s := &Service{
		name:            "worker",
		consumer:        consumer,
		refreshInterval: time.Duration(cfg.Membership.RefreshIntervalMinutes) * time.Minute,
	}
	if cfg.Queue.Enabled {
		opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
		serverCfg.Logger = logger.S()
		s.server = asynq.NewServer(opt, serverCfg)
		s.mux = asynq.NewServeMux()
		consumer.Register(s.mux)
	} else {
		logger.Warnw("worker_queue_disabled", "membership_refresh_minutes", cfg.Membership.RefreshIntervalMinutes)
	}
	if s.server == nil && s.refreshInterval <= 0 {
		return nil, errors.New("queue disabled and membership refresh disabled")
	}
	return s, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("worker not initialized")
	}
	if s.server == nil {
		s.runMembershipRefreshLoop(ctx)
		return nil
	}
	if s.refreshInterval > 0 {
		go s.runMembershipRefreshLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runMembershipRefreshLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.refreshInterval <= 0 {
		<-ctx.Done()
		return
	}
	s.consumer.refreshMemberships(ctx)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.consumer.refreshMemberships(ctx)
		}
	}
}
