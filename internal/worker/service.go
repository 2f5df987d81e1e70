package worker

import (
	"context"
	"errors"
	"time"

	"github.com/unihub-next/internal/config"
	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	authPurgeInterval   = time.Hour
	authPurgeOlderHours = 24
)

// Service 异步队列服务
type Service struct {
	name       string
	server     *asynq.Server
	mux        *asynq.ServeMux
	consumer   *Consumer
	newsConfig config.NewsConfig
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, newsCfg config.NewsConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:       "worker",
		server:     server,
		mux:        mux,
		consumer:   consumer,
		newsConfig: newsCfg,
	}, nil
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
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.NewsService != nil {
		go s.runNewsRefreshLoop(ctx)
	}
	go s.runAuthPurgeLoop(ctx)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

func (s *Service) runNewsRefreshLoop(ctx context.Context) {
	interval := time.Duration(s.newsConfig.RefreshIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	runOnce := func() {
		inserted, err := s.consumer.NewsService.RefreshAll(ctx)
		if err != nil {
			logger.Warnw("worker_news_refresh_loop_failed", "error", err)
			return
		}
		logger.Infow("worker_news_refresh_loop_done", "inserted", inserted)
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) runAuthPurgeLoop(ctx context.Context) {
	// 周期性投递清理任务，由队列侧消费执行，失败可走 asynq 重试
	runOnce := func() {
		payload := queue.AuthPurgeExpiredPayload{OlderThanHours: authPurgeOlderHours}
		if err := s.consumer.QueueClient.EnqueueAuthPurgeExpired(payload); err != nil {
			logger.Warnw("worker_auth_purge_enqueue_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(authPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
