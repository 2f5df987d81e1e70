package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/provider"
	"github.com/unihub-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNewsRefresh, c.handleNewsRefresh)
	mux.HandleFunc(queue.TaskAuthPurgeExpired, c.handleAuthPurgeExpired)
}

func (c *Consumer) handleNewsRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_news_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.NewsRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_news_refresh_unmarshal_failed", "error", err)
		return err
	}
	if c.NewsService == nil {
		logger.Warnw("worker_news_refresh_skip_service_nil")
		return nil
	}
	inserted, err := c.NewsService.RefreshAll(ctx)
	if err != nil {
		logger.Warnw("worker_news_refresh_failed", "error", err)
		return err
	}
	logger.Infow("worker_news_refresh_done", "inserted", inserted)
	return nil
}

func (c *Consumer) handleAuthPurgeExpired(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_auth_purge_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AuthPurgeExpiredPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_auth_purge_unmarshal_failed", "error", err)
		return err
	}
	olderThanHours := payload.OlderThanHours
	if olderThanHours <= 0 {
		olderThanHours = 24
	}
	cutoff := time.Now().Add(-time.Duration(olderThanHours) * time.Hour)

	if err := c.OTPCodeRepo.PurgeOlderThan(cutoff); err != nil {
		logger.Warnw("worker_auth_purge_codes_failed", "error", err)
		return err
	}
	if err := c.PendingSignupRepo.PurgeOlderThan(cutoff); err != nil {
		logger.Warnw("worker_auth_purge_pending_failed", "error", err)
		return err
	}
	logger.Infow("worker_auth_purge_done", "cutoff", cutoff)
	return nil
}
