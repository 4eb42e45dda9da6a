package worker

import (
	"context"
	"encoding/json"

	"github.com/blogit-next/internal/logger"
	"github.com/blogit-next/internal/provider"
	"github.com/blogit-next/internal/queue"

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
	mux.HandleFunc(queue.TaskPostAnnounce, c.handlePostAnnounce)
	mux.HandleFunc(queue.TaskSearchPing, c.handleSearchPing)
}

func (c *Consumer) handlePostAnnounce(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.PostAnnouncePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_post_announce_unmarshal_failed", "error", err)
		return err
	}
	if payload.PostID == 0 || payload.Message == "" {
		logger.Debugw("worker_post_announce_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	// 公告在入队前已判定为首次发布，这里只负责把文案推到渠道；
	// 渠道失败在分发器内部消化，不向队列返回错误触发重试
	return c.AnnounceService.Dispatch(ctx, payload)
}

func (c *Consumer) handleSearchPing(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.SearchPingPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_search_ping_unmarshal_failed", "error", err)
		return err
	}
	if payload.SitemapURL == "" {
		logger.Debugw("worker_search_ping_skip_empty_url")
		return nil
	}
	return c.AnnounceService.DispatchSearchPing(ctx, payload)
}
