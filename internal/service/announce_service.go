package service

import (
	"context"
	"fmt"

	"github.com/blogit-next/internal/broadcast"
	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/constants"
	"github.com/blogit-next/internal/logger"
	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/queue"

	"github.com/hibiken/asynq"
)

// AnnounceService 发布公告服务：文案拼装与渠道分发，
// 存储提交之后异步执行，失败只记日志
type AnnounceService struct {
	cfg         *config.Config
	queueClient *queue.Client
	dispatcher  *broadcast.Dispatcher
}

// NewAnnounceService 创建发布公告服务
func NewAnnounceService(cfg *config.Config, queueClient *queue.Client) *AnnounceService {
	specs := make([]broadcast.ChannelSpec, 0, len(cfg.Announce.Channels))
	for _, channel := range cfg.Announce.Channels {
		specs = append(specs, broadcast.ChannelSpec{
			Name:      channel.Name,
			Kind:      channel.Kind,
			URL:       channel.URL,
			TimeoutMS: channel.TimeoutMS,
		})
	}
	return &AnnounceService{
		cfg:         cfg,
		queueClient: queueClient,
		dispatcher:  broadcast.Build(specs),
	}
}

// Message 拼装公告文案；文章类型未配置公告模板时返回 ok=false
func (s *AnnounceService) Message(post *models.Post) (string, bool) {
	typeName := post.TypeName()
	typeCfg, ok := s.cfg.Announce.Types[typeName]
	if !ok {
		return "", false
	}
	path := fmt.Sprintf(typeCfg.PathTemplate, post.ID)
	message := fmt.Sprintf("%s - %s http://%s%s", typeCfg.Label, post.Title, s.cfg.Announce.SiteHostname, path)
	return message, true
}

// Announce 首次发布后的公告：优先入队（不自动重试），队列关闭或入队失败时异步直发
func (s *AnnounceService) Announce(post *models.Post) {
	message, ok := s.Message(post)
	if !ok {
		logger.Debugw("announce_skip_unconfigured_type", "post_id", post.ID, "type", post.TypeName())
		return
	}
	logger.Infow("announcing", "post_id", post.ID, "message", message)

	if s.queueClient.Enabled() {
		payload := queue.PostAnnouncePayload{PostID: post.ID, Message: message}
		err := s.queueClient.EnqueuePostAnnounce(payload, asynq.MaxRetry(0))
		if err == nil {
			return
		}
		logger.Warnw("announce_enqueue_failed_fallback_direct", "post_id", post.ID, "error", err)
	}
	go s.dispatcher.Dispatch(context.Background(), constants.ChannelKindWebhook, message)
}

// Dispatch worker 回调：把公告文案推到全部 webhook 渠道
func (s *AnnounceService) Dispatch(ctx context.Context, payload queue.PostAnnouncePayload) error {
	if payload.Message == "" {
		logger.Debugw("announce_dispatch_skip_empty_message", "post_id", payload.PostID)
		return nil
	}
	s.dispatcher.Dispatch(ctx, constants.ChannelKindWebhook, payload.Message)
	return nil
}

// PingSearchEngines 管理端写操作后的搜索引擎通知（配置开关控制）
func (s *AnnounceService) PingSearchEngines() {
	if !s.cfg.Announce.PingSearchEngines {
		return
	}
	sitemapURL := fmt.Sprintf("http://%s%s", s.cfg.Announce.SiteHostname, s.cfg.Announce.SitemapPath)

	if s.queueClient.Enabled() {
		payload := queue.SearchPingPayload{SitemapURL: sitemapURL}
		err := s.queueClient.EnqueueSearchPing(payload, asynq.MaxRetry(0))
		if err == nil {
			return
		}
		logger.Warnw("search_ping_enqueue_failed_fallback_direct", "error", err)
	}
	go s.dispatcher.Dispatch(context.Background(), constants.ChannelKindPing, sitemapURL)
}

// DispatchSearchPing worker 回调：把 sitemap URL 推到全部 ping 渠道
func (s *AnnounceService) DispatchSearchPing(ctx context.Context, payload queue.SearchPingPayload) error {
	if payload.SitemapURL == "" {
		return nil
	}
	s.dispatcher.Dispatch(ctx, constants.ChannelKindPing, payload.SitemapURL)
	return nil
}
