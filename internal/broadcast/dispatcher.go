package broadcast

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/blogit-next/internal/logger"
)

// Dispatcher 把一条文案分发到一组渠道；每个渠道独立超时、独立失败
type Dispatcher struct {
	channels []Channel
}

// NewDispatcher 创建渠道分发器
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// ChannelSpec 渠道装配参数
type ChannelSpec struct {
	Name      string
	Kind      string // webhook / ping
	URL       string
	TimeoutMS int
}

// Build 按装配参数构建分发器，未知种类记日志后跳过
func Build(specs []ChannelSpec) *Dispatcher {
	channels := make([]Channel, 0, len(specs))
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		rawURL := strings.TrimSpace(spec.URL)
		if rawURL == "" {
			logger.Warnw("broadcast_channel_skip_empty_url", "channel", name)
			continue
		}
		timeout := time.Duration(spec.TimeoutMS) * time.Millisecond
		switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
		case "webhook":
			channels = append(channels, NewWebhookChannel(name, rawURL, timeout))
		case "ping":
			channels = append(channels, NewPingChannel(name, rawURL, timeout))
		default:
			logger.Warnw("broadcast_channel_skip_unknown_kind", "channel", name, "kind", spec.Kind)
		}
	}
	return NewDispatcher(channels...)
}

// Dispatch 将文案并发推送到指定种类的全部渠道，等待所有渠道完成；
// 单渠道失败仅记日志，永不向调用方传播
func (d *Dispatcher) Dispatch(ctx context.Context, kind, message string) {
	if d == nil || len(d.channels) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, channel := range d.channels {
		if kind != "" && channel.Kind() != kind {
			continue
		}
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			if err := ch.Send(ctx, message); err != nil {
				logger.Warnw("broadcast_dispatch_failed",
					"channel", ch.Name(),
					"kind", ch.Kind(),
					"error", err,
				)
				return
			}
			logger.Infow("broadcast_dispatched", "channel", ch.Name(), "kind", ch.Kind())
		}(channel)
	}
	wg.Wait()
}

// Channels 当前装配的渠道（测试用）
func (d *Dispatcher) Channels() []Channel {
	if d == nil {
		return nil
	}
	return d.channels
}
