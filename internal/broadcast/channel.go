package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultChannelTimeout = 5 * time.Second

// Channel 单个广播渠道；Send 失败只影响自身，不影响其他渠道
type Channel interface {
	Name() string
	Kind() string
	Send(ctx context.Context, message string) error
}

// WebhookChannel 通过 HTTP POST 推送公告文案（社交类外呼的统一出口）
type WebhookChannel struct {
	name    string
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewWebhookChannel 创建 webhook 渠道
func NewWebhookChannel(name, rawURL string, timeout time.Duration) *WebhookChannel {
	if timeout <= 0 {
		timeout = defaultChannelTimeout
	}
	return &WebhookChannel{
		name:    name,
		url:     rawURL,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Name 渠道名称
func (c *WebhookChannel) Name() string { return c.name }

// Kind 渠道种类
func (c *WebhookChannel) Kind() string { return "webhook" }

// Send 推送公告，响应非 2xx 视为失败
func (c *WebhookChannel) Send(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s responded %d", c.name, resp.StatusCode)
	}
	return nil
}

// PingChannel 通过 HTTP GET 通知搜索引擎抓取给定 URL
type PingChannel struct {
	name    string
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewPingChannel 创建搜索引擎 ping 渠道
func NewPingChannel(name, rawURL string, timeout time.Duration) *PingChannel {
	if timeout <= 0 {
		timeout = defaultChannelTimeout
	}
	return &PingChannel{
		name:    name,
		url:     rawURL,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Name 渠道名称
func (c *PingChannel) Name() string { return c.name }

// Kind 渠道种类
func (c *PingChannel) Kind() string { return "ping" }

// Send 发起 ping；message 为要通知的完整 URL
func (c *PingChannel) Send(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pingURL := c.url
	if strings.Contains(pingURL, "?") {
		pingURL += "&url=" + url.QueryEscape(message)
	} else {
		pingURL += "?url=" + url.QueryEscape(message)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pingURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ping %s responded %d", c.name, resp.StatusCode)
	}
	return nil
}
