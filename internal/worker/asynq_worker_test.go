package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/provider"
	"github.com/blogit-next/internal/queue"
	"github.com/blogit-next/internal/service"

	"github.com/hibiken/asynq"
)

func newTestConsumer(t *testing.T, channels []config.AnnounceChannelConfig) *Consumer {
	t.Helper()
	cfg := &config.Config{
		Announce: config.AnnounceConfig{
			SiteHostname: "example.com",
			Types: map[string]config.AnnounceTypeConfig{
				"blog": {Label: "New blog post", PathTemplate: "/blog/articles/%d"},
			},
			Channels: channels,
		},
	}
	container := &provider.Container{
		Config:          cfg,
		AnnounceService: service.NewAnnounceService(cfg, nil),
	}
	return NewConsumer(container)
}

func TestHandlePostAnnounceDispatchesToWebhook(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	consumer := newTestConsumer(t, []config.AnnounceChannelConfig{
		{Name: "hook", Kind: "webhook", URL: server.URL, TimeoutMS: 2000},
	})

	task, err := queue.NewPostAnnounceTask(queue.PostAnnouncePayload{PostID: 1, Message: "hello"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePostAnnounce(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Fatalf("want 1 webhook hit, got %d", got)
	}
}

func TestHandlePostAnnounceSkipsInvalidPayload(t *testing.T) {
	consumer := newTestConsumer(t, nil)

	task := asynq.NewTask(queue.TaskPostAnnounce, []byte(`{"post_id":0,"message":""}`))
	if err := consumer.handlePostAnnounce(context.Background(), task); err != nil {
		t.Fatalf("invalid payload must be skipped without error, got %v", err)
	}

	broken := asynq.NewTask(queue.TaskPostAnnounce, []byte(`not-json`))
	if err := consumer.handlePostAnnounce(context.Background(), broken); err == nil {
		t.Fatalf("malformed payload must return an error")
	}
}

func TestHandleSearchPing(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	consumer := newTestConsumer(t, []config.AnnounceChannelConfig{
		{Name: "search", Kind: "ping", URL: server.URL, TimeoutMS: 2000},
	})

	task, err := queue.NewSearchPingTask(queue.SearchPingPayload{SitemapURL: "http://example.com/sitemap.xml"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleSearchPing(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Fatalf("want 1 ping hit, got %d", got)
	}
}
