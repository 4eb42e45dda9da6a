package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestBuildSkipsInvalidSpecs(t *testing.T) {
	dispatcher := Build([]ChannelSpec{
		{Name: "ok", Kind: "webhook", URL: "http://example.com/hook"},
		{Name: "no-url", Kind: "webhook", URL: " "},
		{Name: "bad-kind", Kind: "smoke-signal", URL: "http://example.com"},
		{Name: "ping", Kind: "ping", URL: "http://example.com/ping"},
	})
	if len(dispatcher.Channels()) != 2 {
		t.Fatalf("want 2 channels built, got %d", len(dispatcher.Channels()))
	}
}

func TestDispatchFiltersByKindAndIsolatesFailures(t *testing.T) {
	var webhookHits, pingHits int64

	webhookServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode webhook payload failed: %v", err)
		}
		if payload["text"] != "hello" {
			t.Errorf("want text hello, got %q", payload["text"])
		}
		atomic.AddInt64(&webhookHits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer webhookServer.Close()

	failingServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failingServer.Close()

	pingServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&pingHits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer pingServer.Close()

	dispatcher := Build([]ChannelSpec{
		{Name: "good", Kind: "webhook", URL: webhookServer.URL, TimeoutMS: 2000},
		{Name: "broken", Kind: "webhook", URL: failingServer.URL, TimeoutMS: 2000},
		{Name: "search", Kind: "ping", URL: pingServer.URL, TimeoutMS: 2000},
	})

	// Dispatch 等待全部渠道返回；失败渠道不影响其余渠道
	dispatcher.Dispatch(context.Background(), "webhook", "hello")
	if got := atomic.LoadInt64(&webhookHits); got != 1 {
		t.Fatalf("want 1 webhook hit, got %d", got)
	}
	if got := atomic.LoadInt64(&pingHits); got != 0 {
		t.Fatalf("ping channel must not receive webhook dispatch, got %d", got)
	}

	dispatcher.Dispatch(context.Background(), "ping", "http://example.com/sitemap.xml")
	if got := atomic.LoadInt64(&pingHits); got != 1 {
		t.Fatalf("want 1 ping hit, got %d", got)
	}
}

func TestPingChannelEscapesTarget(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("url")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	channel := NewPingChannel("search", server.URL, 0)
	if err := channel.Send(context.Background(), "http://example.com/sitemap.xml?page=1"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if gotQuery != "http://example.com/sitemap.xml?page=1" {
		t.Fatalf("target url must round-trip through escaping, got %q", gotQuery)
	}
}
