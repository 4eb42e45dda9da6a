package service

import (
	"testing"

	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/models"
)

func TestAnnounceMessageFormat(t *testing.T) {
	cfg := newTestBlogConfig()
	cfg.Announce.Types["press"] = config.AnnounceTypeConfig{
		Label:        "New press release",
		PathTemplate: "/press/releases/%d",
	}
	svc := NewAnnounceService(cfg, nil)

	post := &models.Post{
		ID:    7,
		Title: "Launch day",
		Type:  &models.PostType{Name: "blog"},
	}
	message, ok := svc.Message(post)
	if !ok {
		t.Fatalf("blog type must have a template")
	}
	want := "New blog post - Launch day http://example.com/blog/articles/7"
	if message != want {
		t.Fatalf("want %q, got %q", want, message)
	}

	post.Type = &models.PostType{Name: "press"}
	message, ok = svc.Message(post)
	if !ok {
		t.Fatalf("press type must have a template")
	}
	want = "New press release - Launch day http://example.com/press/releases/7"
	if message != want {
		t.Fatalf("want %q, got %q", want, message)
	}
}

func TestAnnounceMessageSkipsUnconfiguredType(t *testing.T) {
	cfg := newTestBlogConfig()
	svc := NewAnnounceService(cfg, nil)

	post := &models.Post{
		ID:    7,
		Title: "Internal note",
		Type:  &models.PostType{Name: "memo"},
	}
	if _, ok := svc.Message(post); ok {
		t.Fatalf("unconfigured type must be skipped")
	}
}
