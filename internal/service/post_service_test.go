package service

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestBlogConfig() *config.Config {
	return &config.Config{
		Blog: config.BlogConfig{
			PostsPerPage:             25,
			TitleMaxLength:           72,
			BodyMinLength:            10,
			DefaultType:              "blog",
			DefaultBloggerKind:       "user",
			BloggerDisplayNameMethod: "username",
			CommentsBackend:          "database",
		},
		Announce: config.AnnounceConfig{
			SiteHostname: "example.com",
			Types: map[string]config.AnnounceTypeConfig{
				"blog": {Label: "New blog post", PathTemplate: "/blog/articles/%d"},
			},
		},
	}
}

func setupPostServiceTest(t *testing.T, cfg *config.Config) (*PostService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.PostType{}, &models.Post{}, &models.Tag{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	author := models.User{Username: "admin", DisplayName: "Admin", IsAdmin: true}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("create author failed: %v", err)
	}
	cfg.Blog.DefaultBloggerID = author.ID

	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	typeRepo := repository.NewPostTypeRepository(db)
	userRepo := repository.NewUserRepository(db)

	types := NewPostTypeService(typeRepo)
	resolver := NewBloggerResolver(cfg, userRepo)
	announcer := NewAnnounceService(cfg, nil)

	return NewPostService(cfg, postRepo, tagRepo, types, resolver, announcer), db
}

func TestCreateAppliesDefaultTypeAndBlogger(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, _ := setupPostServiceTest(t, cfg)

	post, err := svc.Create(CreatePostInput{
		Title: "Hello",
		Body:  "a body long enough",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.TypeName() != "blog" {
		t.Fatalf("want default type blog, got %q", post.TypeName())
	}
	if post.BloggerKind != "user" || post.BloggerID != cfg.Blog.DefaultBloggerID {
		t.Fatalf("want fallback blogger, got %s#%d", post.BloggerKind, post.BloggerID)
	}
	if post.IsPublished || post.PublishedOn != nil {
		t.Fatalf("new post must start unpublished")
	}

	name, err := svc.BloggerDisplayName(post)
	if err != nil {
		t.Fatalf("display name failed: %v", err)
	}
	if name != "admin" {
		t.Fatalf("want display name admin, got %q", name)
	}
}

func TestCreateValidationCollectsFieldErrors(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, _ := setupPostServiceTest(t, cfg)

	_, err := svc.Create(CreatePostInput{Title: "", Body: ""})
	validationErr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(validationErr.On("title")) == 0 || len(validationErr.On("body")) == 0 {
		t.Fatalf("want errors on title and body, got %v", validationErr.Fields)
	}

	_, err = svc.Create(CreatePostInput{Title: "A", Body: "short"})
	validationErr, ok = AsValidationError(err)
	if !ok {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(validationErr.On("title")) != 0 {
		t.Fatalf("one-character title is valid, got %v", validationErr.On("title"))
	}
	if len(validationErr.On("body")) == 0 {
		t.Fatalf("want body too-short error, got %v", validationErr.Fields)
	}

	_, err = svc.Create(CreatePostInput{
		Title: strings.Repeat("x", cfg.Blog.TitleMaxLength+1),
		Body:  "a body long enough",
	})
	validationErr, ok = AsValidationError(err)
	if !ok {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(validationErr.On("title")) == 0 {
		t.Fatalf("want title too-long error, got %v", validationErr.Fields)
	}
}

func TestPublishSetsPublishedOnExactlyOnce(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, _ := setupPostServiceTest(t, cfg)

	post, err := svc.Create(CreatePostInput{
		Title:       "Going live",
		Body:        "a body long enough",
		IsPublished: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.PublishedOn == nil {
		t.Fatalf("publish must set published_on")
	}
	firstPublishedOn := *post.PublishedOn

	// 下架再上架，published_on 保持首次发布时间
	unpublished := false
	post, err = svc.Update(post.ID, UpdatePostInput{IsPublished: &unpublished})
	if err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	if post.IsPublished {
		t.Fatalf("want unpublished")
	}
	if post.PublishedOn == nil || !post.PublishedOn.Equal(firstPublishedOn) {
		t.Fatalf("published_on must survive unpublish, got %v", post.PublishedOn)
	}

	republished := true
	post, err = svc.Update(post.ID, UpdatePostInput{IsPublished: &republished})
	if err != nil {
		t.Fatalf("republish failed: %v", err)
	}
	if post.PublishedOn == nil || !post.PublishedOn.Equal(firstPublishedOn) {
		t.Fatalf("republish must not rewrite published_on, got %v", post.PublishedOn)
	}
}

func TestPublishAnnouncesExactlyOnce(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := newTestBlogConfig()
	cfg.Announce.Channels = []config.AnnounceChannelConfig{
		{Name: "test-hook", Kind: "webhook", URL: server.URL, TimeoutMS: 2000},
	}
	svc, _ := setupPostServiceTest(t, cfg)

	post, err := svc.Create(CreatePostInput{
		Title:       "Announce me",
		Body:        "a body long enough",
		IsPublished: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	waitForHits(t, &hits, 1)

	// 再保存若干次，公告不得重发
	unpublished := false
	if _, err := svc.Update(post.ID, UpdatePostInput{IsPublished: &unpublished}); err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	republished := true
	if _, err := svc.Update(post.ID, UpdatePostInput{IsPublished: &republished}); err != nil {
		t.Fatalf("republish failed: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Fatalf("announcement must fire exactly once, got %d", got)
	}
}

func TestUpdateKeepsTagsWhenNil(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, _ := setupPostServiceTest(t, cfg)

	post, err := svc.Create(CreatePostInput{
		Title: "Tagged",
		Body:  "a body long enough",
		Tags:  []string{"go", "web"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(post.Tags) != 2 {
		t.Fatalf("want 2 tags, got %v", post.TagNames())
	}

	newTitle := "Tagged (edited)"
	post, err = svc.Update(post.ID, UpdatePostInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(post.Tags) != 2 {
		t.Fatalf("nil tags patch must keep tags, got %v", post.TagNames())
	}

	post, err = svc.Update(post.ID, UpdatePostInput{Tags: []string{}})
	if err != nil {
		t.Fatalf("clear tags failed: %v", err)
	}
	if len(post.Tags) != 0 {
		t.Fatalf("empty tags patch must clear tags, got %v", post.TagNames())
	}
}

func TestListForIndexDefaultsAndFilters(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, _ := setupPostServiceTest(t, cfg)

	for i := 0; i < 3; i++ {
		published := i != 0
		if _, err := svc.Create(CreatePostInput{
			Title:       fmt.Sprintf("Post %d", i),
			Body:        "a body long enough",
			IsPublished: published,
		}); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	posts, total, err := svc.ListForIndex(1, 0, "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(posts) != 3 {
		t.Fatalf("want all 3 posts on index, got total=%d len=%d", total, len(posts))
	}

	posts, total, err = svc.ListForIndex(1, 0, "press", "")
	if err != nil {
		t.Fatalf("list by type failed: %v", err)
	}
	if total != 0 || len(posts) != 0 {
		t.Fatalf("unknown type must match nothing, got total=%d", total)
	}

	posts, _, err = svc.ListForIndex(99, 1, "", "")
	if err != nil {
		t.Fatalf("list out of range failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("out-of-range page must be empty, got %v", posts)
	}
}

func TestDeleteMissingPost(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, _ := setupPostServiceTest(t, cfg)

	if err := svc.Delete(12345); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestShortBodyTruncation(t *testing.T) {
	short := "short body"
	if got := ShortBody(short); got != short {
		t.Fatalf("short body must pass through, got %q", got)
	}

	long := strings.Repeat("a", 500)
	got := ShortBody(long)
	if len([]rune(got)) != 400 {
		t.Fatalf("want 400 characters with omission, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("want omission suffix, got %q", got[len(got)-10:])
	}

	// 截断范围内存在行边界时在行边界断开
	withBreak := strings.Repeat("b", 390) + "\n" + strings.Repeat("c", 200)
	got = ShortBody(withBreak)
	if got != strings.Repeat("b", 390)+"..." {
		t.Fatalf("want cut at line break, got %d characters", len([]rune(got)))
	}
}

func TestDisplayIdentifierAndParameterize(t *testing.T) {
	post := &models.Post{ID: 42, Title: "Hello, World!"}
	if got := DisplayIdentifier(post); got != "42-hello-world" {
		t.Fatalf("want 42-hello-world, got %q", got)
	}

	cases := map[string]string{
		"Hello, World!":   "hello-world",
		"  spaced  out  ": "spaced-out",
		"already-slugged": "already-slugged",
		"Ünïcode Tïtle":   "ünïcode-tïtle",
		"!!!":             "",
	}
	for input, want := range cases {
		if got := Parameterize(input); got != want {
			t.Fatalf("Parameterize(%q) = %q, want %q", input, got, want)
		}
	}
}

func waitForHits(t *testing.T, counter *int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt64(counter) >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("want %d webhook hits, got %d", want, atomic.LoadInt64(counter))
}
