package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupBloggerResolverTest(t *testing.T, cfg *config.Config) (*BloggerResolver, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewBloggerResolver(cfg, repository.NewUserRepository(db)), db
}

func TestResolvePrefersExplicitRef(t *testing.T) {
	cfg := newTestBlogConfig()
	cfg.Blog.DefaultBloggerID = 1
	resolver, _ := setupBloggerResolverTest(t, cfg)

	ref, err := resolver.Resolve(&BloggerRef{Kind: "user", ID: 7})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ref.Kind != "user" || ref.ID != 7 {
		t.Fatalf("want explicit ref, got %v", ref)
	}
}

func TestResolveFallsBackToConfiguredDefault(t *testing.T) {
	cfg := newTestBlogConfig()
	cfg.Blog.DefaultBloggerID = 3
	resolver, _ := setupBloggerResolverTest(t, cfg)

	ref, err := resolver.Resolve(nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ref.Kind != "user" || ref.ID != 3 {
		t.Fatalf("want fallback ref, got %v", ref)
	}
}

func TestResolveWithoutFallbackIsConfigurationError(t *testing.T) {
	cfg := newTestBlogConfig()
	cfg.Blog.DefaultBloggerKind = ""
	cfg.Blog.DefaultBloggerID = 0
	resolver, _ := setupBloggerResolverTest(t, cfg)

	_, err := resolver.Resolve(nil)
	if !IsConfigurationError(err) {
		t.Fatalf("want configuration error, got %v", err)
	}
}

func TestDisplayNameResolvesConfiguredAttribute(t *testing.T) {
	cfg := newTestBlogConfig()
	cfg.Blog.BloggerDisplayNameMethod = "display_name"
	resolver, db := setupBloggerResolverTest(t, cfg)

	author := models.User{Username: "jane", DisplayName: "Jane Doe"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	name, err := resolver.DisplayName(BloggerRef{Kind: "user", ID: author.ID})
	if err != nil {
		t.Fatalf("display name failed: %v", err)
	}
	if name != "Jane Doe" {
		t.Fatalf("want Jane Doe, got %q", name)
	}
}

func TestDisplayNameAbsentEntityIsEmpty(t *testing.T) {
	cfg := newTestBlogConfig()
	resolver, _ := setupBloggerResolverTest(t, cfg)

	name, err := resolver.DisplayName(BloggerRef{Kind: "user", ID: 999})
	if err != nil {
		t.Fatalf("display name failed: %v", err)
	}
	if name != "" {
		t.Fatalf("absent entity must yield empty name, got %q", name)
	}
}

func TestDisplayNameUnknownKindIsConfigurationError(t *testing.T) {
	cfg := newTestBlogConfig()
	resolver, _ := setupBloggerResolverTest(t, cfg)

	_, err := resolver.DisplayName(BloggerRef{Kind: "robot", ID: 1})
	if !IsConfigurationError(err) {
		t.Fatalf("want configuration error for unknown kind, got %v", err)
	}
}

func TestDisplayNameMissingAccessorIsConfigurationError(t *testing.T) {
	cfg := newTestBlogConfig()
	cfg.Blog.BloggerDisplayNameMethod = "nickname"
	resolver, db := setupBloggerResolverTest(t, cfg)

	author := models.User{Username: "jane"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	_, err := resolver.DisplayName(BloggerRef{Kind: "user", ID: author.ID})
	if !IsConfigurationError(err) {
		t.Fatalf("want configuration error for missing accessor, got %v", err)
	}
	if !strings.Contains(err.Error(), "user#nickname is not defined") {
		t.Fatalf("want accessor name in message, got %q", err.Error())
	}
}

func TestRegisteredCustomSource(t *testing.T) {
	cfg := newTestBlogConfig()
	resolver, _ := setupBloggerResolverTest(t, cfg)
	resolver.RegisterSource("team", staticBloggerSource{name: "Platform Team"})
	cfg.Blog.BloggerDisplayNameMethod = "username"

	name, err := resolver.DisplayName(BloggerRef{Kind: "team", ID: 1})
	if err != nil {
		t.Fatalf("display name failed: %v", err)
	}
	if name != "Platform Team" {
		t.Fatalf("want custom source name, got %q", name)
	}
}

type staticBloggerSource struct {
	name string
}

func (s staticBloggerSource) Find(id uint) (BloggerEntity, error) {
	return staticBloggerEntity{name: s.name}, nil
}

type staticBloggerEntity struct {
	name string
}

func (e staticBloggerEntity) Attribute(name string) (string, bool) {
	return e.name, true
}
