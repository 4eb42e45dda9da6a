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

func setupCommentServiceTest(t *testing.T, cfg *config.Config) (*CommentService, *models.Post) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PostType{}, &models.Post{}, &models.Tag{}, &models.Comment{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	postType := models.PostType{Name: "blog"}
	if err := db.Create(&postType).Error; err != nil {
		t.Fatalf("create type failed: %v", err)
	}
	post := models.Post{
		Title:       "Commented",
		Body:        "a body long enough",
		TypeID:      postType.ID,
		BloggerKind: "user",
		BloggerID:   1,
		IsPublished: true,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	svc := NewCommentService(cfg, repository.NewCommentRepository(db), repository.NewPostRepository(db))
	return svc, &post
}

func TestCommentCreateAndList(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, post := setupCommentServiceTest(t, cfg)

	comment, err := svc.Create(CreateCommentInput{
		PostID:   post.ID,
		Nickname: " reader ",
		Body:     "nice post",
	})
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	if comment.Nickname != "reader" {
		t.Fatalf("nickname must be trimmed, got %q", comment.Nickname)
	}

	comments, total, err := svc.ListForPost(post.ID, 1, 10)
	if err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if total != 1 || len(comments) != 1 {
		t.Fatalf("want 1 comment, got total=%d len=%d", total, len(comments))
	}
}

func TestCommentValidation(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, post := setupCommentServiceTest(t, cfg)

	_, err := svc.Create(CreateCommentInput{PostID: post.ID})
	validationErr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(validationErr.On("nickname")) == 0 || len(validationErr.On("body")) == 0 {
		t.Fatalf("want errors on nickname and body, got %v", validationErr.Fields)
	}
}

func TestCommentMissingPostIsNotFound(t *testing.T) {
	cfg := newTestBlogConfig()
	svc, _ := setupCommentServiceTest(t, cfg)

	_, err := svc.Create(CreateCommentInput{PostID: 999, Nickname: "x", Body: "y"})
	if err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCommentsDisabledBackendIsConfigurationError(t *testing.T) {
	cfg := newTestBlogConfig()
	cfg.Blog.CommentsBackend = "disabled"
	svc, post := setupCommentServiceTest(t, cfg)

	_, err := svc.Create(CreateCommentInput{PostID: post.ID, Nickname: "x", Body: "y"})
	if !IsConfigurationError(err) {
		t.Fatalf("want configuration error, got %v", err)
	}
	if _, _, err := svc.ListForPost(post.ID, 1, 10); !IsConfigurationError(err) {
		t.Fatalf("want configuration error on list, got %v", err)
	}
}
