package service

import (
	"strings"

	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/constants"
	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/repository"
)

// CommentService 评论服务；后端可插拔，未启用时一律报配置错误
type CommentService struct {
	cfg      *config.Config
	repo     repository.CommentRepository
	postRepo repository.PostRepository
}

// NewCommentService 创建评论服务
func NewCommentService(cfg *config.Config, repo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{cfg: cfg, repo: repo, postRepo: postRepo}
}

// CreateCommentInput 创建评论输入
type CreateCommentInput struct {
	PostID   uint
	Nickname string
	Body     string
}

// ListForPost 某篇文章的评论列表
func (s *CommentService) ListForPost(postID uint, page, pageSize int) ([]models.Comment, int64, error) {
	if err := s.checkBackend(); err != nil {
		return nil, 0, err
	}
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, 0, err
	}
	if post == nil {
		return nil, 0, ErrNotFound
	}
	return s.repo.List(repository.CommentListFilter{
		Page:     page,
		PageSize: pageSize,
		PostID:   postID,
	})
}

// Create 创建评论
func (s *CommentService) Create(input CreateCommentInput) (*models.Comment, error) {
	if err := s.checkBackend(); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(input.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	validationErr := NewValidationError()
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		validationErr.Add("nickname", "can't be blank")
	}
	if strings.TrimSpace(input.Body) == "" {
		validationErr.Add("body", "can't be blank")
	}
	if validationErr.HasErrors() {
		return nil, validationErr
	}

	comment := &models.Comment{
		PostID:   input.PostID,
		Nickname: nickname,
		Body:     input.Body,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// checkBackend 评论后端未启用时报配置错误
func (s *CommentService) checkBackend() error {
	backend := strings.TrimSpace(s.cfg.Blog.CommentsBackend)
	if backend == constants.CommentsBackendDatabase {
		return nil
	}
	return &ConfigurationError{Missing: "blog.comments_backend (comments are disabled)"}
}
