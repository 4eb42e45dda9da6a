package admin

import (
	"strconv"
	"strings"

	"github.com/blogit-next/internal/cache"
	"github.com/blogit-next/internal/http/handlers/shared"
	"github.com/blogit-next/internal/http/response"
	"github.com/blogit-next/internal/repository"
	"github.com/blogit-next/internal/service"

	"github.com/gin-gonic/gin"
)

const postCacheSweepPrefix = "posts:"

// CreatePostRequest 创建文章请求
type CreatePostRequest struct {
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	TypeName    string   `json:"type_name"`
	TypeID      uint     `json:"type_id"`
	Tags        []string `json:"tags"`
	BloggerKind string   `json:"blogger_kind"`
	BloggerID   uint     `json:"blogger_id"`
	IsPublished bool     `json:"is_published"`
}

// UpdatePostRequest 更新文章请求；缺省字段不修改
type UpdatePostRequest struct {
	Title       *string  `json:"title"`
	Body        *string  `json:"body"`
	TypeName    *string  `json:"type_name"`
	TypeID      *uint    `json:"type_id"`
	Tags        []string `json:"tags"`
	BloggerKind *string  `json:"blogger_kind"`
	BloggerID   *uint    `json:"blogger_id"`
	IsPublished *bool    `json:"is_published"`
}

// ListPosts 管理端文章列表，包含未发布文章
func (h *Handler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Blog.PostsPerPage)

	posts, total, err := h.PostRepo.List(repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     strings.TrimSpace(c.Query("type")),
		Tag:      strings.TrimSpace(c.Query("tag")),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "failed to fetch posts", err)
		return
	}

	response.SuccessWithPage(c, posts, response.NewPagination(page, pageSize, total))
}

// GetPost 管理端文章详情，不限发布状态
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parsePathID(c.Param("id"))
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "invalid post id", nil)
		return
	}

	post, err := h.PostService.GetByID(id)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	input := service.CreatePostInput{
		Title:       req.Title,
		Body:        req.Body,
		TypeName:    req.TypeName,
		TypeID:      req.TypeID,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	}
	if req.BloggerKind != "" || req.BloggerID != 0 {
		input.Blogger = &service.BloggerRef{Kind: req.BloggerKind, ID: req.BloggerID}
	}

	post, err := h.PostService.Create(input)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	h.afterPostWrite(c)
	response.Success(c, post)
}

// UpdatePost 更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parsePathID(c.Param("id"))
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "invalid post id", nil)
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	input := service.UpdatePostInput{
		Title:       req.Title,
		Body:        req.Body,
		TypeName:    req.TypeName,
		TypeID:      req.TypeID,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	}
	if req.BloggerKind != nil || req.BloggerID != nil {
		ref := service.BloggerRef{}
		if req.BloggerKind != nil {
			ref.Kind = *req.BloggerKind
		}
		if req.BloggerID != nil {
			ref.ID = *req.BloggerID
		}
		input.Blogger = &ref
	}

	post, err := h.PostService.Update(id, input)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	h.afterPostWrite(c)
	response.Success(c, post)
}

// DeletePost 删除文章
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parsePathID(c.Param("id"))
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "invalid post id", nil)
		return
	}

	if err := h.PostService.Delete(id); err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	h.afterPostWrite(c)
	response.Success(c, nil)
}

// afterPostWrite 写操作后的收尾：清理页面缓存并触发搜索引擎 ping
func (h *Handler) afterPostWrite(c *gin.Context) {
	if err := cache.DelPrefix(c.Request.Context(), postCacheSweepPrefix); err != nil {
		shared.RequestLog(c).Warnw("post_cache_sweep_failed", "error", err)
	}
	h.AnnounceService.PingSearchEngines()
}

func parsePathID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
