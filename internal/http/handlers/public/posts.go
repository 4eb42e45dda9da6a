package public

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blogit-next/internal/cache"
	"github.com/blogit-next/internal/http/handlers/shared"
	"github.com/blogit-next/internal/http/response"
	"github.com/blogit-next/internal/logger"
	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	postIndexCachePrefix = "posts:index"
	postIndexCacheTTL    = 60 * time.Second
)

// PostView 公共文章响应结构
type PostView struct {
	ID                uint       `json:"id"`
	DisplayIdentifier string     `json:"display_identifier"`
	Title             string     `json:"title"`
	Body              string     `json:"body"`
	ShortBody         string     `json:"short_body"`
	TypeName          string     `json:"type_name"`
	Tags              []string   `json:"tags"`
	BloggerName       string     `json:"blogger_name"`
	IsPublished       bool       `json:"is_published"`
	PublishedOn       *time.Time `json:"published_on"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type postIndexCacheEntry struct {
	Posts      []PostView          `json:"posts"`
	Pagination response.Pagination `json:"pagination"`
}

func (h *Handler) buildPostView(post *models.Post) PostView {
	bloggerName, err := h.PostService.BloggerDisplayName(post)
	if err != nil {
		// 作者配置异常不阻断展示，仅记录
		logger.Warnw("post_blogger_display_failed", "post_id", post.ID, "error", err)
		bloggerName = ""
	}
	return PostView{
		ID:                post.ID,
		DisplayIdentifier: service.DisplayIdentifier(post),
		Title:             post.Title,
		Body:              post.Body,
		ShortBody:         service.ShortBody(post.Body),
		TypeName:          post.TypeName(),
		Tags:              post.TagNames(),
		BloggerName:       bloggerName,
		IsPublished:       post.IsPublished,
		PublishedOn:       post.PublishedOn,
		CreatedAt:         post.CreatedAt,
		UpdatedAt:         post.UpdatedAt,
	}
}

// GetPosts 已发布文章列表，支持类型与标签筛选
func (h *Handler) GetPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Blog.PostsPerPage)

	typeFilter := strings.TrimSpace(c.Query("type"))
	tagFilter := strings.TrimSpace(c.Query("tag"))

	cacheKey := fmt.Sprintf("%s:p%d:s%d:t%s:g%s", postIndexCachePrefix, page, pageSize, typeFilter, tagFilter)
	var cached postIndexCacheEntry
	if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		response.SuccessWithPage(c, cached.Posts, cached.Pagination)
		return
	}

	posts, total, err := h.PostService.ListForIndex(page, pageSize, typeFilter, tagFilter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "failed to fetch posts", err)
		return
	}

	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, h.buildPostView(&posts[i]))
	}
	pagination := response.NewPagination(page, pageSize, total)

	_ = cache.SetJSON(c.Request.Context(), cacheKey, postIndexCacheEntry{Posts: views, Pagination: pagination}, postIndexCacheTTL)
	response.SuccessWithPage(c, views, pagination)
}

// GetPost 文章详情，路径参数接受纯 ID 或 "id-title" 形式
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parsePostID(c.Param("id"))
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "invalid post id", nil)
		return
	}

	post, err := h.PostService.GetByID(id)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	response.Success(c, h.buildPostView(post))
}

// GetPostTypes 文章类型列表
func (h *Handler) GetPostTypes(c *gin.Context) {
	names, err := h.PostTypeService.ListNames()
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "failed to fetch post types", err)
		return
	}
	response.Success(c, gin.H{"types": names})
}

// parsePostID 解析路径参数中的文章 ID，兼容 "42-hello-world" 形式
func parsePostID(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if idx := strings.IndexByte(raw, '-'); idx > 0 {
		raw = raw[:idx]
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
