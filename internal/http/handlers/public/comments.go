package public

import (
	"strconv"

	"github.com/blogit-next/internal/http/handlers/shared"
	"github.com/blogit-next/internal/http/response"
	"github.com/blogit-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Nickname string `json:"nickname"`
	Body     string `json:"body"`
}

// GetComments 文章评论列表
func (h *Handler) GetComments(c *gin.Context) {
	postID, ok := parsePostID(c.Param("id"))
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "invalid post id", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize, 20)

	comments, total, err := h.CommentService.ListForPost(postID, page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, comments, response.NewPagination(page, pageSize, total))
}

// CreateComment 创建评论
func (h *Handler) CreateComment(c *gin.Context) {
	postID, ok := parsePostID(c.Param("id"))
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "invalid post id", nil)
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	comment, err := h.CommentService.Create(service.CreateCommentInput{
		PostID:   postID,
		Nickname: req.Nickname,
		Body:     req.Body,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	response.Success(c, comment)
}
