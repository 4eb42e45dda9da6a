package shared

import (
	"errors"

	"github.com/blogit-next/internal/http/response"
	"github.com/blogit-next/internal/logger"
	"github.com/blogit-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NormalizePagination 归一化分页参数
func NormalizePagination(page, pageSize, fallbackSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = fallbackSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// RequestLog 提供携带 request_id 的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondServiceError 把业务层错误映射为统一响应：
// 校验错误带字段明细，未找到与配置错误各归各码
func RespondServiceError(c *gin.Context, err error) {
	if validationErr, ok := service.AsValidationError(err); ok {
		response.ErrorWithData(c, response.CodeUnprocessable, "validation failed", gin.H{"errors": validationErr.Fields})
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(c, "record not found")
		return
	}
	if service.IsConfigurationError(err) {
		RespondError(c, response.CodeInternal, err.Error(), err)
		return
	}
	RespondError(c, response.CodeInternal, "internal error", err)
}
