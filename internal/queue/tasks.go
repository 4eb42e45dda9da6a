package queue

import (
	"encoding/json"

	"github.com/blogit-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPostAnnounce 发布公告分发任务
	TaskPostAnnounce = constants.TaskPostAnnounce
	// TaskSearchPing 搜索引擎 ping 任务
	TaskSearchPing = constants.TaskSearchPing
)

// PostAnnouncePayload 发布公告任务载荷
type PostAnnouncePayload struct {
	PostID  uint   `json:"post_id"`
	Message string `json:"message"`
}

// SearchPingPayload 搜索引擎 ping 任务载荷
type SearchPingPayload struct {
	SitemapURL string `json:"sitemap_url"`
}

// NewPostAnnounceTask 创建发布公告任务
func NewPostAnnounceTask(payload PostAnnouncePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostAnnounce, body), nil
}

// NewSearchPingTask 创建搜索引擎 ping 任务
func NewSearchPingTask(payload SearchPingPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSearchPing, body), nil
}
