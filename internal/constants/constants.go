package constants

// 内置文章类型常量
const (
	PostTypeBlog  = "blog"
	PostTypePress = "press"
)

// 作者种类常量
const (
	BloggerKindUser = "user"
)

// 评论后端常量
const (
	CommentsBackendDatabase = "database"
	CommentsBackendDisabled = "disabled"
)

// 广播渠道种类常量
const (
	ChannelKindWebhook = "webhook"
	ChannelKindPing    = "ping"
)

// 队列与任务名常量
const (
	QueueDefault     = "default"
	TaskPostAnnounce = "post:announce"
	TaskSearchPing   = "post:search_ping"
)
