package models

import "time"

// Comment 文章评论表（database 评论后端）
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Nickname  string    `gorm:"size:128;not null" json:"nickname"` // 评论者昵称
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "blog_comments"
}
