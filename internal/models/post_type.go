package models

import "time"

// PostType 文章类型表（blog/press 等）
type PostType struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"` // 类型名，全局唯一
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (PostType) TableName() string {
	return "blog_post_types"
}
