package models

import "time"

// Tag 自由文本标签表，与 Post 多对多
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:128;uniqueIndex;not null" json:"name"` // 标签名，全局唯一
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "blog_tags"
}
