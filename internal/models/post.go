package models

import (
	"time"
)

// Post 博客文章表
type Post struct {
	ID          uint       `gorm:"primarykey" json:"id"`                     // 主键
	Title       string     `gorm:"size:255;not null" json:"title"`           // 标题
	Body        string     `gorm:"type:text;not null" json:"body"`           // 正文
	TypeID      uint       `gorm:"not null;index" json:"type_id"`            // 类型外键
	Type        *PostType  `gorm:"foreignKey:TypeID" json:"type,omitempty"`  // 类型（blog/press）
	BloggerKind string     `gorm:"size:64;not null;index:idx_posts_blogger" json:"blogger_kind"` // 作者实体种类
	BloggerID   uint       `gorm:"not null;index:idx_posts_blogger" json:"blogger_id"`           // 作者实体主键
	Tags        []Tag      `gorm:"many2many:blog_post_taggings" json:"tags,omitempty"`           // 标签
	IsPublished bool       `gorm:"default:false;index" json:"is_published"` // 是否发布
	PublishedOn *time.Time `gorm:"index" json:"published_on"`               // 首次发布时间，一经写入不再变更
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (Post) TableName() string {
	return "blog_posts"
}

// TypeName 返回类型名，类型未加载时返回空串
func (p *Post) TypeName() string {
	if p == nil || p.Type == nil {
		return ""
	}
	return p.Type.Name
}

// TagNames 返回已加载的标签名列表
func (p *Post) TagNames() []string {
	if p == nil || len(p.Tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		names = append(names, tag.Name)
	}
	return names
}
