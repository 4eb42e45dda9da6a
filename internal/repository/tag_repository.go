package repository

import (
	"errors"
	"strings"

	"github.com/blogit-next/internal/models"

	"gorm.io/gorm"
)

// TagRepository 标签数据访问接口
type TagRepository interface {
	TagsFor(postID uint) ([]models.Tag, error)
	PostsTagged(label string) ([]models.Post, error)
	SetTags(postID uint, labels []string) error
	FindOrCreate(name string) (*models.Tag, error)
}

// GormTagRepository GORM 实现
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签仓库
func NewTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// TagsFor 某篇文章的全部标签
func (r *GormTagRepository) TagsFor(postID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Model(&models.Post{ID: postID}).Association("Tags").Find(&tags)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// PostsTagged 打了某标签的全部文章
func (r *GormTagRepository) PostsTagged(label string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Model(&models.Post{}).
		Joins("JOIN blog_post_taggings ON blog_post_taggings.post_id = blog_posts.id").
		Joins("JOIN blog_tags ON blog_tags.id = blog_post_taggings.tag_id").
		Where("blog_tags.name = ?", label).
		Order("blog_posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// SetTags 整体替换文章标签；标签按需逐个 find-or-create
func (r *GormTagRepository) SetTags(postID uint, labels []string) error {
	tags := make([]models.Tag, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		name := strings.TrimSpace(label)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tag, err := r.FindOrCreate(name)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	return r.db.Model(&models.Post{ID: postID}).Association("Tags").Replace(tags)
}

// FindOrCreate 按名称获取标签，不存在时创建；并发冲突时回读先到者
func (r *GormTagRepository) FindOrCreate(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name}
	if createErr := r.db.Create(&tag).Error; createErr != nil {
		var winner models.Tag
		if readErr := r.db.Where("name = ?", name).First(&winner).Error; readErr == nil {
			return &winner, nil
		}
		return nil, createErr
	}
	return &tag, nil
}
