package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/blogit-next/internal/models"

	"gorm.io/gorm"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	GetByID(id uint) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	MarkPublished(id uint, at time.Time) (bool, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// List 文章列表，固定按 created_at 倒序分页
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	query := r.db.Model(&models.Post{})

	if filter.OnlyPublished {
		query = query.Where("blog_posts.is_published = ?", true)
	}
	if typeName := strings.TrimSpace(filter.Type); typeName != "" {
		query = query.
			Joins("JOIN blog_post_types ON blog_post_types.id = blog_posts.type_id").
			Where("blog_post_types.name = ?", typeName)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query = query.
			Joins("JOIN blog_post_taggings ON blog_post_taggings.post_id = blog_posts.id").
			Joins("JOIN blog_tags ON blog_tags.id = blog_post_taggings.tag_id").
			Where("blog_tags.name = ?", tag)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "blog_posts.created_at DESC"
	}

	if err := query.Preload("Type").Preload("Tags").Order(orderBy).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetByID 根据 ID 获取文章
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Type").Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建文章；关联（类型、标签）由各自仓库维护
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Omit("Type", "Tags").Create(post).Error
}

// Update 更新文章；published_on 与 created_at 永不随普通更新改写
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Omit("Type", "Tags", "published_on", "created_at").Save(post).Error
}

// Delete 删除文章及其标签关联
func (r *GormPostRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_post_taggings WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// MarkPublished 条件写入首次发布时间；仅当 published_on 仍为空时生效，
// 返回值表示本次调用是否完成了首次发布
func (r *GormPostRepository) MarkPublished(id uint, at time.Time) (bool, error) {
	result := r.db.Model(&models.Post{}).
		Where("id = ? AND is_published = ? AND published_on IS NULL", id, true).
		Update("published_on", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
