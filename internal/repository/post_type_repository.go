package repository

import (
	"errors"

	"github.com/blogit-next/internal/models"

	"gorm.io/gorm"
)

// PostTypeRepository 文章类型数据访问接口
type PostTypeRepository interface {
	FindOrCreate(name string) (*models.PostType, error)
	GetByName(name string) (*models.PostType, error)
	GetByID(id uint) (*models.PostType, error)
	List() ([]models.PostType, error)
}

// GormPostTypeRepository GORM 实现
type GormPostTypeRepository struct {
	db *gorm.DB
}

// NewPostTypeRepository 创建文章类型仓库
func NewPostTypeRepository(db *gorm.DB) *GormPostTypeRepository {
	return &GormPostTypeRepository{db: db}
}

// FindOrCreate 按名称获取类型，不存在时创建；
// 并发创建撞上唯一索引时回读先到者的记录
func (r *GormPostTypeRepository) FindOrCreate(name string) (*models.PostType, error) {
	var postType models.PostType
	err := r.db.Where("name = ?", name).First(&postType).Error
	if err == nil {
		return &postType, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	postType = models.PostType{Name: name}
	if createErr := r.db.Create(&postType).Error; createErr != nil {
		var winner models.PostType
		if readErr := r.db.Where("name = ?", name).First(&winner).Error; readErr == nil {
			return &winner, nil
		}
		return nil, createErr
	}
	return &postType, nil
}

// GetByName 按名称获取类型
func (r *GormPostTypeRepository) GetByName(name string) (*models.PostType, error) {
	var postType models.PostType
	if err := r.db.Where("name = ?", name).First(&postType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &postType, nil
}

// GetByID 根据 ID 获取类型
func (r *GormPostTypeRepository) GetByID(id uint) (*models.PostType, error) {
	var postType models.PostType
	if err := r.db.First(&postType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &postType, nil
}

// List 类型列表，按 ID 升序
func (r *GormPostTypeRepository) List() ([]models.PostType, error) {
	var types []models.PostType
	if err := r.db.Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
