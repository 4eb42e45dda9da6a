package repository

import (
	"errors"

	"github.com/blogit-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口。用户既是后台账号，
// 也是内建 "user" 类型的文章作者来源。
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByID 根据 ID 获取用户，不存在时返回 (nil, nil)
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	return r.firstUser(r.db.Where("id = ?", id))
}

// GetByUsername 根据用户名获取用户，不存在时返回 (nil, nil)
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.firstUser(r.db.Where("username = ?", username))
}

func (r *GormUserRepository) firstUser(query *gorm.DB) (*models.User, error) {
	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
