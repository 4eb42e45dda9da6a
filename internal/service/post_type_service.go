package service

import (
	"strings"

	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/repository"
)

// PostTypeService 文章类型注册表服务
type PostTypeService struct {
	repo repository.PostTypeRepository
}

// NewPostTypeService 创建文章类型服务
func NewPostTypeService(repo repository.PostTypeRepository) *PostTypeService {
	return &PostTypeService{repo: repo}
}

// FindOrCreate 按名称获取或创建类型；空名称报校验错误
func (s *PostTypeService) FindOrCreate(name string) (*models.PostType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		validationErr := NewValidationError()
		validationErr.Add("name", "can't be blank")
		return nil, validationErr
	}
	return s.repo.FindOrCreate(name)
}

// List 全部类型，按 ID 升序
func (s *PostTypeService) List() ([]models.PostType, error) {
	return s.repo.List()
}

// ListNames 全部类型名，保持 ID 升序
func (s *PostTypeService) ListNames() ([]string, error) {
	types, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(types))
	for _, postType := range types {
		names = append(names, postType.Name)
	}
	return names, nil
}
