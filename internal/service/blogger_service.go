package service

import (
	"fmt"
	"sync"

	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/constants"
	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/repository"
)

// BloggerRef 多态作者引用（种类 + 主键）
type BloggerRef struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
}

// IsZero 引用是否为空
func (r BloggerRef) IsZero() bool {
	return r.Kind == "" || r.ID == 0
}

// BloggerEntity 按名称暴露展示属性的作者实体
type BloggerEntity interface {
	Attribute(name string) (string, bool)
}

// BloggerSource 加载某一作者种类的实体；不存在时返回 (nil, nil)
type BloggerSource interface {
	Find(id uint) (BloggerEntity, error)
}

// BloggerResolver 作者解析服务：缺省作者回退与展示名多态分发
type BloggerResolver struct {
	mu                sync.RWMutex
	sources           map[string]BloggerSource
	fallback          BloggerRef
	displayNameMethod string
}

// NewBloggerResolver 创建作者解析服务，内置 "user" 种类
func NewBloggerResolver(cfg *config.Config, userRepo repository.UserRepository) *BloggerResolver {
	resolver := &BloggerResolver{
		sources:           make(map[string]BloggerSource),
		displayNameMethod: cfg.Blog.BloggerDisplayNameMethod,
		fallback: BloggerRef{
			Kind: cfg.Blog.DefaultBloggerKind,
			ID:   cfg.Blog.DefaultBloggerID,
		},
	}
	resolver.RegisterSource(constants.BloggerKindUser, &userBloggerSource{repo: userRepo})
	return resolver
}

// RegisterSource 注册一个作者种类；宿主可挂接任意实体
func (r *BloggerResolver) RegisterSource(kind string, source BloggerSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[kind] = source
}

// SetFallback 设置缺省作者引用（供 seed/宿主覆盖配置）
func (r *BloggerResolver) SetFallback(ref BloggerRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = ref
}

// Resolve 解析保存时的作者：显式传入原样返回，否则回退到配置的缺省作者；
// 二者皆缺时报配置错误
func (r *BloggerResolver) Resolve(explicit *BloggerRef) (BloggerRef, error) {
	if explicit != nil && !explicit.IsZero() {
		return *explicit, nil
	}
	r.mu.RLock()
	fallback := r.fallback
	r.mu.RUnlock()
	if fallback.IsZero() {
		return BloggerRef{}, &ConfigurationError{Missing: "blog.default_blogger (no explicit blogger supplied and no fallback configured)"}
	}
	return fallback, nil
}

// DisplayName 作者展示名：实体不存在返回空串；实体缺少配置的展示属性时报配置错误
func (r *BloggerResolver) DisplayName(ref BloggerRef) (string, error) {
	if ref.IsZero() {
		return "", nil
	}
	r.mu.RLock()
	source, ok := r.sources[ref.Kind]
	method := r.displayNameMethod
	r.mu.RUnlock()
	if !ok {
		return "", &ConfigurationError{Missing: fmt.Sprintf("blogger source for kind %q", ref.Kind)}
	}

	entity, err := source.Find(ref.ID)
	if err != nil {
		return "", err
	}
	if entity == nil {
		return "", nil
	}
	value, ok := entity.Attribute(method)
	if !ok {
		return "", &ConfigurationError{Missing: fmt.Sprintf("%s#%s is not defined", ref.Kind, method)}
	}
	return value, nil
}

// userBloggerSource 内置 "user" 作者种类，基于用户表
type userBloggerSource struct {
	repo repository.UserRepository
}

func (s *userBloggerSource) Find(id uint) (BloggerEntity, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user, nil
}

// 接口一致性检查
var _ BloggerEntity = (*models.User)(nil)
