package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/logger"
	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/repository"
)

const (
	shortBodyLength    = 400
	shortBodyOmission  = "..."
	shortBodySeparator = "\n"
)

// PostService 文章业务服务：保存管线（补默认值 → 校验 → 落库 → 发布迁移）
// 与列表查询
type PostService struct {
	cfg       *config.Config
	repo      repository.PostRepository
	tagRepo   repository.TagRepository
	types     *PostTypeService
	resolver  *BloggerResolver
	announcer *AnnounceService
}

// NewPostService 创建文章服务
func NewPostService(
	cfg *config.Config,
	repo repository.PostRepository,
	tagRepo repository.TagRepository,
	types *PostTypeService,
	resolver *BloggerResolver,
	announcer *AnnounceService,
) *PostService {
	return &PostService{
		cfg:       cfg,
		repo:      repo,
		tagRepo:   tagRepo,
		types:     types,
		resolver:  resolver,
		announcer: announcer,
	}
}

// CreatePostInput 创建文章输入
type CreatePostInput struct {
	Title       string
	Body        string
	TypeName    string
	TypeID      uint
	Tags        []string
	Blogger     *BloggerRef
	IsPublished bool
}

// UpdatePostInput 更新文章输入；nil 字段表示不修改
type UpdatePostInput struct {
	Title       *string
	Body        *string
	TypeName    *string
	TypeID      *uint
	Tags        []string // nil 表示保持原标签
	Blogger     *BloggerRef
	IsPublished *bool
}

// Create 创建文章：补默认类型与作者、校验、落库，随后评估发布迁移
func (s *PostService) Create(input CreatePostInput) (*models.Post, error) {
	post := &models.Post{
		Title:       strings.TrimSpace(input.Title),
		Body:        input.Body,
		TypeID:      input.TypeID,
		IsPublished: input.IsPublished,
	}
	if input.Blogger != nil {
		post.BloggerKind = input.Blogger.Kind
		post.BloggerID = input.Blogger.ID
	}

	if err := s.applyDefaults(post, input.TypeName); err != nil {
		return nil, err
	}
	if err := s.validate(post); err != nil {
		return nil, err
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	if len(input.Tags) > 0 {
		if err := s.tagRepo.SetTags(post.ID, input.Tags); err != nil {
			return nil, err
		}
	}

	s.finishPublish(post)
	return s.reload(post.ID)
}

// Update 更新文章：合并补丁后重走与 Create 相同的保存管线
func (s *PostService) Update(id uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Body != nil {
		post.Body = *input.Body
	}
	if input.TypeID != nil {
		post.TypeID = *input.TypeID
		post.Type = nil
	}
	typeName := ""
	if input.TypeName != nil {
		typeName = *input.TypeName
		post.TypeID = 0
		post.Type = nil
	}
	if input.Blogger != nil {
		post.BloggerKind = input.Blogger.Kind
		post.BloggerID = input.Blogger.ID
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}

	if err := s.applyDefaults(post, typeName); err != nil {
		return nil, err
	}
	if err := s.validate(post); err != nil {
		return nil, err
	}
	if err := s.repo.Update(post); err != nil {
		return nil, err
	}
	if input.Tags != nil {
		if err := s.tagRepo.SetTags(post.ID, input.Tags); err != nil {
			return nil, err
		}
	}

	s.finishPublish(post)
	return s.reload(post.ID)
}

// Delete 删除文章及其标签关联；评论等其他数据不级联
func (s *PostService) Delete(id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

// GetByID 根据 ID 获取文章
func (s *PostService) GetByID(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// ListForIndex 列表页查询：created_at 倒序，1 起始页码，
// 类型与标签过滤可叠加；越界页码返回空列表
func (s *PostService) ListForIndex(page, pageSize int, typeFilter, tagFilter string) ([]models.Post, int64, error) {
	if pageSize <= 0 {
		pageSize = s.cfg.Blog.PostsPerPage
	}
	filter := repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     strings.TrimSpace(typeFilter),
		Tag:      strings.TrimSpace(tagFilter),
	}
	return s.repo.List(filter)
}

// BloggerDisplayName 文章作者展示名
func (s *PostService) BloggerDisplayName(post *models.Post) (string, error) {
	return s.resolver.DisplayName(BloggerRef{Kind: post.BloggerKind, ID: post.BloggerID})
}

// ShortBody 正文导读：400 字符截断，范围内存在行边界时在行边界断开
func ShortBody(body string) string {
	runes := []rune(body)
	if len(runes) <= shortBodyLength {
		return body
	}
	cut := string(runes[:shortBodyLength-len(shortBodyOmission)])
	if idx := strings.LastIndex(cut, shortBodySeparator); idx > 0 {
		cut = cut[:idx]
	}
	return cut + shortBodyOmission
}

// DisplayIdentifier URL 安全的文章标识："{id}-{标题 slug}"
func DisplayIdentifier(post *models.Post) string {
	return fmt.Sprintf("%d-%s", post.ID, Parameterize(post.Title))
}

// Parameterize 把任意标题转成小写连字符 slug
func Parameterize(value string) string {
	var builder strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingDash = false
			builder.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return builder.String()
}

// applyDefaults 保存前补默认值：先类型后作者，顺序固定
func (s *PostService) applyDefaults(post *models.Post, typeName string) error {
	if post.TypeID == 0 {
		name := strings.TrimSpace(typeName)
		if name == "" {
			name = s.cfg.Blog.DefaultType
		}
		postType, err := s.types.FindOrCreate(name)
		if err != nil {
			return err
		}
		post.TypeID = postType.ID
		post.Type = postType
	} else if post.Type == nil {
		postType, err := s.types.repo.GetByID(post.TypeID)
		if err != nil {
			return err
		}
		if postType == nil {
			validationErr := NewValidationError()
			validationErr.Add("type", "does not exist")
			return validationErr
		}
		post.Type = postType
	}

	if post.BloggerKind == "" || post.BloggerID == 0 {
		ref, err := s.resolver.Resolve(nil)
		if err != nil {
			return err
		}
		post.BloggerKind = ref.Kind
		post.BloggerID = ref.ID
	}
	return nil
}

// validate 字段校验；失败时返回字段级错误且不落库
func (s *PostService) validate(post *models.Post) error {
	validationErr := NewValidationError()

	titleLen := len([]rune(post.Title))
	if titleLen == 0 {
		validationErr.Add("title", "can't be blank")
	} else if titleLen > s.cfg.Blog.TitleMaxLength {
		validationErr.Add("title", fmt.Sprintf("is too long (maximum is %d characters)", s.cfg.Blog.TitleMaxLength))
	}

	bodyLen := len([]rune(post.Body))
	if bodyLen == 0 {
		validationErr.Add("body", "can't be blank")
	} else if bodyLen < s.cfg.Blog.BodyMinLength {
		validationErr.Add("body", fmt.Sprintf("is too short (minimum is %d characters)", s.cfg.Blog.BodyMinLength))
	}

	if post.BloggerKind == "" || post.BloggerID == 0 {
		validationErr.Add("blogger", "can't be blank")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// finishPublish 发布迁移：条件更新保证 published_on 只写一次，
// 公告仅在本次保存完成首次发布时触发
func (s *PostService) finishPublish(post *models.Post) {
	if !post.IsPublished {
		return
	}
	now := time.Now()
	claimed, err := s.repo.MarkPublished(post.ID, now)
	if err != nil {
		logger.Errorw("post_publish_mark_failed", "post_id", post.ID, "error", err)
		return
	}
	if !claimed {
		return
	}
	post.PublishedOn = &now
	if s.announcer != nil {
		s.announcer.Announce(post)
	}
}

func (s *PostService) reload(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}
