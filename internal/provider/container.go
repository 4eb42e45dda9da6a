package provider

import (
	"github.com/blogit-next/internal/cache"
	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/logger"
	"github.com/blogit-next/internal/models"
	"github.com/blogit-next/internal/queue"
	"github.com/blogit-next/internal/repository"
	"github.com/blogit-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	PostRepo     repository.PostRepository
	PostTypeRepo repository.PostTypeRepository
	TagRepo      repository.TagRepository
	CommentRepo  repository.CommentRepository

	// Services
	AuthService     *service.AuthService
	PostService     *service.PostService
	PostTypeService *service.PostTypeService
	CommentService  *service.CommentService
	AnnounceService *service.AnnounceService
	BloggerResolver *service.BloggerResolver
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.PostTypeRepo = repository.NewPostTypeRepository(db)
	c.TagRepo = repository.NewTagRepository(db)
	c.CommentRepo = repository.NewCommentRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.AuthService = service.NewAuthService(cfg, c.UserRepo)
	c.BloggerResolver = service.NewBloggerResolver(cfg, c.UserRepo)
	c.PostTypeService = service.NewPostTypeService(c.PostTypeRepo)
	c.AnnounceService = service.NewAnnounceService(cfg, c.QueueClient)
	c.PostService = service.NewPostService(cfg, c.PostRepo, c.TagRepo, c.PostTypeService, c.BloggerResolver, c.AnnounceService)
	c.CommentService = service.NewCommentService(cfg, c.CommentRepo, c.PostRepo)
}
