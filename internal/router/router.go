package router

import (
	"fmt"
	"strings"

	"github.com/blogit-next/internal/cache"
	"github.com/blogit-next/internal/config"
	adminhandlers "github.com/blogit-next/internal/http/handlers/admin"
	publichandlers "github.com/blogit-next/internal/http/handlers/public"
	"github.com/blogit-next/internal/logger"
	"github.com/blogit-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bn"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/:id", publicHandler.GetPost)
			public.GET("/posts/:id/comments", publicHandler.GetComments)
			public.POST("/posts/:id/comments", publicHandler.CreateComment)
			public.GET("/post-types", publicHandler.GetPostTypes)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			// 需要鉴权的接口
			authed := admin.Group("")
			authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
			{
				authed.GET("/posts", adminHandler.ListPosts)
				authed.GET("/posts/:id", adminHandler.GetPost)
				authed.POST("/posts", adminHandler.CreatePost)
				authed.PUT("/posts/:id", adminHandler.UpdatePost)
				authed.DELETE("/posts/:id", adminHandler.DeletePost)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
