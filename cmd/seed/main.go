package main

import (
	"os"

	"github.com/blogit-next/internal/config"
	"github.com/blogit-next/internal/constants"
	"github.com/blogit-next/internal/logger"
	"github.com/blogit-next/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化内置文章类型
	typeNames := []string{constants.PostTypeBlog, constants.PostTypePress}
	if cfg.Blog.DefaultType != "" {
		typeNames = append(typeNames, cfg.Blog.DefaultType)
	}
	for _, name := range typeNames {
		var existing models.PostType
		if err := models.DB.Where("name = ?", name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&models.PostType{Name: name}).Error; err != nil {
				stdLog.Printf("Failed to create post type %s: %v", name, err)
			} else {
				stdLog.Printf("Created post type: %s", name)
			}
		} else {
			stdLog.Printf("Post type already exists: %s", name)
		}
	}

	// 初始化默认管理员/作者账号
	username := os.Getenv("BN_DEFAULT_ADMIN_USERNAME")
	password := os.Getenv("BN_DEFAULT_ADMIN_PASSWORD")
	user, err := models.InitDefaultUser(username, password)
	if err != nil {
		stdLog.Printf("Failed to init default user: %v", err)
	} else if user != nil {
		stdLog.Printf("Default user ready: %s (id=%d)", user.Username, user.ID)
	}

	stdLog.Printf("Seed finished")
}
