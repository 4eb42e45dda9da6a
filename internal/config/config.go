package config

import (
	"fmt"
	"strings"

	"github.com/blogit-next/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Blog     BlogConfig     `mapstructure:"blog"`
	Announce AnnounceConfig `mapstructure:"announce"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig 管理端 JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// BlogConfig 博客核心配置
type BlogConfig struct {
	PostsPerPage             int    `mapstructure:"posts_per_page"`
	TitleMaxLength           int    `mapstructure:"title_max_length"`
	BodyMinLength            int    `mapstructure:"body_min_length"`
	DefaultType              string `mapstructure:"default_type"`
	DefaultBloggerKind       string `mapstructure:"default_blogger_kind"`
	DefaultBloggerID         uint   `mapstructure:"default_blogger_id"`
	BloggerDisplayNameMethod string `mapstructure:"blogger_display_name_method"`
	CommentsBackend          string `mapstructure:"comments_backend"` // database / disabled
}

// AnnounceTypeConfig 某一文章类型的公告模板
type AnnounceTypeConfig struct {
	Label        string `mapstructure:"label"`         // 公告前缀，例如 "New blog post"
	PathTemplate string `mapstructure:"path_template"` // 含 %d 的文章路径模板
}

// AnnounceChannelConfig 单个广播渠道配置
type AnnounceChannelConfig struct {
	Name      string `mapstructure:"name"`
	Kind      string `mapstructure:"kind"` // webhook / ping
	URL       string `mapstructure:"url"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// AnnounceConfig 发布公告配置
type AnnounceConfig struct {
	SiteHostname      string                        `mapstructure:"site_hostname"`
	PingSearchEngines bool                          `mapstructure:"ping_search_engines"`
	SitemapPath       string                        `mapstructure:"sitemap_path"`
	Types             map[string]AnnounceTypeConfig `mapstructure:"types"`
	Channels          []AnnounceChannelConfig       `mapstructure:"channels"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
}

// LoginRateLimitConfig 登录限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// Load 读取 config.yml，缺省项由默认值兜底，文件缺失时可直接用默认配置启动
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../") // 从 cmd/* 目录运行时
	viper.AddConfigPath("./etc")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("config.yml not found, using defaults")
		} else {
			fmt.Printf("read config failed: %v, using defaults\n", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Printf("unmarshal config failed: %v\n", err)
	}
	normalize(&cfg)
	return &cfg
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/blogit.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "bn")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	viper.SetDefault("blog.posts_per_page", 40)
	viper.SetDefault("blog.title_max_length", 72)
	viper.SetDefault("blog.body_min_length", 10)
	viper.SetDefault("blog.default_type", "blog")
	viper.SetDefault("blog.default_blogger_kind", "user")
	viper.SetDefault("blog.default_blogger_id", 0)
	viper.SetDefault("blog.blogger_display_name_method", "username")
	viper.SetDefault("blog.comments_backend", "database")
	viper.SetDefault("announce.site_hostname", "localhost:8080")
	viper.SetDefault("announce.ping_search_engines", false)
	viper.SetDefault("announce.sitemap_path", "/blog/posts.xml")
	viper.SetDefault("announce.types", map[string]interface{}{
		"blog": map[string]interface{}{
			"label":         "New blog post",
			"path_template": "/blog/articles/%d",
		},
		"press": map[string]interface{}{
			"label":         "New press release",
			"path_template": "/press/articles/%d",
		},
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allow_credentials", false)
	viper.SetDefault("cors.max_age", 3600)
	viper.SetDefault("security.login_rate_limit.window_seconds", 60)
	viper.SetDefault("security.login_rate_limit.max_attempts", 10)
}

// normalize 过滤外部配置里的非法取值
func normalize(cfg *Config) {
	if cfg.Blog.PostsPerPage <= 0 {
		cfg.Blog.PostsPerPage = 40
	}
	if cfg.Blog.TitleMaxLength <= 0 {
		cfg.Blog.TitleMaxLength = 72
	}
	if cfg.Blog.BodyMinLength <= 0 {
		cfg.Blog.BodyMinLength = 10
	}
	if strings.TrimSpace(cfg.Blog.DefaultType) == "" {
		cfg.Blog.DefaultType = "blog"
	}
	if strings.TrimSpace(cfg.Blog.BloggerDisplayNameMethod) == "" {
		cfg.Blog.BloggerDisplayNameMethod = "username"
	}
	if strings.TrimSpace(cfg.Blog.CommentsBackend) == "" {
		cfg.Blog.CommentsBackend = "database"
	}
}
