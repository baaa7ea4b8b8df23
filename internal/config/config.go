package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfigurationMissing 必填配置缺失（启动即失败，不属于请求级错误）
var ErrConfigurationMissing = errors.New("缺少必填配置")

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig           `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig         `mapstructure:"database"` // PostgreSQL配置
	Upstream UpstreamConfig         `mapstructure:"upstream"` // 上游赔率接口配置
	Redis    RedisConfig            `mapstructure:"redis"`    // 快照推送（可选）
	Sync     SyncConfig             `mapstructure:"sync"`     // 定时刷新（可选）
	Sports   map[string]SportConfig `mapstructure:"sports"`   // 各运动的默认赛事配置，key 为 sport slug
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// IsRelease release 模式下错误响应不带 details
func (s ServerConfig) IsRelease() bool {
	return s.Mode == "release"
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// UpstreamConfig 上游赔率提供方配置
type UpstreamConfig struct {
	PrematchURL    string  `mapstructure:"prematch_url"`    // 赛前批量接口（FI 逗号拼接）
	LiveURL        string  `mapstructure:"live_url"`        // 滚球单赛事接口基础地址
	Token          string  `mapstructure:"token"`           // 访问 token
	Timeout        int     `mapstructure:"timeout"`         // 单次请求超时（秒）
	RequestTimeout int     `mapstructure:"request_timeout"` // 整个请求的总超时（秒）
	Proxy          string  `mapstructure:"proxy"`           // 代理地址
	RateLimit      float64 `mapstructure:"rate_limit"`      // 每秒请求数上限，<=0 不限速
	Burst          int     `mapstructure:"burst"`           // 限速桶容量
	MaxConcurrency int     `mapstructure:"max_concurrency"` // 滚球并发拉取上限
}

// RedisConfig 快照 stream 配置，Addr 为空时关闭
type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"` // stream 近似最大长度，<=0 不裁剪
}

// Enabled 未配置地址时不推送快照
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

// SyncConfig 定时刷新赛前赔率，Interval<=0 关闭
type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// SportConfig 单个运动的默认赛事及赛事元信息
type SportConfig struct {
	DefaultEventIDs []string             `mapstructure:"default_event_ids"` // 未传 evIds 时使用
	Events          map[string]EventInfo `mapstructure:"events"`            // FI -> 元信息（网球主客及联赛）
}

// Event 按 FI 取赛事信息；viper 会把 key 转成小写，这里两种都查
func (s SportConfig) Event(fi string) (EventInfo, bool) {
	if info, ok := s.Events[fi]; ok {
		return info, true
	}
	info, ok := s.Events[strings.ToLower(fi)]
	return info, ok
}

// EventInfo 赛事补充信息，上游赛前数据不带选手名，需要配置补齐
type EventInfo struct {
	Home     string `mapstructure:"home"`
	Away     string `mapstructure:"away"`
	LeagueID string `mapstructure:"league_id"`
	EventID  string `mapstructure:"event_id"`
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("upstream.timeout", 10)
	v.SetDefault("upstream.request_timeout", 30)
	v.SetDefault("upstream.rate_limit", 10.0)
	v.SetDefault("upstream.burst", 5)
	v.SetDefault("upstream.max_concurrency", 8)
	v.SetDefault("redis.stream_max_len", 1000)
	v.SetDefault("sync.interval", 0)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if cfg.Sports == nil {
		cfg.Sports = make(map[string]SportConfig)
	}
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("BET365_API_URL"); v != "" {
		cfg.Upstream.PrematchURL = v
	}
	if v := os.Getenv("BET365_API_TOKEN"); v != "" {
		cfg.Upstream.Token = v
	}
	if v := os.Getenv("LIVE_API_URL"); v != "" {
		cfg.Upstream.LiveURL = v
	}
	if v := os.Getenv("UPSTREAM_PROXY"); v != "" {
		cfg.Upstream.Proxy = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Validate 必填项检查，缺失返回 ErrConfigurationMissing
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Upstream.PrematchURL) == "" {
		missing = append(missing, "upstream.prematch_url")
	}
	if strings.TrimSpace(c.Upstream.LiveURL) == "" {
		missing = append(missing, "upstream.live_url")
	}
	if strings.TrimSpace(c.Upstream.Token) == "" {
		missing = append(missing, "upstream.token")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		missing = append(missing, "database.dsn")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(missing, ", "))
	}
	return nil
}

// Sport 取某个运动的配置，不存在时返回零值
func (c *Config) Sport(slug string) SportConfig {
	if c.Sports == nil {
		return SportConfig{}
	}
	return c.Sports[slug]
}

// UpstreamTimeout 单次上游请求超时
func (u UpstreamConfig) UpstreamTimeout() time.Duration {
	if u.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(u.Timeout) * time.Second
}

// OverallTimeout 单个 HTTP 请求内所有上游调用的总超时
func (u UpstreamConfig) OverallTimeout() time.Duration {
	if u.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(u.RequestTimeout) * time.Second
}
