// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Generation    GenerationConfig    `yaml:"generation" mapstructure:"generation"`
	Contract      ContractConfig      `yaml:"contract" mapstructure:"contract"`
	MiniApp       MiniAppConfig       `yaml:"miniapp" mapstructure:"miniapp"`
	Notification  NotificationConfig  `yaml:"notification" mapstructure:"notification"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	// Enabled 关闭时限流与通知存储退化为无状态实现
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// Provider 类型
const (
	ProviderTypeOpenAI = "openai"
	ProviderTypeGemini = "gemini"
)

// ProviderConfig LLM 提供商配置
type ProviderConfig struct {
	// Type openai（含兼容 OpenAI 协议的网关）或 gemini，留空按 openai 处理
	Type        string        `yaml:"type" mapstructure:"type"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GenerationConfig 里程碑生成配置
type GenerationConfig struct {
	// Provider 为空时使用 llm.default_provider
	Provider string `yaml:"provider" mapstructure:"provider"`
	// Timeout 调用方为单次生成施加的上限，超时视为 Timeout 错误
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// SumTolerance 金额求和允许的绝对误差（与请求金额同单位）
	SumTolerance float64 `yaml:"sum_tolerance" mapstructure:"sum_tolerance"`
	// MaxDescriptionLength 项目描述的最大字符数
	MaxDescriptionLength int `yaml:"max_description_length" mapstructure:"max_description_length"`
}

// ContractConfig 托管合约静态信息
type ContractConfig struct {
	Address       string  `yaml:"address" mapstructure:"address"`
	Network       string  `yaml:"network" mapstructure:"network"`
	ChainID       int64   `yaml:"chain_id" mapstructure:"chain_id"`
	USDCAddress   string  `yaml:"usdc_address" mapstructure:"usdc_address"`
	USDCDecimals  int     `yaml:"usdc_decimals" mapstructure:"usdc_decimals"`
	FeePercentage float64 `yaml:"fee_percentage" mapstructure:"fee_percentage"`
}

// MiniAppConfig Farcaster mini app manifest
type MiniAppConfig struct {
	Name                  string   `yaml:"name" mapstructure:"name"`
	Subtitle              string   `yaml:"subtitle" mapstructure:"subtitle"`
	Description           string   `yaml:"description" mapstructure:"description"`
	HomeURL               string   `yaml:"home_url" mapstructure:"home_url"`
	IconURL               string   `yaml:"icon_url" mapstructure:"icon_url"`
	SplashImageURL        string   `yaml:"splash_image_url" mapstructure:"splash_image_url"`
	SplashBackgroundColor string   `yaml:"splash_background_color" mapstructure:"splash_background_color"`
	HeroImageURL          string   `yaml:"hero_image_url" mapstructure:"hero_image_url"`
	PrimaryCategory       string   `yaml:"primary_category" mapstructure:"primary_category"`
	Tags                  []string `yaml:"tags" mapstructure:"tags"`
	Tagline               string   `yaml:"tagline" mapstructure:"tagline"`
}

// NotificationConfig 通知存储配置
type NotificationConfig struct {
	ListKey string `yaml:"list_key" mapstructure:"list_key"`
	MaxLen  int64  `yaml:"max_len" mapstructure:"max_len"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置（仅作用于生成接口）
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Limit   int           `yaml:"limit" mapstructure:"limit"`
	Window  time.Duration `yaml:"window" mapstructure:"window"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
