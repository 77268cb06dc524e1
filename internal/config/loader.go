// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// envPlaceholder 匹配 ${VAR} 或 ${VAR:default}
// g1: 变量名, g2: 默认值部分（含冒号）, g3: 默认值内容
var envPlaceholder = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 从 configs/ 目录加载配置
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func Load() (*Config, error) {
	return LoadFrom("configs")
}

// LoadFrom 从指定目录加载配置，目录下的文件均可缺省
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 加载默认配置
	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), true); err != nil {
		return nil, err
	}

	// 2. 加载环境特定配置
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	// 3. 绑定环境变量 (直接覆盖)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值 (兜底)
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	reader := strings.NewReader(expandEnv(string(content)))
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 手动标记已加载文件，后续文件走 MergeConfig
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
func expandEnv(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPlaceholder.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		// 保留原样以便识别未定义的变量
		return match
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate 校验跨字段约束
func (c *Config) Validate() error {
	if c.Generation.SumTolerance < 0 {
		return fmt.Errorf("generation.sum_tolerance must not be negative")
	}
	if c.Generation.Timeout < 0 {
		return fmt.Errorf("generation.timeout must not be negative")
	}
	provider := c.GenerationProvider()
	if provider == "" {
		return fmt.Errorf("llm.default_provider not configured")
	}
	p, ok := c.LLM.Providers[provider]
	if !ok {
		return fmt.Errorf("llm provider %s not found in config", provider)
	}
	switch strings.ToLower(strings.TrimSpace(p.Type)) {
	case "", ProviderTypeOpenAI, ProviderTypeGemini:
	default:
		return fmt.Errorf("llm provider %s has unsupported type %q", provider, p.Type)
	}
	return nil
}

// GenerationProvider 返回里程碑生成使用的 provider 名称
func (c *Config) GenerationProvider() string {
	if p := strings.TrimSpace(c.Generation.Provider); p != "" {
		return p
	}
	return strings.TrimSpace(c.LLM.DefaultProvider)
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "freelance-invoice-api")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值，端口避开前端 3000
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 3001)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "90s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.shutdown_timeout", "30s")

	// Redis 默认值
	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// LLM 默认值
	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("llm.providers.openai.type", ProviderTypeOpenAI)
	v.SetDefault("llm.providers.openai.api_key", os.Getenv("OPENAI_API_KEY"))
	v.SetDefault("llm.providers.openai.model", "gpt-4o")
	v.SetDefault("llm.providers.openai.max_tokens", 500)
	v.SetDefault("llm.providers.openai.temperature", 0.7)
	v.SetDefault("llm.providers.openai.timeout", "60s")

	// 生成默认值
	v.SetDefault("generation.timeout", "60s")
	v.SetDefault("generation.sum_tolerance", 0.01)
	v.SetDefault("generation.max_description_length", 4000)

	// 合约默认值 (Base Sepolia)
	v.SetDefault("contract.address", "0xe22EAfa82934Be3049B5AD3B2514A123bb7F74F3")
	v.SetDefault("contract.network", "Base Sepolia")
	v.SetDefault("contract.chain_id", 84532)
	v.SetDefault("contract.usdc_address", "0x036CbD53842c5426634e7929541eC2318f3dCF7e")
	v.SetDefault("contract.usdc_decimals", 6)
	v.SetDefault("contract.fee_percentage", 2)

	// Mini app manifest 默认值
	v.SetDefault("miniapp.name", "Freelance Invoice AI")
	v.SetDefault("miniapp.subtitle", "Automate freelance payments on Base")
	v.SetDefault("miniapp.description", "AI-powered freelance invoice generation with Smart Wallet technology on Base")
	v.SetDefault("miniapp.home_url", "https://your-domain.com")
	v.SetDefault("miniapp.icon_url", "https://your-domain.com/icon.png")
	v.SetDefault("miniapp.splash_image_url", "https://your-domain.com/splash.png")
	v.SetDefault("miniapp.splash_background_color", "#0052ff")
	v.SetDefault("miniapp.hero_image_url", "https://your-domain.com/hero.png")
	v.SetDefault("miniapp.primary_category", "finance")
	v.SetDefault("miniapp.tags", []string{"base", "freelance", "ai", "agents", "smart-wallet"})
	v.SetDefault("miniapp.tagline", "AI invoices in your wallet")

	// 通知默认值
	v.SetDefault("notification.list_key", "notifications:miniapp")
	v.SetDefault("notification.max_len", 1000)

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.limit", 10)
	v.SetDefault("security.rate_limit.window", "1m")
}
