package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Sentiment SentimentConfig
	AI        AIConfig
	Cache     CacheConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	database, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	sentiment, err := loadSentimentConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	cache, err := loadCacheConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Log:       loadLogConfig(),
		Database:  database,
		Sentiment: sentiment,
		AI:        ai,
		Cache:     cache,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	FilePath   string
	Production bool
}

func loadLogConfig() LogConfig {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	return LogConfig{
		FilePath:   getEnvOrDefault("LOG_FILE", "logs/app.log"),
		Production: env == "production" || env == "prod",
	}
}

// DatabaseConfig 描述关系型存储。DSN 为空时使用内存存储。
type DatabaseConfig struct {
	DSN         string
	AutoMigrate bool
}

// Enabled 表示是否配置了数据库连接。
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != ""
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	autoMigrate, err := parseBoolEnv("DB_AUTO_MIGRATE", true)
	if err != nil {
		return DatabaseConfig{}, err
	}
	return DatabaseConfig{
		DSN:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AutoMigrate: autoMigrate,
	}, nil
}

// SentimentConfig 描述情感打分服务（RapidAPI Twinword）。
type SentimentConfig struct {
	APIKey  string
	URL     string
	Host    string
	Timeout time.Duration
}

// Enabled 表示是否提供了可用的密钥；占位符视为未配置。
func (c SentimentConfig) Enabled() bool {
	return !IsPlaceholderKey(c.APIKey)
}

func loadSentimentConfig() (SentimentConfig, error) {
	timeout, err := parseSecondsEnv("SENTIMENT_TIMEOUT", 10)
	if err != nil {
		return SentimentConfig{}, err
	}
	return SentimentConfig{
		APIKey:  strings.TrimSpace(os.Getenv("SENTIMENT_API_KEY")),
		URL:     getEnvOrDefault("SENTIMENT_API_URL", "https://twinword-twinword-bundle-v1.p.rapidapi.com/sentiment_analyze/"),
		Host:    getEnvOrDefault("SENTIMENT_API_HOST", "twinword-twinword-bundle-v1.p.rapidapi.com"),
		Timeout: timeout,
	}, nil
}

const (
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Ark         ArkConfig
}

// ArkConfig 描述火山方舟模型配置。
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
}

// Enabled 表示当前 Provider 是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.Ark.Enabled()
	default:
		return c.Model != "" && !IsPlaceholderKey(c.APIKey)
	}
}

// Enabled 表示是否提供了 Ark 所需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (!IsPlaceholderKey(c.APIKey) || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个 Ark 模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Ark.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	temperature := float32(c.Temperature)
	timeout := c.Timeout
	// 单次请求，失败直接走兜底逻辑。
	retryTimes := 0

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.Ark.BaseURL,
		Region:      c.Ark.Region,
		APIKey:      c.Ark.APIKey,
		AccessKey:   c.Ark.AccessKey,
		SecretKey:   c.Ark.SecretKey,
		Model:       c.Ark.Model,
		Temperature: &temperature,
		Timeout:     &timeout,
		RetryTimes:  &retryTimes,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderOpenAI))
	if provider != ProviderOpenAI && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q: want %s or %s", provider, ProviderOpenAI, ProviderArk)
	}

	temperature := 0.7
	if override, err := parseOptionalFloatEnv("AI_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	timeout, err := parseSecondsEnv("AI_TIMEOUT", 20)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:    provider,
		APIKey:      strings.TrimSpace(os.Getenv("AI_API_KEY")),
		BaseURL:     getEnvOrDefault("AI_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:       getEnvOrDefault("AI_MODEL", "llama-3.3-70b-versatile"),
		Temperature: temperature,
		Timeout:     timeout,
		Ark: ArkConfig{
			APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
			AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
			Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
			BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
			Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		},
	}, nil
}

// CacheConfig 描述进程内缓存。
type CacheConfig struct {
	MoodHistoryTTL time.Duration
}

func loadCacheConfig() (CacheConfig, error) {
	ttl, err := parseSecondsEnv("MOOD_HISTORY_CACHE_TTL", 30)
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{MoodHistoryTTL: ttl}, nil
}

// IsPlaceholderKey reports whether a credential is missing or still a template value.
func IsPlaceholderKey(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized == "" {
		return true
	}
	return strings.Contains(normalized, "insert_key") || strings.Contains(normalized, "placeholder")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

// parseSecondsEnv 读取以秒为单位的整数，非正值回退到默认值。
func parseSecondsEnv(key string, defaultSeconds int) (time.Duration, error) {
	seconds, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if seconds == nil || *seconds <= 0 {
		return time.Duration(defaultSeconds) * time.Second, nil
	}
	return time.Duration(*seconds) * time.Second, nil
}
