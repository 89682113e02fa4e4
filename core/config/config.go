// Package config 加载桌面客户端配置：YAML 文件为基底，环境变量覆盖。
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	coreerrors "github.com/luoxbin/nearhub-desktop/core/errors"
)

// Config 描述客户端可调参数。
type Config struct {
	BaseURL    string  `yaml:"base_url"`
	Platform   string  `yaml:"platform"`
	TimeoutMS  int     `yaml:"timeout_ms"`
	CacheTTLMS int     `yaml:"cache_ttl_ms"`
	RateQPS    float64 `yaml:"rate_qps"`
	RateBurst  int     `yaml:"rate_burst"`
	TokenFile  string  `yaml:"token_file"`
	LogLevel   string  `yaml:"log_level"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		BaseURL:    "https://api.nearhub.app",
		Platform:   "web",
		TimeoutMS:  15000,
		CacheTTLMS: 30000,
		RateQPS:    10,
		RateBurst:  5,
		LogLevel:   "info",
	}
}

// Load 读取 YAML 配置，文件不存在时返回默认值；
// 随后应用 NEARHUB_* 环境变量覆盖。
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, coreerrors.Wrap(coreerrors.ErrCodeInvalidConfig, "config: 配置文件格式非法", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// 无配置文件时使用默认值
		default:
			return Config{}, coreerrors.Wrap(coreerrors.ErrCodeInvalidConfig, "config: 读取配置文件失败", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NEARHUB_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("NEARHUB_PLATFORM"); v != "" {
		c.Platform = v
	}
	if v := os.Getenv("NEARHUB_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TimeoutMS = n
		}
	}
	if v := os.Getenv("NEARHUB_CACHE_TTL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.CacheTTLMS = n
		}
	}
	if v := os.Getenv("NEARHUB_TOKEN_FILE"); v != "" {
		c.TokenFile = v
	}
	if v := os.Getenv("NEARHUB_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Timeout 返回请求截止时长。
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// CacheTTL 返回缓存默认存活时长。
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMS) * time.Millisecond
}
