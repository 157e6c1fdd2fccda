package types

import "time"

// Config 客户端策略配置
type Config struct {
	// Timeout 单次请求超时时间
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// MaxRetries 总尝试次数（含首次请求）
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// RetryDelay 两次尝试之间的固定等待时间
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`

	// TemperatureMax 采样温度上限（下限固定为 0）
	TemperatureMax float64 `mapstructure:"temperature_max" yaml:"temperature_max"`

	// MaxTokensCap 最大输出 token 上限（下限固定为 1）
	MaxTokensCap int `mapstructure:"max_tokens_cap" yaml:"max_tokens_cap"`
}

// Validate 验证配置并填充默认值
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
	if c.TemperatureMax <= 0 {
		c.TemperatureMax = 2.0
	}
	if c.MaxTokensCap <= 0 {
		c.MaxTokensCap = 32000
	}
	return nil
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Timeout:        60 * time.Second,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
		TemperatureMax: 2.0,
		MaxTokensCap:   32000,
	}
}
