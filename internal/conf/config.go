package conf

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/lk2023060901/llm-chat-client/internal/chat/types"
	"github.com/lk2023060901/llm-chat-client/internal/pkg/logger"
)

type Config struct {
	Chat ChatConfig    `mapstructure:"chat"`
	Log  logger.Config `mapstructure:"log"`
}

type ChatConfig struct {
	// BaseURL 完整的补全接口地址（含 /chat/completions 路径）
	BaseURL string `mapstructure:"base_url"`

	// Model 默认模型
	Model string `mapstructure:"model"`

	// APIKey 可选的 Bearer 凭证，也可用 LLMCHAT_API_KEY 环境变量提供
	APIKey string `mapstructure:"api_key"`

	// SystemPrompt 默认系统提示词，为空时由客户端生成
	SystemPrompt string `mapstructure:"system_prompt"`

	// Temperature 默认采样温度
	Temperature float64 `mapstructure:"temperature"`

	// MaxTokens 默认最大输出 token 数
	MaxTokens int `mapstructure:"max_tokens"`

	// 以下为客户端策略，见 types.Config
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	TemperatureMax float64       `mapstructure:"temperature_max"`
	MaxTokensCap   int           `mapstructure:"max_tokens_cap"`
}

// ClientConfig 转换为客户端策略配置
func (c *ChatConfig) ClientConfig() *types.Config {
	return &types.Config{
		Timeout:        c.Timeout,
		MaxRetries:     c.MaxRetries,
		RetryDelay:     c.RetryDelay,
		TemperatureMax: c.TemperatureMax,
		MaxTokensCap:   c.MaxTokensCap,
	}
}

// LoadConfig 加载配置文件，文件不存在时返回默认配置
func LoadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	viper.SetConfigFile(path)
	viper.SetEnvPrefix("LLMCHAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if key := os.Getenv("LLMCHAT_API_KEY"); key != "" && config.Chat.APIKey == "" {
		config.Chat.APIKey = key
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Chat: ChatConfig{
			BaseURL:     "http://localhost:8000/v1/chat/completions",
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Log: *logger.DefaultConfig(),
	}
}
