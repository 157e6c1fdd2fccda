package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lk2023060901/llm-chat-client/internal/chat/types"
)

// ValidateParams 按固定顺序校验调用参数，返回第一个失败项
//
// 顺序：URL → 模型 → 用户提示词 → 温度 → max_tokens → API key。
// 每个失败项都有指明字段和约束的独立消息。
func (c *Client) ValidateParams(p *types.Params) error {
	if err := validateURL(p.BaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(p.Model) == "" {
		return types.NewValidationError("model", "model name cannot be empty")
	}
	if strings.TrimSpace(p.UserPrompt) == "" {
		return types.NewValidationError("user_prompt", "user prompt cannot be empty")
	}
	if p.Temperature < 0 {
		return types.NewValidationError("temperature", "temperature must be >= 0")
	}
	if p.Temperature > c.config.TemperatureMax {
		return types.NewValidationError("temperature",
			fmt.Sprintf("temperature must be <= %g", c.config.TemperatureMax))
	}
	if p.MaxTokens < 1 {
		return types.NewValidationError("max_tokens", "max_tokens must be >= 1")
	}
	if p.MaxTokens > c.config.MaxTokensCap {
		return types.NewValidationError("max_tokens",
			fmt.Sprintf("max_tokens must be <= %d", c.config.MaxTokensCap))
	}
	if p.APIKey != "" && strings.TrimSpace(p.APIKey) == "" {
		return types.NewValidationError("api_key", "API key cannot be blank when provided")
	}
	return nil
}

// validateURL 校验补全接口地址
//
// localhost 地址单独处理：通用 URL 校验会拒绝部分合法的
// http(s)://localhost:<port> 形式，这里只要求端口是 1-65535 的数字。
func validateURL(raw string) error {
	if raw == "" {
		return types.NewValidationError("base_url", "URL cannot be empty")
	}

	if strings.HasPrefix(raw, "http://localhost:") || strings.HasPrefix(raw, "https://localhost:") {
		rest := raw[strings.Index(raw, "localhost:")+len("localhost:"):]
		port := rest
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			port = rest[:i]
		}
		if !isValidPort(port) {
			return types.NewValidationError("base_url", "invalid localhost URL format")
		}
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return types.NewValidationError("base_url", "invalid URL format")
	}
	if port := u.Port(); port != "" && !isValidPort(port) {
		return types.NewValidationError("base_url", "URL port must be between 1 and 65535")
	}
	return nil
}

func isValidPort(port string) bool {
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}
