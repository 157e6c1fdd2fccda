package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/lk2023060901/llm-chat-client/internal/chat/prompt"
	"github.com/lk2023060901/llm-chat-client/internal/chat/types"
	"github.com/lk2023060901/llm-chat-client/internal/pkg/logger"
)

// maxBodyExcerpt 错误消息中响应体摘录的最大长度
const maxBodyExcerpt = 512

// Client 聊天补全客户端
//
// 执行一次带校验的请求/响应周期：构造 OpenAI 格式的补全请求，
// 同步 POST 到调用方指定的接口地址，解析响应并提取回复文本。
// 传输层和协议层失败按固定间隔重试，重试预算耗尽后返回最后
// 一次的分类错误。
type Client struct {
	config     *types.Config
	httpClient *http.Client
	logger     *logger.Logger
}

// New 创建聊天补全客户端
func New(cfg *types.Config, log *logger.Logger) (*Client, error) {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: log,
	}, nil
}

// Complete 执行一次聊天补全，返回模型回复文本
//
// 先校验参数，校验失败立即返回，不发起网络请求。消息序列为
// 系统提示词、history 中的历史消息（按原始顺序）、当前用户消息；
// 系统提示词为空时使用带当前日期的默认提示词。
//
// 可重试失败（超时、连接失败、非 2xx 状态码）按 Config.RetryDelay
// 固定间隔重试，总尝试次数不超过 Config.MaxRetries；等待期间
// ctx 取消则立即终止。格式错误不重试。
func (c *Client) Complete(ctx context.Context, p *types.Params, history []types.Message) (string, error) {
	if err := c.ValidateParams(p); err != nil {
		return "", err
	}

	reqBody := types.ChatCompletionRequest{
		Model:       p.Model,
		Messages:    buildMessages(p, history),
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request body: %w", err)
	}

	requestID := uuid.NewString()

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		text, err := c.doComplete(ctx, p, data, requestID, attempt)
		if err == nil {
			return text, nil
		}

		var ce *types.ClientError
		if !errors.As(err, &ce) || !ce.IsRetryable() {
			return "", err
		}
		lastErr = err

		if attempt == c.config.MaxRetries {
			break
		}

		c.logger.Warn("chat request failed, retrying",
			zap.String("request_id", requestID),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.config.MaxRetries),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return "", types.NewTransportError("request cancelled", ctx.Err())
		case <-time.After(c.config.RetryDelay):
		}
	}

	return "", lastErr
}

// doComplete 执行单次请求尝试
func (c *Client) doComplete(ctx context.Context, p *types.Params, data []byte, requestID string, attempt int) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(data))
	if err != nil {
		return "", types.NewTransportError("create request failed", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	c.logger.Debug("chat request",
		zap.String("request_id", requestID),
		zap.String("url", p.BaseURL),
		zap.Int("attempt", attempt),
		zap.String("body", string(data)),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", types.NewTransportError("request timed out, the server took too long to respond", err)
		}
		return "", types.NewTransportError("connection error, could not reach the server", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewTransportError("read response failed", err)
	}

	c.logger.Debug("chat response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.String("body", string(body)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", types.NewProtocolError(resp.StatusCode, excerpt(body))
	}

	text, err := extractContent(body)
	if err != nil {
		return "", err
	}

	// usage 只用于日志，缺失时保持零值
	var chatResp types.ChatCompletionResponse
	if uerr := json.Unmarshal(body, &chatResp); uerr == nil {
		c.logger.Info("chat completion succeeded",
			zap.String("request_id", requestID),
			zap.String("model", p.Model),
			zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
			zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
		)
	}

	return text, nil
}

// buildMessages 构造请求消息序列：系统提示词 → 历史消息 → 当前用户消息
func buildMessages(p *types.Params, history []types.Message) []types.Message {
	system := p.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = prompt.DefaultSystem(time.Now())
	}

	msgs := make([]types.Message, 0, len(history)+2)
	msgs = append(msgs, types.Message{Role: types.RoleSystem, Content: system})
	msgs = append(msgs, history...)
	msgs = append(msgs, types.Message{Role: types.RoleUser, Content: p.UserPrompt})
	return msgs
}

// extractContent 从响应体中提取 choices[0].message.content
//
// 区分三种格式错误：响应体不是 JSON、缺少 choices、缺少
// message.content，便于对非标准服务端排障。
func extractContent(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", types.NewFormatError("could not parse the response as JSON")
	}

	choices := gjson.GetBytes(body, "choices")
	if !choices.Exists() || !choices.IsArray() || len(choices.Array()) == 0 {
		return "", types.NewFormatError("unexpected response format, could not find 'choices' in the response")
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return "", types.NewFormatError("unexpected response format, could not find 'message.content' in the response")
	}

	return content.String(), nil
}

// isTimeout 判断是否为超时错误
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

// excerpt 截断响应体用于错误消息
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyExcerpt {
		return s[:maxBodyExcerpt] + "..."
	}
	return s
}

// Close 关闭客户端，释放空闲连接
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
