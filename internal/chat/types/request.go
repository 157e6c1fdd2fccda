package types

// 消息角色（OpenAI 协议）
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 对话消息（用于请求和响应）
type Message struct {
	Role    string `json:"role"`    // system, user, assistant
	Content string `json:"content"` // 文本内容
}

// ChatCompletionRequest 聊天补全请求（OpenAI 标准格式）
//
// Temperature 和 MaxTokens 始终序列化，0 也是合法的采样温度。
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}
