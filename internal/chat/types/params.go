package types

// Params 单次补全调用的参数（由调用方逐次提供）
type Params struct {
	// BaseURL 完整的补全接口地址（含 /chat/completions 路径），
	// 客户端不做任何路径拼接
	BaseURL string

	// Model 模型标识，不能为空
	Model string

	// SystemPrompt 系统提示词，为空时客户端生成带当前日期的默认提示词
	SystemPrompt string

	// UserPrompt 用户提示词，去除空白后不能为空
	UserPrompt string

	// Temperature 采样温度，范围 [0, Config.TemperatureMax]
	Temperature float64

	// MaxTokens 最大输出 token 数，范围 [1, Config.MaxTokensCap]
	MaxTokens int

	// APIKey 可选的 Bearer 凭证，提供时去除空白后不能为空；
	// 不会出现在任何日志里
	APIKey string
}
