package history

import (
	"github.com/lk2023060901/llm-chat-client/internal/chat/types"
)

// Speaker 会话记录中的发言方
type Speaker string

const (
	SpeakerUser      Speaker = "User"      // 用户
	SpeakerAssistant Speaker = "Assistant" // 模型回复
	SpeakerNotice    Speaker = "System"    // 系统通知（如错误提示），不参与 API 请求
)

// Entry 一条会话记录
type Entry struct {
	Speaker Speaker
	Text    string
}

// Transcript 会话记录，只追加
//
// 每轮对话（无论成功失败）恰好追加一条记录；记录不做原地修改，
// 也不在进程内裁剪，生命周期等于会话本身。
type Transcript struct {
	entries []Entry
}

// New 创建空的会话记录
func New() *Transcript {
	return &Transcript{}
}

// Append 追加一条记录
func (t *Transcript) Append(speaker Speaker, text string) {
	t.entries = append(t.entries, Entry{Speaker: speaker, Text: text})
}

// Len 返回记录条数
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Entries 返回所有记录的副本
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Messages 将会话记录转换为 API 消息序列
//
// 系统通知只面向用户展示，不进入请求；其余记录按原始顺序
// 映射为 user/assistant 消息。
func (t *Transcript) Messages() []types.Message {
	msgs := make([]types.Message, 0, len(t.entries))
	for _, e := range t.entries {
		switch e.Speaker {
		case SpeakerUser:
			msgs = append(msgs, types.Message{Role: types.RoleUser, Content: e.Text})
		case SpeakerAssistant:
			msgs = append(msgs, types.Message{Role: types.RoleAssistant, Content: e.Text})
		}
	}
	return msgs
}
