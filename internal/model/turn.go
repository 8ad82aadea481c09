package model

// Turn 一轮对话：用户消息与助手回复
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Complete 两侧消息均非空
func (t Turn) Complete() bool {
	return t.User != "" && t.Assistant != ""
}

// Transcript 对话记录，插入顺序即对话顺序
type Transcript []Turn

// Greeting 返回只包含问候轮次 ("", prompt) 的对话记录
func Greeting(prompt string) Transcript {
	return Transcript{{User: "", Assistant: prompt}}
}

// Clone 复制对话记录，避免调用方共享底层数组
func (t Transcript) Clone() Transcript {
	if t == nil {
		return Transcript{}
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Completed 去除任一侧为空的轮次，返回新的对话记录
func (t Transcript) Completed() Transcript {
	out := make(Transcript, 0, len(t))
	for _, turn := range t {
		if turn.Complete() {
			out = append(out, turn)
		}
	}
	return out
}

// Append 追加一轮对话，返回新的对话记录
func (t Transcript) Append(user, assistant string) Transcript {
	out := t.Clone()
	return append(out, Turn{User: user, Assistant: assistant})
}
