package ai

import (
	"context"

	"github.com/rs/zerolog/log"

	"xraychat/internal/model"
)

// Tokenizer 分词器句柄，启动时加载一次，随每次调用传入后端
type Tokenizer struct {
	Name string
}

// ChatCall 单轮对话解码调用参数
type ChatCall struct {
	Tokenizer         Tokenizer
	Prompt            string
	History           model.Transcript
	Image             *EncodedImage
	MaxLength         int
	MinLength         int
	TopP              float64
	TopK              int
	Temperature       float64
	RepetitionPenalty float64
	English           bool
}

// ChatOutput 后端返回的回答、新历史与原始输出
type ChatOutput struct {
	Answer  string
	History model.Transcript
	Raw     any
}

// ChatBackend 外部单轮对话解码服务
type ChatBackend interface {
	Chat(ctx context.Context, call *ChatCall) (*ChatOutput, error)
	Close() error
}

// logUnsupported 记录后端接口无法表达的采样参数
// chat completions 接口没有 top_k、min_length、repetition_penalty
func logUnsupported(backend string, call *ChatCall) {
	if call.TopK <= 0 && call.MinLength <= 0 && call.RepetitionPenalty <= 0 {
		return
	}
	log.Debug().
		Str("backend", backend).
		Int("top_k", call.TopK).
		Int("min_length", call.MinLength).
		Float64("repetition_penalty", call.RepetitionPenalty).
		Msg("sampling parameters not supported by backend, ignored")
}

// systemPrompt 根据语言选择回答语言约束
func systemPrompt(english bool) string {
	if english {
		return "You are a radiology assistant. Read the chest X-ray and answer in English."
	}
	return "你是一名放射科医学助手，请阅读胸片并使用中文回答。"
}
