package ai

import (
	"context"

	"xraychat/internal/pkg/ark"
)

// arkBackend 直接使用 volcengine arkruntime 的解码后端
type arkBackend struct {
	client *ark.Client
}

func newArkBackend(client *ark.Client) *arkBackend {
	return &arkBackend{client: client}
}

// Chat 单轮多模态对话
func (b *arkBackend) Chat(ctx context.Context, call *ChatCall) (*ChatOutput, error) {
	messages := make([]ark.Message, 0, len(call.History)*2+2)
	messages = append(messages, ark.Message{Role: "system", Content: systemPrompt(call.English)})
	for _, turn := range call.History {
		messages = append(messages,
			ark.Message{Role: "user", Content: turn.User},
			ark.Message{Role: "assistant", Content: turn.Assistant},
		)
	}

	current := ark.Message{Role: "user", Content: call.Prompt}
	if call.Image != nil {
		current.ImageURL = call.Image.DataURL()
	}
	messages = append(messages, current)

	logUnsupported("arkruntime", call)

	resp, err := b.client.CreateVisionCompletion(ctx, &ark.VisionRequest{
		Messages:    messages,
		MaxTokens:   call.MaxLength,
		Temperature: call.Temperature,
		TopP:        call.TopP,
	})
	if err != nil {
		return nil, err
	}

	return &ChatOutput{
		Answer:  resp.Content,
		History: call.History.Append(call.Prompt, resp.Content),
		Raw:     resp,
	}, nil
}

// Close arkruntime 客户端无需释放
func (b *arkBackend) Close() error {
	return nil
}
