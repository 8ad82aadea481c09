package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// einoBackend 基于 eino ChatModel 的解码后端
type einoBackend struct {
	chatModel model.BaseChatModel
}

func newEinoBackend(chatModel model.BaseChatModel) *einoBackend {
	return &einoBackend{chatModel: chatModel}
}

// Chat 单轮多模态对话
func (b *einoBackend) Chat(ctx context.Context, call *ChatCall) (*ChatOutput, error) {
	if b.chatModel == nil {
		return nil, ErrUnavailable
	}

	messages := buildEinoMessages(call)

	opts := []model.Option{
		model.WithTemperature(float32(call.Temperature)),
		model.WithTopP(float32(call.TopP)),
	}
	if call.MaxLength > 0 {
		opts = append(opts, model.WithMaxTokens(call.MaxLength))
	}
	logUnsupported("eino", call)

	resp, err := b.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("chat model generate failed: %w", err)
	}

	return &ChatOutput{
		Answer:  resp.Content,
		History: call.History.Append(call.Prompt, resp.Content),
		Raw:     resp,
	}, nil
}

// Close eino ChatModel 无需释放
func (b *einoBackend) Close() error {
	return nil
}

// buildEinoMessages 历史轮次按 user/assistant 展开，图片附在当前问题上
func buildEinoMessages(call *ChatCall) []*schema.Message {
	messages := make([]*schema.Message, 0, len(call.History)*2+2)
	messages = append(messages, schema.SystemMessage(systemPrompt(call.English)))

	for _, turn := range call.History {
		messages = append(messages,
			schema.UserMessage(turn.User),
			schema.AssistantMessage(turn.Assistant, nil),
		)
	}

	parts := []schema.ChatMessagePart{}
	if call.Image != nil {
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      call.Image.DataURL(),
				MIMEType: call.Image.MIMEType,
			},
		})
	}
	parts = append(parts, schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeText,
		Text: call.Prompt,
	})

	messages = append(messages, &schema.Message{
		Role:         schema.User,
		MultiContent: parts,
	})
	return messages
}
