package ark

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
)

const (
	defaultBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	defaultModel   = "doubao-seed-1-6-vision-250815"
)

// Config Ark 连接配置
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client Ark 客户端封装
// 用于调用火山引擎的 Ark 视觉理解模型
// 使用官方 volcengine-go-sdk
type Client struct {
	client *arkruntime.Client
	model  string
}

// NewClient 创建 Ark 客户端
func NewClient(cfg *Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Ark API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}

	arkClient := arkruntime.NewClientWithApiKey(cfg.APIKey, arkruntime.WithBaseUrl(baseURL))

	return &Client{
		client: arkClient,
		model:  modelName,
	}, nil
}

// Message 消息结构，ImageURL 非空时作为多模态消息发送
type Message struct {
	Role     string
	Content  string
	ImageURL string
}

// VisionRequest 视觉对话请求
type VisionRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// VisionResponse 视觉对话响应
type VisionResponse struct {
	ID               string
	Content          string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

// CreateVisionCompletion 调用 ChatCompletion 接口生成回答
func (c *Client) CreateVisionCompletion(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	input := &model.ChatCompletionRequest{
		Model:       c.model,
		Messages:    convertMessages(req.Messages),
		Temperature: float32(req.Temperature),
		TopP:        float32(req.TopP),
	}
	if req.MaxTokens > 0 {
		input.MaxTokens = req.MaxTokens
	}

	output, err := c.client.CreateChatCompletion(ctx, input)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("failed to call Ark ChatCompletion API")
		return nil, fmt.Errorf("Ark API call failed: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	var content string
	if choice.Message.Content != nil && choice.Message.Content.StringValue != nil {
		content = *choice.Message.Content.StringValue
	}

	return &VisionResponse{
		ID:               output.ID,
		Content:          content,
		FinishReason:     string(choice.FinishReason),
		PromptTokens:     output.Usage.PromptTokens,
		CompletionTokens: output.Usage.CompletionTokens,
	}, nil
}

// Model 当前使用的模型
func (c *Client) Model() string {
	return c.model
}

// convertMessages 转换消息格式
func convertMessages(messages []Message) []*model.ChatCompletionMessage {
	result := make([]*model.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		content := &model.ChatCompletionMessageContent{}
		if msg.ImageURL == "" {
			text := msg.Content
			content.StringValue = &text
		} else {
			content.ListValue = []*model.ChatCompletionMessageContentPart{
				{
					Type:     model.ChatCompletionMessageContentPartTypeImageURL,
					ImageURL: &model.ChatMessageImageURL{URL: msg.ImageURL},
				},
				{
					Type: model.ChatCompletionMessageContentPartTypeText,
					Text: msg.Content,
				},
			}
		}
		result[i] = &model.ChatCompletionMessage{
			Role:    msg.Role,
			Content: content,
		}
	}
	return result
}
