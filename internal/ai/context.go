package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"xraychat/internal/ai/component"
	"xraychat/internal/pkg/ark"
)

// LoadOptions 模型加载参数
type LoadOptions struct {
	FromPretrained string
	Provider       string
	APIKey         string
	BaseURL        string
	Tokenizer      string
	Precision      string
	Device         string
	Quant          int
}

// InferenceContext 推理上下文
// 进程启动时初始化一次，之后只读，进程退出时 Close
type InferenceContext struct {
	Backend   ChatBackend
	Tokenizer Tokenizer
	Model     string
	Provider  string
	Precision string
	Device    string
	Quant     int
}

// Close 释放后端资源
func (c *InferenceContext) Close() error {
	if c == nil || c.Backend == nil {
		return nil
	}
	return c.Backend.Close()
}

// Quantize 在首次使用前将模型切换为 4/8 bit 量化版本
func Quantize(opts *LoadOptions, bits int) error {
	if bits != 4 && bits != 8 {
		return fmt.Errorf("unsupported quantization bits: %d", bits)
	}

	suffix := fmt.Sprintf("-int%d", bits)
	if !strings.HasSuffix(opts.FromPretrained, suffix) {
		opts.FromPretrained += suffix
	}
	opts.Quant = bits
	// 量化模型不使用 GPU 初始化
	opts.Device = "cpu"
	return nil
}

// Load 加载模型与分词器，返回推理上下文
func Load(ctx context.Context, opts LoadOptions) (*InferenceContext, error) {
	if opts.FromPretrained == "" {
		return nil, fmt.Errorf("from_pretrained is required")
	}

	if opts.Quant != 0 {
		if err := Quantize(&opts, opts.Quant); err != nil {
			return nil, err
		}
	}

	if opts.Device == "" {
		opts.Device = "cuda"
	}
	if opts.Precision == "" {
		opts.Precision = "fp16"
	}

	tokenizer := Tokenizer{Name: opts.Tokenizer}
	if tokenizer.Name == "" {
		tokenizer.Name = opts.FromPretrained
	}

	backend, err := newBackend(ctx, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", opts.FromPretrained, err)
	}

	log.Info().
		Str("provider", opts.Provider).
		Str("model", opts.FromPretrained).
		Str("tokenizer", tokenizer.Name).
		Str("device", opts.Device).
		Str("precision", opts.Precision).
		Int("quant", opts.Quant).
		Msg("model loaded")

	return &InferenceContext{
		Backend:   backend,
		Tokenizer: tokenizer,
		Model:     opts.FromPretrained,
		Provider:  opts.Provider,
		Precision: opts.Precision,
		Device:    opts.Device,
		Quant:     opts.Quant,
	}, nil
}

// newBackend 根据 provider 创建解码后端
func newBackend(ctx context.Context, opts *LoadOptions) (ChatBackend, error) {
	switch opts.Provider {
	case "arkruntime":
		client, err := ark.NewClient(&ark.Config{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
			Model:   opts.FromPretrained,
		})
		if err != nil {
			return nil, err
		}
		return newArkBackend(client), nil
	default:
		chatModel, err := component.NewChatModel(ctx, &component.Config{
			Provider: opts.Provider,
			APIKey:   opts.APIKey,
			BaseURL:  opts.BaseURL,
			Model:    opts.FromPretrained,
		})
		if err != nil {
			return nil, err
		}
		return newEinoBackend(chatModel), nil
	}
}
