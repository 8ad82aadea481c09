package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"xraychat/internal/model"
)

// GenerateRequest 推理网关请求
type GenerateRequest struct {
	Text      string
	Image     *model.Image
	History   model.Transcript
	Overrides *model.SamplingOverrides
	Language  model.Language
}

// Result 推理结果：成功时 Err 为 nil
type Result struct {
	Answer   string
	Sampling model.SamplingParameters
	Latency  time.Duration
	Err      *InferenceError
}

// OK 是否成功
func (r Result) OK() bool {
	return r.Err == nil
}

// Gateway 推理网关
// 职责: 将对话请求转换为模型调用，只返回回答文本
type Gateway struct {
	ictx     *InferenceContext
	defaults model.SamplingParameters
	timeout  time.Duration
}

// NewGateway 创建推理网关
// timeout 为 0 时不限制后端调用时长
func NewGateway(ictx *InferenceContext, defaults model.SamplingParameters, timeout time.Duration) *Gateway {
	return &Gateway{
		ictx:     ictx,
		defaults: defaults,
		timeout:  timeout,
	}
}

// Generate 同步生成回答
func (g *Gateway) Generate(ctx context.Context, req *GenerateRequest) (res Result) {
	start := time.Now()
	params := g.defaults.Merge(req.Overrides)
	res.Sampling = params

	defer func() {
		if rec := recover(); rec != nil {
			res.Err = &InferenceError{Kind: KindInternal, Err: fmt.Errorf("backend panic: %v", rec)}
		}
		res.Latency = time.Since(start)
	}()

	if g.ictx == nil || g.ictx.Backend == nil {
		res.Err = &InferenceError{Kind: KindUnavailable, Err: ErrUnavailable}
		return res
	}

	input, err := BuildInput(req.Text, req.Image, req.History, params, false)
	if err != nil {
		res.Err = newInferenceError(err)
		return res
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	call := &ChatCall{
		Tokenizer:         g.ictx.Tokenizer,
		Prompt:            input.Prompt,
		History:           input.History,
		Image:             input.Image,
		MaxLength:         input.Gen.MaxLength,
		MinLength:         input.Gen.MinLength,
		TopP:              input.Gen.TopP,
		TopK:              input.Gen.TopK,
		Temperature:       input.Gen.Temperature,
		RepetitionPenalty: input.Gen.RepetitionPenalty,
		English:           req.Language != model.LanguageZH,
	}

	out, err := g.ictx.Backend.Chat(ctx, call)
	if err != nil {
		res.Err = newInferenceError(err)
		return res
	}

	answer := strings.TrimSpace(out.Answer)
	if answer == "" {
		res.Err = &InferenceError{Kind: KindInternal, Err: ErrEmptyAnswer}
		return res
	}

	log.Debug().
		Str("model", g.ictx.Model).
		Int("history", len(req.History)).
		Int("answer_len", len(answer)).
		Msg("generation completed")

	res.Answer = answer
	return res
}
