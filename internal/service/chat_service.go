package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"xraychat/internal/ai"
	"xraychat/internal/model"
	"xraychat/internal/pkg/lang"
)

// DefaultPrompt 默认输入框内容与问候语
const DefaultPrompt = "请描述这张胸片"

// 单次请求的终态
const (
	StateRejectedImageEmpty = "rejected:image_empty"
	StateRejectedTextEmpty  = "rejected:text_empty"
	StateSucceeded          = "succeeded"
	statePrefixFailed       = "failed:"
)

// Generator 推理网关能力
type Generator interface {
	Generate(ctx context.Context, req *ai.GenerateRequest) ai.Result
}

// RecordSaver 推理审计记录存储
type RecordSaver interface {
	Save(ctx context.Context, record *model.InferenceRecord) error
}

// SubmitRequest 发送问题请求
type SubmitRequest struct {
	SessionID  string
	Text       string
	Image      *model.Image
	Overrides  *model.SamplingOverrides
	Transcript model.Transcript
}

// SubmitResult 发送问题结果：输入框内容、更新后的对话记录与终态
type SubmitResult struct {
	Text       string
	Transcript model.Transcript
	State      string
}

// ClearResult 清除结果
type ClearResult struct {
	Text         string
	Transcript   model.Transcript
	ImageCleared bool
}

// ChatService 对话服务 - 业务逻辑层
// 职责: 校验输入，驱动一次推理往返，维护对话记录
type ChatService struct {
	gen           Generator
	records       RecordSaver
	defaultPrompt string
	errorMode     ErrorMode
}

// ChatOption ChatService 可选项
type ChatOption func(*ChatService)

// WithRecordSaver 设置推理审计记录存储
func WithRecordSaver(r RecordSaver) ChatOption {
	return func(s *ChatService) {
		s.records = r
	}
}

// WithDefaultPrompt 设置默认提示语
func WithDefaultPrompt(prompt string) ChatOption {
	return func(s *ChatService) {
		if prompt != "" {
			s.defaultPrompt = prompt
		}
	}
}

// WithErrorMode 设置推理失败提示方式
func WithErrorMode(mode ErrorMode) ChatOption {
	return func(s *ChatService) {
		if mode != "" {
			s.errorMode = mode
		}
	}
}

// NewChatService 创建对话服务
func NewChatService(gen Generator, opts ...ChatOption) *ChatService {
	s := &ChatService{
		gen:           gen,
		defaultPrompt: DefaultPrompt,
		errorMode:     ErrorModeCollapse,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPrompt 默认提示语
func (s *ChatService) DefaultPrompt() string {
	return s.defaultPrompt
}

// Submit 处理一次提问
// 业务流程: 1. 校验图片 -> 2. 校验文本 -> 3. 调用推理网关 -> 4. 追加一轮对话
func (s *ChatService) Submit(ctx context.Context, req *SubmitRequest) *SubmitResult {
	logger := log.With().Str("session_id", req.SessionID).Logger()
	transcript := req.Transcript.Clone()
	language := lang.Detect(req.Text)

	if req.Image == nil {
		return &SubmitResult{
			Text:       req.Text,
			Transcript: transcript.Append(req.Text, msgImageEmpty[language]),
			State:      StateRejectedImageEmpty,
		}
	}

	if req.Text == "" {
		return &SubmitResult{
			Text:       "",
			Transcript: transcript.Append("", msgTextEmpty),
			State:      StateRejectedTextEmpty,
		}
	}

	history := transcript.Completed()
	logger.Debug().Int("history", len(history)).Str("language", string(language)).Msg("submitting question")

	res := s.gen.Generate(ctx, &ai.GenerateRequest{
		Text:      req.Text,
		Image:     req.Image,
		History:   history,
		Overrides: req.Overrides,
		Language:  language,
	})

	s.record(ctx, req, language, len(history), res)

	if !res.OK() {
		logger.Error().
			Err(res.Err.Err).
			Str("kind", string(res.Err.Kind)).
			Dur("latency", res.Latency).
			Msg("generation failed")

		return &SubmitResult{
			Text:       "",
			Transcript: transcript.Append(req.Text, failureMessage(s.errorMode, res.Err.Kind, language)),
			State:      statePrefixFailed + string(res.Err.Kind),
		}
	}

	logger.Info().
		Int("answer_len", len(res.Answer)).
		Dur("latency", res.Latency).
		Msg("chat completed")

	return &SubmitResult{
		Text:       "",
		Transcript: transcript.Append(req.Text, res.Answer),
		State:      StateSucceeded,
	}
}

// Clear 重置输入框、对话记录与图片
func (s *ChatService) Clear() *ClearResult {
	text, transcript := s.Reset()
	return &ClearResult{
		Text:         text,
		Transcript:   transcript,
		ImageCleared: true,
	}
}

// Reset 重置输入框与对话记录，图片状态由界面层处理（上传、移除图片时使用）
func (s *ChatService) Reset() (string, model.Transcript) {
	return s.defaultPrompt, model.Greeting(s.defaultPrompt)
}

// record 保存推理审计记录，失败只记录日志
func (s *ChatService) record(ctx context.Context, req *SubmitRequest, language model.Language, history int, res ai.Result) {
	if s.records == nil {
		return
	}

	rec := &model.InferenceRecord{
		SessionID: req.SessionID,
		Language:  language,
		Question:  req.Text,
		ImageKey:  req.Image.Key,
		History:   history,
		Sampling:  res.Sampling,
		State:     StateSucceeded,
		AnswerLen: len(res.Answer),
		Latency:   res.Latency,
		CreatedAt: time.Now(),
	}
	if !res.OK() {
		rec.State = statePrefixFailed + string(res.Err.Kind)
		rec.ErrorKind = string(res.Err.Kind)
		rec.Error = res.Err.Error()
	}

	if err := s.records.Save(ctx, rec); err != nil {
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("failed to save inference record")
	}
}
