package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind 推理失败类别
type ErrorKind string

const (
	KindTimeout      ErrorKind = "timeout"
	KindUnavailable  ErrorKind = "unavailable"
	KindInvalidInput ErrorKind = "invalid_input"
	KindInternal     ErrorKind = "internal"
)

var (
	// ErrUnavailable 推理后端不可用（未加载、连接失败等）
	ErrUnavailable = errors.New("inference backend unavailable")
	// ErrInvalidImage 图片为空或无法解码
	ErrInvalidImage = errors.New("invalid image")
	// ErrEmptyAnswer 后端返回空回答
	ErrEmptyAnswer = errors.New("empty answer from model")
)

// InferenceError 推理边界统一错误
type InferenceError struct {
	Kind ErrorKind
	Err  error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference %s: %v", e.Kind, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Classify 将后端错误归类
func Classify(err error) ErrorKind {
	var ie *InferenceError
	if errors.As(err, &ie) {
		return ie.Kind
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrInvalidImage):
		return KindInvalidInput
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindUnavailable
	}

	return KindInternal
}

// newInferenceError 包装并归类错误
func newInferenceError(err error) *InferenceError {
	return &InferenceError{Kind: Classify(err), Err: err}
}
