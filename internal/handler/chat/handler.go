package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"xraychat/internal/model"
	"xraychat/internal/pkg/storage"
	"xraychat/internal/service"
	"xraychat/internal/session"
)

// Slots 生成槽位，限制同时进行的推理调用
type Slots interface {
	Acquire(ctx context.Context, n int64) error
	Release(n int64)
}

var errSlotCancelled = errors.New("request cancelled while waiting for a generation slot")

// Handler 对话界面处理器
type Handler struct {
	chatService   *service.ChatService
	sessions      *session.Manager
	storage       storage.Storage
	slots         Slots
	examplesDir   string
	maxUploadSize int64
}

// Options Handler 依赖
type Options struct {
	ChatService *service.ChatService
	Sessions    *session.Manager
	Storage     storage.Storage
	// Slots 为空时不限制并发；槽位在会话锁内获取，同一会话排队的请求不占用槽位
	Slots         Slots
	ExamplesDir   string
	MaxUploadSize int64
}

// NewHandler 创建对话界面处理器
func NewHandler(opts Options) *Handler {
	return &Handler{
		chatService:   opts.ChatService,
		sessions:      opts.Sessions,
		storage:       opts.Storage,
		slots:         opts.Slots,
		examplesDir:   opts.ExamplesDir,
		maxUploadSize: opts.MaxUploadSize,
	}
}

// acquire 获取生成槽位，等待按到达顺序进行
func (h *Handler) acquire(ctx context.Context) (func(), error) {
	if h.slots == nil {
		return func() {}, nil
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", errSlotCancelled, err)
	}
	return func() { h.slots.Release(1) }, nil
}

// loadImage 读取会话图片内容，图片已被清理时返回 nil
func (h *Handler) loadImage(ctx context.Context, ref *model.Image) (*model.Image, error) {
	if ref == nil {
		return nil, nil
	}

	var (
		data []byte
		err  error
	)
	if ref.Example {
		data, err = os.ReadFile(filepath.Join(h.examplesDir, filepath.Base(ref.Name)))
		if errors.Is(err, os.ErrNotExist) {
			err = storage.ErrNotFound
		}
	} else {
		data, err = h.download(ctx, ref.Key)
	}

	if errors.Is(err, storage.ErrNotFound) {
		log.Warn().Str("key", ref.Key).Msg("session image no longer available")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", ref.Key, err)
	}

	img := *ref
	img.Data = data
	return &img, nil
}

func (h *Handler) download(ctx context.Context, key string) ([]byte, error) {
	rc, err := h.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// discard 删除会话不再引用的上传图片，失败只记录日志
func (h *Handler) discard(ctx context.Context, old *model.Image) {
	if old == nil || old.Example {
		return
	}
	if err := h.storage.Delete(ctx, old.Key); err != nil {
		log.Warn().Err(err).Str("key", old.Key).Msg("failed to delete previous image")
	}
}
