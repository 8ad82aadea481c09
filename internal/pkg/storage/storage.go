package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound 文件不存在
var ErrNotFound = errors.New("file not found")

// Storage 上传图片存储接口
type Storage interface {
	// Upload 保存文件，返回访问 URL
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Download 读取文件
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete 删除文件，文件不存在视为成功
	Delete(ctx context.Context, key string) error

	// Type 存储类型
	Type() string
}

// Type 存储类型
type Type string

const (
	TypeLocal Type = "local" // 本地文件系统
	TypeOSS   Type = "oss"   // 阿里云OSS
)
