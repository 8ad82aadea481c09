package id

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New 生成新的UUID（string格式）
func New() string {
	return uuid.New().String()
}

// ImageKey 生成上传图片的存储 key：uploads/<日期>/<session>/<uuid><ext>
func ImageKey(sessionID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("uploads", time.Now().Format("20060102"), sessionID, New()+ext)
}
