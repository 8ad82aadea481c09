package ai

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"xraychat/internal/model"
)

// EncodedImage base64 编码后的图片
type EncodedImage struct {
	MIMEType string
	Base64   string
	Width    int
	Height   int
}

// DataURL 以 data URI 形式返回图片
func (i *EncodedImage) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64
}

// Input 模型请求结构
type Input struct {
	Prompt  string
	History model.Transcript
	Image   *EncodedImage
	Gen     model.SamplingParameters
}

// SupportedImageFormats 可解码的图片格式，上传校验与推理使用同一组解码器
var SupportedImageFormats = []string{"png", "jpeg", "gif"}

// DecodeImageConfig 读取图片格式与尺寸，格式不受支持时返回 ErrInvalidImage
func DecodeImageConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v (supported: %s)", ErrInvalidImage, err, strings.Join(SupportedImageFormats, "/"))
	}
	return cfg, format, nil
}

// BuildInput 由对话请求构造模型请求结构
// imageEncoded 为 true 时 img.Data 已是 base64 文本
func BuildInput(text string, img *model.Image, history model.Transcript, params model.SamplingParameters, imageEncoded bool) (*Input, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: no image data", ErrInvalidImage)
	}

	raw := img.Data
	if imageEncoded {
		decoded, err := base64.StdEncoding.DecodeString(string(img.Data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		raw = decoded
	}

	cfg, format, err := DecodeImageConfig(raw)
	if err != nil {
		return nil, err
	}

	mimeType := img.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(raw)
	}
	if mimeType == "application/octet-stream" {
		mimeType = "image/" + format
	}

	return &Input{
		Prompt:  text,
		History: history,
		Image: &EncodedImage{
			MIMEType: mimeType,
			Base64:   base64.StdEncoding.EncodeToString(raw),
			Width:    cfg.Width,
			Height:   cfg.Height,
		},
		Gen: params,
	}, nil
}
