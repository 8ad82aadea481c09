package model

// Image 已上传的胸片引用
type Image struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	URL         string `json:"url,omitempty"`
	Example     bool   `json:"example,omitempty"` // 示例胸片，从示例目录读取
	Data        []byte `json:"-"`
}

// Language 消息语言
type Language string

const (
	LanguageZH Language = "zh"
	LanguageEN Language = "en"
)
