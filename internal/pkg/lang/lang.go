package lang

import (
	"unicode"

	"xraychat/internal/model"
)

// IsChinese 文本中至少包含一个 CJK 汉字即视为中文
func IsChinese(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// Detect 识别消息语言
func Detect(text string) model.Language {
	if IsChinese(text) {
		return model.LanguageZH
	}
	return model.LanguageEN
}
