package service

import (
	"xraychat/internal/ai"
	"xraychat/internal/model"
)

// ErrorMode 推理失败时的提示方式
type ErrorMode string

const (
	// ErrorModeCollapse 所有推理失败都提示超时
	ErrorModeCollapse ErrorMode = "collapse"
	// ErrorModeDetailed 按失败类别分别提示
	ErrorModeDetailed ErrorMode = "detailed"
)

const (
	msgTextEmpty = "Text empty! Please enter text and retry."
)

var msgImageEmpty = map[model.Language]string{
	model.LanguageZH: "图片为空！请上传图片并重试。",
	model.LanguageEN: "Image empty! Please upload a image and retry.",
}

var msgFailure = map[ai.ErrorKind]map[model.Language]string{
	ai.KindTimeout: {
		model.LanguageZH: "超时！请稍等几分钟再重试。",
		model.LanguageEN: "Timeout! Please wait a few minutes and retry.",
	},
	ai.KindUnavailable: {
		model.LanguageZH: "模型服务暂不可用，请稍后重试。",
		model.LanguageEN: "Model service unavailable, please retry later.",
	},
	ai.KindInvalidInput: {
		model.LanguageZH: "图片无法识别，请更换图片后重试。",
		model.LanguageEN: "Image could not be processed, please upload another image.",
	},
	ai.KindInternal: {
		model.LanguageZH: "生成失败，请稍后重试。",
		model.LanguageEN: "Generation failed, please retry later.",
	},
}

// failureMessage 根据错误模式选择提示语
func failureMessage(mode ErrorMode, kind ai.ErrorKind, lang model.Language) string {
	if mode != ErrorModeDetailed {
		kind = ai.KindTimeout
	}
	msgs, ok := msgFailure[kind]
	if !ok {
		msgs = msgFailure[ai.KindTimeout]
	}
	return msgs[lang]
}
