package model

// ChatStateResponse 当前会话界面状态（查询、清除、切换图片共用）
type ChatStateResponse struct {
	Text       string     `json:"text"`
	Transcript Transcript `json:"transcript"`
	HasImage   bool       `json:"has_image"`
	Image      *Image     `json:"image,omitempty"`
}

// SubmitChatResponse 发送问题响应
type SubmitChatResponse struct {
	Text       string     `json:"text"`
	Transcript Transcript `json:"transcript"`
	State      string     `json:"state"`
}

// ExampleImage 示例胸片
type ExampleImage struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
