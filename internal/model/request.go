package model

// SubmitChatRequest 发送问题请求
type SubmitChatRequest struct {
	Text        string   `json:"text"`
	Temperature *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=1"`
	TopP        *float64 `json:"top_p,omitempty" binding:"omitempty,gte=0,lte=1"`
}

// Overrides 转换为采样参数覆盖
func (r *SubmitChatRequest) Overrides() *SamplingOverrides {
	if r.Temperature == nil && r.TopP == nil {
		return nil
	}
	return &SamplingOverrides{
		Temperature: r.Temperature,
		TopP:        r.TopP,
	}
}
