package model

// SamplingParameters 解码采样参数
type SamplingParameters struct {
	MaxLength         int     `json:"max_length" bson:"max_length"`
	MinLength         int     `json:"min_length" bson:"min_length"`
	Temperature       float64 `json:"temperature" bson:"temperature"`
	TopP              float64 `json:"top_p" bson:"top_p"`
	TopK              int     `json:"top_k" bson:"top_k"`
	RepetitionPenalty float64 `json:"repetition_penalty" bson:"repetition_penalty"`
}

// DefaultSampling 默认采样参数
func DefaultSampling() SamplingParameters {
	return SamplingParameters{
		MaxLength:         2048,
		MinLength:         50,
		Temperature:       0.8,
		TopP:              0.4,
		TopK:              100,
		RepetitionPenalty: 1.2,
	}
}

// SamplingOverrides 单次请求的采样参数覆盖，nil 字段保留默认值
type SamplingOverrides struct {
	MaxLength         *int     `json:"max_length,omitempty"`
	MinLength         *int     `json:"min_length,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	TopK              *int     `json:"top_k,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
}

// Merge 将覆盖项合并到 base 上
func (p SamplingParameters) Merge(o *SamplingOverrides) SamplingParameters {
	if o == nil {
		return p
	}
	if o.MaxLength != nil {
		p.MaxLength = *o.MaxLength
	}
	if o.MinLength != nil {
		p.MinLength = *o.MinLength
	}
	if o.Temperature != nil {
		p.Temperature = *o.Temperature
	}
	if o.TopP != nil {
		p.TopP = *o.TopP
	}
	if o.TopK != nil {
		p.TopK = *o.TopK
	}
	if o.RepetitionPenalty != nil {
		p.RepetitionPenalty = *o.RepetitionPenalty
	}
	return p
}
