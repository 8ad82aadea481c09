package model

import "time"

// Session 单个浏览器会话的界面状态
type Session struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Transcript Transcript `json:"transcript"`
	Image      *Image     `json:"image,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
