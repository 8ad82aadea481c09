package chat

import (
	"github.com/gin-gonic/gin"

	"xraychat/internal/model"
	"xraychat/internal/pkg/ctxutil"
	httputil "xraychat/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// sessionID 会话中间件注入到请求 context 的会话 ID
func sessionID(c *gin.Context) string {
	sid, _ := ctxutil.GetSessionID(c.Request.Context())
	return sid
}

// stateResponse 会话状态转换为响应 DTO
func stateResponse(s *model.Session) *model.ChatStateResponse {
	return &model.ChatStateResponse{
		Text:       s.Text,
		Transcript: s.Transcript,
		HasImage:   s.Image != nil,
		Image:      s.Image,
	}
}
