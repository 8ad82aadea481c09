package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "xraychat/internal/pkg/http"
)

// GetChat 获取当前会话状态
// @Summary      获取对话状态
// @Description  返回当前浏览器会话的输入框内容、对话历史与图片状态
// @Tags         对话
// @Produce      json
// @Success      200  {object}  httputil.SuccessResponse{data=model.ChatStateResponse}
// @Failure      500  {object}  ErrorResponse  "会话读取失败"
// @Router       /api/v1/chat [get]
func (h *Handler) GetChat(c *gin.Context) {
	s, err := h.sessions.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		httputil.Abort(c, http.StatusInternalServerError, httputil.CodeSessionFailed, "Failed to load session", err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("ok", stateResponse(s)))
}
