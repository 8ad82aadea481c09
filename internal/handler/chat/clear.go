package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xraychat/internal/model"
	httputil "xraychat/internal/pkg/http"
)

// Clear 清除对话
// @Summary      清除对话
// @Description  输入框恢复默认提示语，对话历史重置为问候语，并移除图片
// @Tags         对话
// @Produce      json
// @Success      200  {object}  httputil.SuccessResponse{data=model.ChatStateResponse}
// @Failure      500  {object}  ErrorResponse  "会话写入失败"
// @Router       /api/v1/chat/clear [post]
func (h *Handler) Clear(c *gin.Context) {
	ctx := c.Request.Context()

	var old *model.Image
	s, err := h.sessions.Update(ctx, sessionID(c), func(s *model.Session) error {
		res := h.chatService.Clear()
		s.Text = res.Text
		s.Transcript = res.Transcript
		if res.ImageCleared {
			old, s.Image = s.Image, nil
		}
		return nil
	})
	if err != nil {
		httputil.Abort(c, http.StatusInternalServerError, httputil.CodeSessionFailed, "Failed to clear session", err)
		return
	}

	h.discard(ctx, old)
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("ok", stateResponse(s)))
}
