package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xraychat/internal/model"
	httputil "xraychat/internal/pkg/http"
)

// DeleteImage 移除胸片
// @Summary      移除胸片
// @Description  移除会话中的图片并重置输入框与对话历史
// @Tags         图片
// @Produce      json
// @Success      200  {object}  httputil.SuccessResponse{data=model.ChatStateResponse}
// @Failure      500  {object}  ErrorResponse  "会话写入失败"
// @Router       /api/v1/image [delete]
func (h *Handler) DeleteImage(c *gin.Context) {
	ctx := c.Request.Context()

	var old *model.Image
	s, err := h.sessions.Update(ctx, sessionID(c), func(s *model.Session) error {
		old, s.Image = s.Image, nil
		s.Text, s.Transcript = h.chatService.Reset()
		return nil
	})
	if err != nil {
		httputil.Abort(c, http.StatusInternalServerError, httputil.CodeSessionFailed, "Failed to update session", err)
		return
	}

	h.discard(ctx, old)
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("ok", stateResponse(s)))
}
