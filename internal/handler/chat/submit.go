package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"xraychat/internal/model"
	httputil "xraychat/internal/pkg/http"
	"xraychat/internal/service"
)

// Submit 发送问题
// 校验失败与推理失败都以对话轮次的形式返回，不作为 HTTP 错误
// @Summary      发送问题
// @Description  基于当前胸片提问，返回清空后的输入框内容、更新后的对话历史与本次请求终态
// @Tags         对话
// @Accept       json
// @Produce      json
// @Param        request  body      model.SubmitChatRequest  true  "问题与可选采样参数"
// @Success      200      {object}  httputil.SuccessResponse{data=model.SubmitChatResponse}
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      500      {object}  ErrorResponse  "会话或图片读取失败"
// @Failure      503      {object}  ErrorResponse  "排队时请求被取消"
// @Router       /api/v1/chat/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    httputil.CodeInvalidRequest,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	sid := sessionID(c)

	var result *service.SubmitResult
	_, err := h.sessions.Update(ctx, sid, func(s *model.Session) error {
		img, err := h.loadImage(ctx, s.Image)
		if err != nil {
			return err
		}
		if img == nil {
			s.Image = nil
		}

		release, err := h.acquire(ctx)
		if err != nil {
			return err
		}
		defer release()

		result = h.chatService.Submit(ctx, &service.SubmitRequest{
			SessionID:  sid,
			Text:       req.Text,
			Image:      img,
			Overrides:  req.Overrides(),
			Transcript: s.Transcript,
		})

		s.Text = result.Text
		s.Transcript = result.Transcript
		return nil
	})
	if errors.Is(err, errSlotCancelled) {
		log.Warn().Err(err).Str("session_id", sid).Msg("submit cancelled while queued")
		httputil.Abort(c, http.StatusServiceUnavailable, httputil.CodeTooManyInFlights,
			"Request cancelled while waiting for a free slot", err)
		return
	}
	if err != nil {
		httputil.Abort(c, http.StatusInternalServerError, httputil.CodeSessionFailed, "Failed to process question", err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("ok", &model.SubmitChatResponse{
		Text:       result.Text,
		Transcript: result.Transcript,
		State:      result.State,
	}))
}
