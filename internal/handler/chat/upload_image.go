package chat

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"xraychat/internal/ai"
	"xraychat/internal/model"
	httputil "xraychat/internal/pkg/http"
	"xraychat/internal/pkg/id"
)

// UploadImage 上传胸片
// @Summary      上传胸片
// @Description  通过 multipart/form-data 上传胸片，替换会话中的图片并重置输入框与对话历史
// @Tags         图片
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "胸片图片（png/jpeg/gif）"
// @Success      200   {object}  httputil.SuccessResponse{data=model.ChatStateResponse}
// @Failure      400   {object}  ErrorResponse  "文件缺失或不是图片"
// @Failure      413   {object}  ErrorResponse  "文件过大"
// @Failure      500   {object}  ErrorResponse  "存储失败"
// @Router       /api/v1/image [post]
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		httputil.Abort(c, http.StatusBadRequest, httputil.CodeInvalidRequest, "Invalid file", err)
		return
	}

	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		httputil.Abort(c, http.StatusRequestEntityTooLarge, httputil.CodeImageTooLarge,
			fmt.Sprintf("Image exceeds %d bytes", h.maxUploadSize), nil)
		return
	}

	f, err := file.Open()
	if err != nil {
		httputil.Abort(c, http.StatusBadRequest, httputil.CodeInvalidRequest, "Failed to open file", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		httputil.Abort(c, http.StatusBadRequest, httputil.CodeInvalidRequest, "Failed to read file", err)
		return
	}

	// 以文件内容判断格式，只接受推理时能解码的格式
	if _, _, err := ai.DecodeImageConfig(data); err != nil {
		httputil.Abort(c, http.StatusBadRequest, httputil.CodeInvalidImage,
			"Unsupported image, please upload a png/jpeg/gif file", err)
		return
	}
	contentType := http.DetectContentType(data)

	ctx := c.Request.Context()
	sid := sessionID(c)
	key := id.ImageKey(sid, file.Filename)

	url, err := h.storage.Upload(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		httputil.Abort(c, http.StatusInternalServerError, httputil.CodeStorageFailed, "Failed to store image", err)
		return
	}

	img := &model.Image{
		Key:         key,
		Name:        filepath.Base(file.Filename),
		ContentType: contentType,
		URL:         url,
	}

	var old *model.Image
	s, err := h.sessions.Update(ctx, sid, func(s *model.Session) error {
		old, s.Image = s.Image, img
		s.Text, s.Transcript = h.chatService.Reset()
		return nil
	})
	if err != nil {
		h.discard(ctx, img)
		httputil.Abort(c, http.StatusInternalServerError, httputil.CodeSessionFailed, "Failed to update session", err)
		return
	}

	h.discard(ctx, old)
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("图片上传成功", stateResponse(s)))
}
