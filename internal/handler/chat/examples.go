package chat

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"xraychat/internal/model"
	httputil "xraychat/internal/pkg/http"
)

var exampleExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// ListExamples 列出示例胸片
// @Summary      示例胸片列表
// @Tags         图片
// @Produce      json
// @Success      200  {object}  httputil.SuccessResponse{data=[]model.ExampleImage}
// @Router       /api/v1/examples [get]
func (h *Handler) ListExamples(c *gin.Context) {
	examples, err := h.listExamples()
	if err != nil {
		httputil.Abort(c, http.StatusInternalServerError, httputil.CodeStorageFailed, "Failed to list examples", err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("ok", examples))
}

// SelectExample 选择示例胸片
// @Summary      选择示例胸片
// @Description  将示例胸片设为会话图片，效果等同清除后上传
// @Tags         图片
// @Produce      json
// @Param        name  path      string  true  "示例文件名"
// @Success      200   {object}  httputil.SuccessResponse{data=model.ChatStateResponse}
// @Failure      404   {object}  ErrorResponse  "示例不存在"
// @Router       /api/v1/examples/{name} [post]
func (h *Handler) SelectExample(c *gin.Context) {
	name := c.Param("name")
	if name != filepath.Base(name) || !exampleExts[strings.ToLower(filepath.Ext(name))] {
		httputil.Abort(c, http.StatusNotFound, httputil.CodeExampleNotFound, "Example not found", nil)
		return
	}
	if _, err := os.Stat(filepath.Join(h.examplesDir, name)); err != nil {
		httputil.Abort(c, http.StatusNotFound, httputil.CodeExampleNotFound, "Example not found", err)
		return
	}

	ctx := c.Request.Context()
	img := &model.Image{
		Key:         path.Join("examples", name),
		Name:        name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		URL:         "/examples/" + name,
		Example:     true,
	}

	var old *model.Image
	s, err := h.sessions.Update(ctx, sessionID(c), func(s *model.Session) error {
		res := h.chatService.Clear()
		old, s.Image = s.Image, img
		s.Text = res.Text
		s.Transcript = res.Transcript
		return nil
	})
	if err != nil {
		httputil.Abort(c, http.StatusInternalServerError, httputil.CodeSessionFailed, "Failed to update session", err)
		return
	}

	h.discard(ctx, old)
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("ok", stateResponse(s)))
}

func (h *Handler) listExamples() ([]model.ExampleImage, error) {
	entries, err := os.ReadDir(h.examplesDir)
	if errors.Is(err, os.ErrNotExist) {
		return []model.ExampleImage{}, nil
	}
	if err != nil {
		return nil, err
	}

	examples := make([]model.ExampleImage, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !exampleExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		examples = append(examples, model.ExampleImage{Name: e.Name(), Size: info.Size()})
	}

	sort.Slice(examples, func(i, j int) bool { return examples[i].Name < examples[j].Name })
	return examples, nil
}
