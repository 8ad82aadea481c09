package handler

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// PageHandler 对话页面
type PageHandler struct {
	page []byte
}

// NewPageHandler 渲染一次页面，defaultPrompt 为输入框初始内容
func NewPageHandler(defaultPrompt string) (*PageHandler, error) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, map[string]string{"DefaultPrompt": defaultPrompt}); err != nil {
		return nil, err
	}
	return &PageHandler{page: buf.Bytes()}, nil
}

// Index 返回对话页面
func (h *PageHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}
