package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"xraychat/internal/ai"
	"xraychat/internal/model"
	"xraychat/internal/pkg/jwt"
	"xraychat/internal/pkg/storage/local"
	"xraychat/internal/server/middleware"
	"xraychat/internal/service"
	"xraychat/internal/session"
)

type echoGenerator struct {
	calls []*ai.GenerateRequest
}

func (g *echoGenerator) Generate(ctx context.Context, req *ai.GenerateRequest) ai.Result {
	g.calls = append(g.calls, req)
	return ai.Result{Answer: "answer to " + req.Text}
}

type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

type testClient struct {
	engine *gin.Engine
	cookie *http.Cookie
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	if tc.cookie != nil {
		req.AddCookie(tc.cookie)
	}
	w := httptest.NewRecorder()
	tc.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		tc.cookie = ck
	}
	return w
}

func (tc *testClient) json(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req)
}

func (tc *testClient) upload(name string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", name)
	_, _ = fw.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return tc.do(req)
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var env envelope
	So(json.Unmarshal(w.Body.Bytes(), &env), ShouldBeNil)
	var out T
	So(json.Unmarshal(env.Data, &out), ShouldBeNil)
	return out
}

func pngBytes() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4)))
	return buf.Bytes()
}

func setup(t *testing.T) (*testClient, *echoGenerator, string) {
	gen := &echoGenerator{}
	engine, examples := newEngine(t, gen, nil)
	return &testClient{engine: engine}, gen, examples
}

func newEngine(t *testing.T, gen service.Generator, slots Slots) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)

	svc := service.NewChatService(gen)
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), svc.Reset)

	st, err := local.NewLocalStorage(t.TempDir(), "/files")
	if err != nil {
		t.Fatal(err)
	}

	examples := t.TempDir()
	if err := os.WriteFile(filepath.Join(examples, "5_1.png"), pngBytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(examples, "notes.txt"), []byte("x"), 0o644)

	h := NewHandler(Options{
		ChatService:   svc,
		Sessions:      sessions,
		Storage:       st,
		Slots:         slots,
		ExamplesDir:   examples,
		MaxUploadSize: 1 << 20,
	})

	engine := gin.New()
	engine.Use(middleware.Session(jwt.NewJWT("test", time.Hour), "sid"))
	v1 := engine.Group("/api/v1")
	v1.GET("/chat", h.GetChat)
	v1.POST("/chat/submit", h.Submit)
	v1.POST("/chat/clear", h.Clear)
	v1.POST("/image", h.UploadImage)
	v1.DELETE("/image", h.DeleteImage)
	v1.GET("/examples", h.ListExamples)
	v1.POST("/examples/:name", h.SelectExample)

	return engine, examples
}

func TestHandler(t *testing.T) {
	Convey("对话界面接口", t, func() {
		tc, gen, _ := setup(t)

		Convey("新会话返回默认提示语与问候", func() {
			w := tc.json(http.MethodGet, "/api/v1/chat", nil)
			So(w.Code, ShouldEqual, http.StatusOK)

			state := decode[model.ChatStateResponse](w)
			So(state.Text, ShouldEqual, service.DefaultPrompt)
			So(state.Transcript, ShouldResemble, model.Greeting(service.DefaultPrompt))
			So(state.HasImage, ShouldBeFalse)
		})

		Convey("未上传图片时提问得到图片为空提示", func() {
			w := tc.json(http.MethodPost, "/api/v1/chat/submit", map[string]any{"text": "请描述这张胸片"})
			So(w.Code, ShouldEqual, http.StatusOK)

			resp := decode[model.SubmitChatResponse](w)
			So(resp.State, ShouldEqual, service.StateRejectedImageEmpty)
			So(resp.Text, ShouldEqual, "请描述这张胸片")
			So(resp.Transcript[len(resp.Transcript)-1].Assistant, ShouldEqual, "图片为空！请上传图片并重试。")
			So(gen.calls, ShouldBeEmpty)
		})

		Convey("上传图片后提问成功，会话保留对话记录", func() {
			w := tc.upload("xray.png", pngBytes())
			So(w.Code, ShouldEqual, http.StatusOK)
			state := decode[model.ChatStateResponse](w)
			So(state.HasImage, ShouldBeTrue)
			So(state.Transcript, ShouldResemble, model.Greeting(service.DefaultPrompt))

			w = tc.json(http.MethodPost, "/api/v1/chat/submit", map[string]any{"text": "What is abnormal?", "temperature": 0.5})
			resp := decode[model.SubmitChatResponse](w)
			So(resp.State, ShouldEqual, service.StateSucceeded)
			So(resp.Text, ShouldEqual, "")
			So(len(gen.calls), ShouldEqual, 1)
			So(gen.calls[0].Image.Data, ShouldResemble, pngBytes())
			So(*gen.calls[0].Overrides.Temperature, ShouldEqual, 0.5)
			So(gen.calls[0].Language, ShouldEqual, model.LanguageEN)

			w = tc.json(http.MethodGet, "/api/v1/chat", nil)
			state = decode[model.ChatStateResponse](w)
			So(len(state.Transcript), ShouldEqual, 2)
			So(state.Transcript[1], ShouldResemble, model.Turn{User: "What is abnormal?", Assistant: "answer to What is abnormal?"})

			Convey("移除图片后重置对话", func() {
				w := tc.json(http.MethodDelete, "/api/v1/image", nil)
				state := decode[model.ChatStateResponse](w)
				So(state.HasImage, ShouldBeFalse)
				So(state.Text, ShouldEqual, service.DefaultPrompt)
				So(state.Transcript, ShouldResemble, model.Greeting(service.DefaultPrompt))
			})

			Convey("清除后回到初始状态，重复清除结果一致", func() {
				first := decode[model.ChatStateResponse](tc.json(http.MethodPost, "/api/v1/chat/clear", nil))
				second := decode[model.ChatStateResponse](tc.json(http.MethodPost, "/api/v1/chat/clear", nil))
				So(first, ShouldResemble, second)
				So(first.HasImage, ShouldBeFalse)
				So(first.Transcript, ShouldResemble, model.Greeting(service.DefaultPrompt))
			})
		})

		Convey("非图片文件被拒绝", func() {
			w := tc.upload("notes.txt", []byte("plain text, not an image"))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "40002")
		})

		Convey("无法解码的图片格式在上传时被拒绝", func() {
			bmp := append([]byte("BM"), make([]byte, 64)...)
			webp := append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 32)...)

			for name, data := range map[string][]byte{"xray.bmp": bmp, "xray.webp": webp} {
				w := tc.upload(name, data)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "40002")
			}

			state := decode[model.ChatStateResponse](tc.json(http.MethodGet, "/api/v1/chat", nil))
			So(state.HasImage, ShouldBeFalse)
			So(gen.calls, ShouldBeEmpty)
		})

		Convey("请求体格式错误返回 400", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/submit", bytes.NewBufferString("{"))
			req.Header.Set("Content-Type", "application/json")
			w := tc.do(req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("采样参数越界返回 400", func() {
			w := tc.json(http.MethodPost, "/api/v1/chat/submit", map[string]any{"text": "x", "top_p": 3})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("示例胸片", func() {
			examples := decode[[]model.ExampleImage](tc.json(http.MethodGet, "/api/v1/examples", nil))
			So(len(examples), ShouldEqual, 1)
			So(examples[0].Name, ShouldEqual, "5_1.png")

			state := decode[model.ChatStateResponse](tc.json(http.MethodPost, "/api/v1/examples/5_1.png", nil))
			So(state.HasImage, ShouldBeTrue)
			So(state.Image.Example, ShouldBeTrue)
			So(state.Text, ShouldEqual, service.DefaultPrompt)

			resp := decode[model.SubmitChatResponse](tc.json(http.MethodPost, "/api/v1/chat/submit", map[string]any{"text": "有没有结节"}))
			So(resp.State, ShouldEqual, service.StateSucceeded)
			So(gen.calls[0].Language, ShouldEqual, model.LanguageZH)

			w := tc.json(http.MethodPost, "/api/v1/examples/missing.png", nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
