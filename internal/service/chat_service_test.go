package service

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"xraychat/internal/ai"
	"xraychat/internal/model"
)

type stubGenerator struct {
	reqs   []*ai.GenerateRequest
	answer string
	kind   ai.ErrorKind
}

func (g *stubGenerator) Generate(ctx context.Context, req *ai.GenerateRequest) ai.Result {
	g.reqs = append(g.reqs, req)
	if g.kind != "" {
		return ai.Result{Err: &ai.InferenceError{Kind: g.kind, Err: errors.New("model call failed")}}
	}
	return ai.Result{Answer: g.answer}
}

type memRecords struct {
	saved []*model.InferenceRecord
}

func (m *memRecords) Save(ctx context.Context, rec *model.InferenceRecord) error {
	m.saved = append(m.saved, rec)
	return nil
}

var xray = &model.Image{Key: "uploads/1.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}

func TestChatService_Submit(t *testing.T) {
	Convey("Submit 校验输入并驱动推理", t, func() {
		ctx := context.Background()

		Convey("图片为空时不调用网关且保留输入", func() {
			gen := &stubGenerator{answer: "unused"}
			svc := NewChatService(gen)

			res := svc.Submit(ctx, &SubmitRequest{Text: "describe", Transcript: model.Transcript{}})

			So(gen.reqs, ShouldBeEmpty)
			So(res.Text, ShouldEqual, "describe")
			So(res.State, ShouldEqual, StateRejectedImageEmpty)
			So(res.Transcript, ShouldResemble, model.Transcript{
				{User: "describe", Assistant: "Image empty! Please upload a image and retry."},
			})
		})

		Convey("中文问题的图片为空提示为中文", func() {
			svc := NewChatService(&stubGenerator{})
			prior := model.Greeting(DefaultPrompt)

			res := svc.Submit(ctx, &SubmitRequest{Text: "请描述这张胸片", Transcript: prior})

			So(res.Text, ShouldEqual, "请描述这张胸片")
			So(len(res.Transcript), ShouldEqual, len(prior)+1)
			So(res.Transcript[1].Assistant, ShouldEqual, "图片为空！请上传图片并重试。")
		})

		Convey("文本为空时不调用网关且清空输入", func() {
			gen := &stubGenerator{answer: "unused"}
			svc := NewChatService(gen)

			res := svc.Submit(ctx, &SubmitRequest{Text: "", Image: xray})

			So(gen.reqs, ShouldBeEmpty)
			So(res.Text, ShouldEqual, "")
			So(res.State, ShouldEqual, StateRejectedTextEmpty)
			So(res.Transcript, ShouldResemble, model.Transcript{
				{User: "", Assistant: "Text empty! Please enter text and retry."},
			})
		})

		Convey("成功时追加回答并清空输入", func() {
			gen := &stubGenerator{answer: "无异常"}
			svc := NewChatService(gen)
			prior := model.Transcript{{User: "", Assistant: "请描述这张胸片"}}

			res := svc.Submit(ctx, &SubmitRequest{Text: "请描述这张胸片", Image: xray, Transcript: prior})

			So(res.Text, ShouldEqual, "")
			So(res.State, ShouldEqual, StateSucceeded)
			So(res.Transcript, ShouldResemble, model.Transcript{
				{User: "", Assistant: "请描述这张胸片"},
				{User: "请描述这张胸片", Assistant: "无异常"},
			})
			So(prior, ShouldResemble, model.Transcript{{User: "", Assistant: "请描述这张胸片"}})

			So(len(gen.reqs), ShouldEqual, 1)
			So(gen.reqs[0].Language, ShouldEqual, model.LanguageZH)
			So(gen.reqs[0].History, ShouldBeEmpty)
		})

		Convey("不完整的轮次不会传给网关", func() {
			gen := &stubGenerator{answer: "ok"}
			svc := NewChatService(gen)
			prior := model.Transcript{
				{User: "first", Assistant: "answer"},
				{User: "dangling", Assistant: ""},
			}

			res := svc.Submit(ctx, &SubmitRequest{Text: "hello", Image: xray, Transcript: prior})

			So(gen.reqs[0].History, ShouldResemble, model.Transcript{{User: "first", Assistant: "answer"}})
			So(gen.reqs[0].Language, ShouldEqual, model.LanguageEN)
			So(len(res.Transcript), ShouldEqual, 3)
		})

		Convey("网关失败时默认提示超时", func() {
			gen := &stubGenerator{kind: ai.KindInternal}
			svc := NewChatService(gen)

			res := svc.Submit(ctx, &SubmitRequest{Text: "x", Image: xray, Transcript: model.Transcript{}})

			So(res.Text, ShouldEqual, "")
			So(res.State, ShouldEqual, "failed:internal")
			So(res.Transcript, ShouldResemble, model.Transcript{
				{User: "x", Assistant: "Timeout! Please wait a few minutes and retry."},
			})
		})

		Convey("中文问题失败提示为中文", func() {
			svc := NewChatService(&stubGenerator{kind: ai.KindUnavailable})
			res := svc.Submit(ctx, &SubmitRequest{Text: "有没有结节", Image: xray})
			So(res.Transcript[0].Assistant, ShouldEqual, "超时！请稍等几分钟再重试。")
		})

		Convey("detailed 模式按类别提示", func() {
			svc := NewChatService(&stubGenerator{kind: ai.KindInvalidInput}, WithErrorMode(ErrorModeDetailed))

			res := svc.Submit(ctx, &SubmitRequest{Text: "x", Image: xray})
			So(res.Transcript[0].Assistant, ShouldEqual, "Image could not be processed, please upload another image.")

			svc = NewChatService(&stubGenerator{kind: ai.KindTimeout}, WithErrorMode(ErrorModeDetailed))
			res = svc.Submit(ctx, &SubmitRequest{Text: "x", Image: xray})
			So(res.Transcript[0].Assistant, ShouldEqual, "Timeout! Please wait a few minutes and retry.")
		})

		Convey("失败后对话可以继续", func() {
			gen := &stubGenerator{kind: ai.KindTimeout}
			svc := NewChatService(gen)
			res := svc.Submit(ctx, &SubmitRequest{Text: "x", Image: xray})

			gen.kind = ""
			gen.answer = "fine"
			res = svc.Submit(ctx, &SubmitRequest{Text: "y", Image: xray, Transcript: res.Transcript})

			So(res.State, ShouldEqual, StateSucceeded)
			So(len(res.Transcript), ShouldEqual, 2)
			So(gen.reqs[1].History, ShouldResemble, model.Transcript{
				{User: "x", Assistant: "Timeout! Please wait a few minutes and retry."},
			})
		})

		Convey("推理调用写入审计记录", func() {
			records := &memRecords{}
			svc := NewChatService(&stubGenerator{kind: ai.KindTimeout}, WithRecordSaver(records))

			svc.Submit(ctx, &SubmitRequest{SessionID: "s1", Text: "x", Image: xray})
			svc.Submit(ctx, &SubmitRequest{SessionID: "s1", Text: "x"})

			So(len(records.saved), ShouldEqual, 1)
			So(records.saved[0].SessionID, ShouldEqual, "s1")
			So(records.saved[0].ErrorKind, ShouldEqual, "timeout")
			So(records.saved[0].ImageKey, ShouldEqual, "uploads/1.png")
		})
	})
}

func TestChatService_Clear(t *testing.T) {
	Convey("Clear 总是返回单轮问候", t, func() {
		svc := NewChatService(&stubGenerator{})

		first := svc.Clear()
		second := svc.Clear()

		So(first, ShouldResemble, second)
		So(first.Text, ShouldEqual, "请描述这张胸片")
		So(first.ImageCleared, ShouldBeTrue)
		So(first.Transcript, ShouldResemble, model.Transcript{{User: "", Assistant: "请描述这张胸片"}})

		Convey("Reset 与 Clear 的文本和对话记录一致", func() {
			text, transcript := svc.Reset()
			So(text, ShouldEqual, first.Text)
			So(transcript, ShouldResemble, first.Transcript)
		})

		Convey("可配置默认提示语", func() {
			custom := NewChatService(&stubGenerator{}, WithDefaultPrompt("Describe this X-ray"))
			So(custom.Clear().Transcript[0].Assistant, ShouldEqual, "Describe this X-ray")
		})
	})
}
