package ark

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
)

func TestConvertMessages(t *testing.T) {
	Convey("convertMessages 区分纯文本与图文消息", t, func() {
		msgs := convertMessages([]Message{
			{Role: "system", Content: "你是放射科医生"},
			{Role: "user", Content: "请描述这张胸片", ImageURL: "data:image/png;base64,AAAA"},
		})

		So(len(msgs), ShouldEqual, 2)
		So(msgs[0].Role, ShouldEqual, "system")
		So(*msgs[0].Content.StringValue, ShouldEqual, "你是放射科医生")
		So(msgs[0].Content.ListValue, ShouldBeNil)

		parts := msgs[1].Content.ListValue
		So(len(parts), ShouldEqual, 2)
		So(parts[0].Type, ShouldEqual, model.ChatCompletionMessageContentPartTypeImageURL)
		So(parts[0].ImageURL.URL, ShouldEqual, "data:image/png;base64,AAAA")
		So(parts[1].Text, ShouldEqual, "请描述这张胸片")
	})
}

func TestNewClient(t *testing.T) {
	Convey("NewClient 需要 API key 并填充默认模型", t, func() {
		_, err := NewClient(&Config{})
		So(err, ShouldNotBeNil)

		c, err := NewClient(&Config{APIKey: "k"})
		So(err, ShouldBeNil)
		So(c.Model(), ShouldEqual, defaultModel)
	})
}
