package storagefactory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"xraychat/internal/config"
	"xraychat/internal/pkg/storage"
)

func TestNewStorage(t *testing.T) {
	Convey("NewStorage 根据配置创建存储", t, func() {
		ctx := context.Background()

		Convey("本地存储可上传、读取与删除", func() {
			dir := t.TempDir()
			st, err := NewStorage(&config.StorageConfig{
				Type:  "local",
				Local: &config.LocalConfig{BasePath: dir, BaseURL: "http://localhost:7860/files/"},
			})
			So(err, ShouldBeNil)
			So(st.Type(), ShouldEqual, "local")

			url, err := st.Upload(ctx, "uploads/s1/a.png", strings.NewReader("png-bytes"), "image/png")
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "http://localhost:7860/files/uploads/s1/a.png")

			rc, err := st.Download(ctx, "uploads/s1/a.png")
			So(err, ShouldBeNil)
			data, _ := io.ReadAll(rc)
			rc.Close()
			So(string(data), ShouldEqual, "png-bytes")

			So(st.Delete(ctx, "uploads/s1/a.png"), ShouldBeNil)
			So(st.Delete(ctx, "uploads/s1/a.png"), ShouldBeNil)

			_, err = st.Download(ctx, "uploads/s1/a.png")
			So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)

			_, err = st.Download(ctx, "../../etc/passwd")
			So(err, ShouldNotBeNil)
		})

		Convey("缺少本地存储配置", func() {
			_, err := NewStorage(&config.StorageConfig{Type: "local"})
			So(err, ShouldNotBeNil)
		})

		Convey("缺少 OSS 配置", func() {
			_, err := NewStorage(&config.StorageConfig{Type: "oss"})
			So(err, ShouldNotBeNil)
		})

		Convey("不支持的存储类型", func() {
			_, err := NewStorage(&config.StorageConfig{Type: "s3"})
			So(err, ShouldNotBeNil)
		})
	})
}
