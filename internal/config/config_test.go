package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 7860, Mode: "release", MaxConcurrency: 10},
		Chat:   ChatConfig{ErrorMode: "collapse"},
	}
}

func TestConfig_Validate(t *testing.T) {
	Convey("Validate 检查关键配置", t, func() {
		Convey("默认配置有效", func() {
			So(validConfig().Validate(), ShouldBeNil)
		})

		Convey("端口越界无效", func() {
			cfg := validConfig()
			cfg.Server.Port = 70000
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("量化位数只能是 4 或 8", func() {
			cfg := validConfig()
			cfg.Model.Quant = 4
			So(cfg.Validate(), ShouldBeNil)
			cfg.Model.Quant = 16
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("并发上限必须为正数", func() {
			cfg := validConfig()
			cfg.Server.MaxConcurrency = 0
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("错误模式只接受 collapse/detailed", func() {
			cfg := validConfig()
			cfg.Chat.ErrorMode = "detailed"
			So(cfg.Validate(), ShouldBeNil)
			cfg.Chat.ErrorMode = "verbose"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("会话存储只接受 memory/redis", func() {
			cfg := validConfig()
			cfg.Session.Store = "file"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("share 模式监听所有网卡", func() {
			cfg := validConfig()
			So(cfg.Server.Addr(), ShouldEqual, "127.0.0.1:7860")
			cfg.Server.Host = "localhost"
			So(cfg.Server.Addr(), ShouldEqual, "localhost:7860")
			cfg.Server.Share = true
			So(cfg.Server.Addr(), ShouldEqual, "0.0.0.0:7860")
		})
	})
}
