package main

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestStatsCommand(t *testing.T) {
	Convey("inference_stats 命令通过 cobra/viper 读取参数", t, func() {
		t.Setenv("XRAYCHAT_MONGO_URI", "")

		Convey("flag 绑定到 viper", func() {
			So(statsCmd.ParseFlags([]string{"--since", "2h", "--session", "s1", "--limit", "5"}), ShouldBeNil)
			So(viper.GetDuration("stats.since"), ShouldEqual, 2*time.Hour)
			So(viper.GetString("stats.session"), ShouldEqual, "s1")
			So(viper.GetInt64("stats.limit"), ShouldEqual, 5)
		})

		Convey("未配置 MongoDB 时返回错误而不是退出进程", func() {
			statsCmd.SetArgs([]string{"--config", t.TempDir() + "/missing.yaml"})
			err := statsCmd.Execute()
			So(err, ShouldNotBeNil)
		})
	})
}
