package server

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"xraychat/internal/config"
	"xraychat/internal/model"
)

func TestSamplingDefaults(t *testing.T) {
	Convey("samplingDefaults 只覆盖已配置的字段", t, func() {
		So(samplingDefaults(config.SamplingConfig{}), ShouldResemble, model.DefaultSampling())

		p := samplingDefaults(config.SamplingConfig{Temperature: 0.3, MaxLength: 1024})
		So(p.Temperature, ShouldEqual, 0.3)
		So(p.MaxLength, ShouldEqual, 1024)
		So(p.TopP, ShouldEqual, 0.4)
		So(p.TopK, ShouldEqual, 100)
	})
}
