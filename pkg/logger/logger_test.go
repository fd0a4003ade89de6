package logger

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given a fresh logger package", t, func() {
		Convey("When initializing with defaults", func() {
			err := Init()

			Convey("Then the global logger is available", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initializing with JSON output", func() {
			err := Init(WithJSON(true), WithOutputPaths("stderr"))

			Convey("Then it succeeds", func() {
				So(err, ShouldBeNil)
				So(func() { Get().Info(context.Background(), "json message", String("k", "v")) }, ShouldNotPanic)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(SetLevelString("debug"), ShouldBeNil)
		So(SetLevelString("WARNING"), ShouldBeNil)
		So(SetLevelString(" error "), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("loud"), ShouldNotBeNil)
	})
}

func TestZapBackedFields(t *testing.T) {
	Convey("Given a logger wrapping an observed zap core", t, func() {
		core, observed := observer.New(zapcore.DebugLevel)
		l := NewFromZap(zap.New(core)).Named("resolver")
		ctx := context.Background()

		Convey("When logging with structured fields", func() {
			l.Warn(ctx, "record dropped",
				String(KeySource, "github"),
				Int("count", 3),
				Bool("retry", false),
				Error(errors.New("boom")),
			)

			Convey("Then the entry carries every field", func() {
				entries := observed.All()
				So(len(entries), ShouldEqual, 1)
				So(entries[0].LoggerName, ShouldEqual, "resolver")
				So(entries[0].Level, ShouldEqual, zapcore.WarnLevel)
				fields := entries[0].ContextMap()
				So(fields[KeySource], ShouldEqual, "github")
				So(fields["count"], ShouldEqual, int64(3))
				So(fields["retry"], ShouldEqual, false)
				So(fields["error"], ShouldEqual, "boom")
			})
		})
	})

	Convey("Given nil inputs", t, func() {
		So(NewFromZap(nil), ShouldNotBeNil)
		So(OrGlobal(nil), ShouldNotBeNil)
		So(func() { Nop().Error(context.Background(), "ignored") }, ShouldNotPanic)
	})
}
