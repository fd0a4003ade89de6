package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/talentradar/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Storage, convey.ShouldEqual, config.StorageMemory)
			convey.So(cfg.CollectWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.ParallelThreshold, convey.ShouldEqual, 4)
			convey.So(cfg.DefaultMaxResults, convey.ShouldEqual, 10)
			convey.So(cfg.MatchLimit, convey.ShouldEqual, 50)
			convey.So(cfg.CJKThreshold, convey.ShouldEqual, 0.2)
			convey.So(cfg.OpenAlexDelay(), convey.ShouldEqual, 100*time.Millisecond)
			convey.So(cfg.KakenDelay(), convey.ShouldEqual, 500*time.Millisecond)
			convey.So(cfg.RequestTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given configs breaking cross-field rules", t, func() {
		pg := config.New()
		pg.Storage = config.StoragePostgres

		unknown := config.New()
		unknown.Storage = "sqlite"

		threshold := config.New()
		threshold.CJKThreshold = 1

		workers := config.New()
		workers.PersistWorkers = 0

		for _, cfg := range []*config.Config{pg, unknown, threshold, workers} {
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		}

		pg.DatabaseURL = "postgres://localhost/radar"
		convey.So(pg.Validate(), convey.ShouldBeNil)
	})
}
