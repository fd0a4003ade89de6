package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/talentradar/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Storage, convey.ShouldEqual, "memory")
				convey.So(cfg.GitHubToken, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RADAR_ADDR", ":8080")
			_ = os.Setenv("RADAR_COLLECT_WORKERS", "8")
			_ = os.Setenv("RADAR_GITHUB_TOKEN", "ghp_x")
			_ = os.Setenv("RADAR_CJK_THRESHOLD", "0.35")
			_ = os.Setenv("RADAR_LOG_JSON", "true")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CollectWorkers, convey.ShouldEqual, 8)
				convey.So(cfg.GitHubToken, convey.ShouldEqual, "ghp_x")
				convey.So(cfg.CJKThreshold, convey.ShouldEqual, 0.35)
				convey.So(cfg.LogJSON, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
# storage layer
addr: ":9090"
storage: postgres
database_url: postgres://radar@localhost/radar
match_limit: 20
openalex_email: team@example.com
`)
			_ = os.Setenv("RADAR_CONFIG", tmpFile)
			_ = os.Setenv("RADAR_MATCH_LIMIT", "5")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Storage, convey.ShouldEqual, config.StoragePostgres)
				convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://radar@localhost/radar")
				convey.So(cfg.OpenAlexEmail, convey.ShouldEqual, "team@example.com")
				convey.So(cfg.MatchLimit, convey.ShouldEqual, 5)
				convey.So(cfg.KakenDelayMS, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When an explicit path is passed", func() {
			tmpFile := createTempConfigFile(t, "addr: \":7000\"\n")
			_ = os.Setenv("RADAR_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx, tmpFile)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("RADAR_CONFIG", tmpFile)

			cfg, err := config.Load(ctx, "")
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RADAR_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx, "")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("RADAR_ADDR", "")

			cfg, err := config.Load(ctx, "")
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When postgres is selected without a database url", func() {
			_ = os.Setenv("RADAR_STORAGE", "postgres")

			_, err := config.Load(ctx, "")
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("RADAR_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx, "")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RADAR_CONFIG",
		"RADAR_ADDR",
		"RADAR_STORAGE",
		"RADAR_COLLECT_WORKERS",
		"RADAR_GITHUB_TOKEN",
		"RADAR_CJK_THRESHOLD",
		"RADAR_LOG_JSON",
		"RADAR_MATCH_LIMIT",
		"RADAR_QUEUE_SIZE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "radar-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
