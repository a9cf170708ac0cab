package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/drape/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.RecommendCount, convey.ShouldEqual, 5)
			convey.So(cfg.DisplayCount, convey.ShouldEqual, 3)
			convey.So(cfg.AlternativesCount, convey.ShouldEqual, 2)
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.StoreBackend, convey.ShouldEqual, "memory")
			convey.So(cfg.BlobBackend, convey.ShouldEqual, "none")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break a constraint", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = "" },
			"zero recommend":      func(c *config.Config) { c.RecommendCount = 0 },
			"zero display":        func(c *config.Config) { c.DisplayCount = 0 },
			"negative alts":       func(c *config.Config) { c.AlternativesCount = -1 },
			"zero alts":           func(c *config.Config) { c.AlternativesCount = 0 },
			"zero upload":         func(c *config.Config) { c.MaxUploadBytes = 0 },
			"postgres without db": func(c *config.Config) { c.StoreBackend = "postgres" },
			"unknown store":       func(c *config.Config) { c.StoreBackend = "redis" },
			"s3 without bucket":   func(c *config.Config) { c.BlobBackend = "s3" },
			"azure without conn":  func(c *config.Config) { c.BlobBackend = "azure" },
			"azure without container": func(c *config.Config) {
				c.BlobBackend, c.AzureAccountURL, c.AzureContainer = "azure", "https://acct.blob.core.windows.net", ""
			},
			"unknown blob": func(c *config.Config) { c.BlobBackend = "gcs" },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			convey.So(name, convey.ShouldNotBeEmpty)
		}
	})
}

func TestConfig_ValidateAzureAccount(t *testing.T) {
	convey.Convey("Given an azure archive with an account URL", t, func() {
		cfg := config.New()
		cfg.BlobBackend = "azure"
		cfg.AzureAccountURL = "https://acct.blob.core.windows.net"

		convey.Convey("Then no connection string is needed", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_ValidateUnknownBackend(t *testing.T) {
	convey.Convey("Given an unsupported blob backend", t, func() {
		cfg := config.New()
		cfg.BlobBackend = "gcs"
		err := cfg.Validate()

		convey.Convey("Then the error names the backend and is an invalid config", func() {
			convey.So(err, convey.ShouldWrap, config.ErrUnknownBackend)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, `"gcs"`)
		})
	})
}
