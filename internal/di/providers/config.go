// Package providers contains dependency injection providers for the reading club server.
package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/readingclub/readingclub-server/internal/config"
	"github.com/readingclub/readingclub-server/internal/logger"
)

// shutdownTimeout bounds each handle's graceful stop.
const shutdownTimeout = 15 * time.Second

// ProvideConfig provides the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Reading Club Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"store_backend", cfg.Store.Backend,
		"data_path", cfg.Store.DataPath,
	)

	return log, nil
}
