// Package di provides dependency injection configuration for the reading club server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/readingclub/readingclub-server/internal/config"
	"github.com/readingclub/readingclub-server/internal/di/providers"
	"github.com/readingclub/readingclub-server/internal/logger"
	"github.com/readingclub/readingclub-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Configuration is loaded from flags, environment and the env file.
func NewContainer() *do.RootScope {
	injector := do.New()
	do.Provide(injector, providers.ProvideConfig)
	registerProviders(injector)
	return injector
}

// NewContainerWithConfig creates a container around an already loaded configuration.
func NewContainerWithConfig(cfg *config.Config) *do.RootScope {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	registerProviders(injector)
	return injector
}

func registerProviders(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Metadata layer
	do.Provide(injector, providers.ProvideMetadataClients)
	do.Provide(injector, providers.ProvideDiscoveryService)

	// Workers
	do.Provide(injector, providers.ProvideFileWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)
}

// BootstrapCore initializes everything except the network listeners.
func BootstrapCore(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SSEManagerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.SearchService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.MetadataClientsHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.DiscoveryHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.FileWatcherHandle](injector); err != nil {
		return err
	}
	return nil
}

// Bootstrap initializes all services, including the HTTP server and the
// mDNS advertisement.
func Bootstrap(injector *do.RootScope) error {
	if err := BootstrapCore(injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.MDNSServiceHandle](injector); err != nil {
		return err
	}
	return nil
}
