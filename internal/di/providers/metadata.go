package providers

import (
	"github.com/samber/do/v2"

	"github.com/readingclub/readingclub-server/internal/config"
	"github.com/readingclub/readingclub-server/internal/logger"
	"github.com/readingclub/readingclub-server/internal/metadata"
	"github.com/readingclub/readingclub-server/internal/metadata/googlebooks"
	"github.com/readingclub/readingclub-server/internal/metadata/gutendex"
	"github.com/readingclub/readingclub-server/internal/metadata/openlibrary"
	"github.com/readingclub/readingclub-server/internal/service"
)

// MetadataClientsHandle owns the remote catalog clients.
type MetadataClientsHandle struct {
	OpenLibrary *openlibrary.Client
	GoogleBooks *googlebooks.Client
	Gutendex    *gutendex.Client
}

// Shutdown implements do.Shutdownable.
func (h *MetadataClientsHandle) Shutdown() error {
	h.OpenLibrary.Close()
	h.GoogleBooks.Close()
	h.Gutendex.Close()
	return nil
}

// ProvideMetadataClients provides the Open Library, Google Books, and Gutendex clients.
func ProvideMetadataClients(i do.Injector) (*MetadataClientsHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	h := &MetadataClientsHandle{
		OpenLibrary: openlibrary.New(log.Logger, cfg.Discovery.Timeout),
		GoogleBooks: googlebooks.New(log.Logger, cfg.Discovery.Timeout),
		Gutendex:    gutendex.New(log.Logger, cfg.Discovery.Timeout),
	}
	log.Info("Metadata clients initialized", "timeout", cfg.Discovery.Timeout)

	return h, nil
}

// DiscoveryHandle holds the discovery service, nil when discovery is disabled.
type DiscoveryHandle struct {
	*service.DiscoveryService
}

// ProvideDiscoveryService provides the remote book discovery service.
func ProvideDiscoveryService(i do.Injector) (*DiscoveryHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Discovery.Enabled {
		log.Info("Book discovery disabled by configuration")
		return &DiscoveryHandle{}, nil
	}

	clients := do.MustInvoke[*MetadataClientsHandle](i)

	svc := service.NewDiscoveryService(
		[]metadata.Provider{clients.OpenLibrary, clients.GoogleBooks, clients.Gutendex},
		[]metadata.Suggester{clients.OpenLibrary, clients.GoogleBooks},
		clients.OpenLibrary,
		cfg.Discovery.Timeout,
		log.Logger,
	).WithEnrichers(clients.GoogleBooks, clients.OpenLibrary)

	return &DiscoveryHandle{DiscoveryService: svc}, nil
}
