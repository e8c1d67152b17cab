// Package di provides dependency injection container
package di

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ssargent/embview/pkg/check"
	"github.com/ssargent/embview/pkg/config"
	"github.com/ssargent/embview/pkg/logging"
	"github.com/ssargent/embview/pkg/metrics"
	"github.com/ssargent/embview/pkg/storage"
)

// StoreFactory opens the snapshot store
type StoreFactory func(dataDir string, logger zerolog.Logger) (*storage.Store, error)

// Container holds all the dependencies for the application
type Container struct {
	config       *config.Config
	logger       zerolog.Logger
	registry     *prometheus.Registry
	metrics      *metrics.Metrics
	storeFactory StoreFactory
	store        *storage.Store
}

// NewContainer creates a container with the default configuration, a
// console logger on stderr and a fresh metrics registry.
func NewContainer() *Container {
	c := &Container{
		registry:     prometheus.NewRegistry(),
		storeFactory: storage.Open,
	}
	c.metrics = metrics.New(c.registry)
	if err := c.Configure(config.DefaultConfig(), os.Stderr); err != nil {
		panic(err)
	}
	return c
}

// Configure installs cfg: it rebuilds the logger writing to w and applies
// the check policy process-wide.
func (c *Container) Configure(cfg *config.Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging, w)
	if err != nil {
		return err
	}
	policy, err := check.ParsePolicy(cfg.Check.Policy)
	if err != nil {
		return err
	}
	check.SetPolicy(policy)

	c.config = cfg
	c.logger = logger
	return nil
}

// Config returns the active configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() zerolog.Logger {
	return c.logger
}

// Metrics returns the operation counters
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Registry returns the registry the metrics are registered with
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Store opens the snapshot store in the configured data directory on first
// use and returns the same store afterwards.
func (c *Container) Store() (*storage.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	if err := os.MkdirAll(c.config.DataDir, 0750); err != nil {
		return nil, errors.Wrap(err, "failed to create data dir")
	}
	s, err := c.storeFactory(c.config.DataDir, c.logger)
	if err != nil {
		return nil, err
	}
	c.store = s
	return s, nil
}

// SetStoreFactory allows overriding how the store is opened (for testing)
func (c *Container) SetStoreFactory(factory StoreFactory) {
	c.storeFactory = factory
}

// Close releases the store, if open, and writes the metrics textfile when
// one is configured.
func (c *Container) Close() error {
	var err error
	if c.store != nil {
		err = c.store.Close()
		c.store = nil
	}
	if path := c.config.Metrics.Textfile; path != "" {
		err = errors.CombineErrors(err, metrics.WriteTextfile(c.registry, path))
	}
	return err
}
