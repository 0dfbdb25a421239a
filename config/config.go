// Package config loads the settings used to assemble a jsonrpc2.Server from
// a YAML file, with overrides from command line arguments and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/OpenPeeDeeP/xdg"
	"github.com/alexcesaro/log"
	"github.com/alexcesaro/log/golog"
	"github.com/dgraph-io/badger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vipnode/rpcserver/jsonrpc2"
	"github.com/vipnode/rpcserver/jsonrpc2/mailbox"
	badgerStore "github.com/vipnode/rpcserver/jsonrpc2/mailbox/badger"
	"github.com/vipnode/rpcserver/jsonrpc2/middleware"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const (
	vendor      = "vipnode"
	application = "rpcserver"
)

// ErrUnknownStore is returned when the mailbox store driver is not one of
// "memory" or "badger".
var ErrUnknownStore = errors.New("mailbox storage driver not implemented")

var logLevels = []log.Level{
	log.Warning,
	log.Info,
	log.Debug,
}

// Config is the top-level configuration. The zero value of each section
// disables the feature it configures.
type Config struct {
	Verbose   int             `yaml:"verbose"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Mailbox   MailboxConfig   `yaml:"mailbox"`
}

// RateLimitConfig configures middleware.RateLimit. Each response costs one
// token.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"perSecond"`
	Burst     int     `yaml:"burst"`
}

// MetricsConfig configures middleware.Metrics.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// MailboxConfig selects the mailbox store.
type MailboxConfig struct {
	Store   string `yaml:"store"`
	DataDir string `yaml:"dataDir"`
	Limit   int    `yaml:"limit"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Mailbox: MailboxConfig{
			Store: "memory",
		},
	}
}

// DefaultPath returns the path of the config file in the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.New(vendor, application).ConfigHome(), "config.yaml")
}

// Load reads the YAML config file at path on top of Default(). An empty path
// loads DefaultPath() if it exists.
func Load(path string) (Config, error) {
	cfg := Default()
	optional := path == ""
	if optional {
		path = DefaultPath()
	}

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return cfg, nil
	} else if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Logger returns a leveled logger for the configured verbosity. At the
// highest verbosity the package loggers of the supporting packages are
// enabled too.
func (c Config) Logger(w io.Writer) *golog.Logger {
	v := c.Verbose
	if v < 0 {
		v = 0
	} else if v >= len(logLevels) {
		v = len(logLevels) - 1
	}

	logLevel := logLevels[v]
	if logLevel == log.Debug {
		// Enable logging from subpackages
		SetLogger(w)
		mailbox.SetLogger(w)
	}
	return golog.New(w, logLevel)
}

// Middleware returns the transport middleware enabled by the config, in the
// order: logging, metrics, rate limit, timeout. Metrics are only recorded
// when reg is not nil and a namespace is configured.
func (c Config) Middleware(logger middleware.Logger, reg prometheus.Registerer) (jsonrpc2.Middleware, error) {
	var mw []jsonrpc2.Middleware
	if logger != nil {
		mw = append(mw, middleware.Logging(logger))
	}
	if reg != nil && c.Metrics.Namespace != "" {
		m, err := middleware.Metrics(reg, c.Metrics.Namespace)
		if err != nil {
			return nil, err
		}
		mw = append(mw, m)
	}
	if c.RateLimit.PerSecond > 0 {
		burst := c.RateLimit.Burst
		if burst < 1 {
			burst = 1
		}
		mw = append(mw, middleware.RateLimit(rate.NewLimiter(rate.Limit(c.RateLimit.PerSecond), burst)))
	}
	if c.Timeout > 0 {
		mw = append(mw, middleware.Timeout(c.Timeout))
	}
	return middleware.Chain(mw...), nil
}

// DataDir returns a valid data dir for persistent stores, will create it if
// it doesn't exist.
func (c Config) DataDir() (string, error) {
	path := c.Mailbox.DataDir
	if path == "" {
		path = xdg.New(vendor, application).DataHome()
	}
	err := os.MkdirAll(path, 0700)
	return path, err
}

// OpenStore opens the configured mailbox store. The store should be
// .Close()'d after use.
func (c Config) OpenStore() (mailbox.Store, error) {
	switch c.Mailbox.Store {
	case "", "memory":
		return mailbox.MemoryStore(c.Mailbox.Limit), nil
	case "persist":
		fallthrough
	case "badger":
		dir, err := c.DataDir()
		if err != nil {
			return nil, err
		}
		s, err := badgerStore.Open(badger.DefaultOptions(dir))
		if err != nil {
			return nil, err
		}
		logger.Printf("Persistent mailbox using badger backend: %s", dir)
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStore, c.Mailbox.Store)
}
