package config

import (
	"time"

	flags "github.com/jessevdk/go-flags"
)

// Options are the command line and environment overrides of a Config. Unset
// options leave the config file value alone.
type Options struct {
	Config    string        `long:"config" env:"RPCSERVER_CONFIG" description:"Path to the YAML config file."`
	Verbose   []bool        `short:"v" long:"verbose" description:"Show verbose logging."`
	Timeout   time.Duration `long:"timeout" env:"RPCSERVER_TIMEOUT" description:"Fail sends that take longer than this."`
	RateLimit float64       `long:"ratelimit" env:"RPCSERVER_RATELIMIT" description:"Responses per second allowed to be sent."`
	Burst     int           `long:"burst" env:"RPCSERVER_BURST" description:"Burst size of the rate limit."`
	Metrics   string        `long:"metrics" env:"RPCSERVER_METRICS" description:"Namespace of the prometheus metrics, disabled if empty."`
	Store     string        `long:"store" env:"RPCSERVER_STORE" description:"Mailbox storage driver. (memory|badger)"`
	DataDir   string        `long:"datadir" env:"RPCSERVER_DATADIR" description:"Directory of the persistent mailbox store."`
	Limit     int           `long:"limit" env:"RPCSERVER_LIMIT" description:"Maximum number of queued mailbox envelopes, unlimited if 0."`
}

// Apply overrides the config values with the options that are set.
func (opts Options) Apply(cfg *Config) {
	if len(opts.Verbose) > 0 {
		cfg.Verbose = len(opts.Verbose)
	}
	if opts.Timeout != 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.RateLimit != 0 {
		cfg.RateLimit.PerSecond = opts.RateLimit
	}
	if opts.Burst != 0 {
		cfg.RateLimit.Burst = opts.Burst
	}
	if opts.Metrics != "" {
		cfg.Metrics.Namespace = opts.Metrics
	}
	if opts.Store != "" {
		cfg.Mailbox.Store = opts.Store
	}
	if opts.DataDir != "" {
		cfg.Mailbox.DataDir = opts.DataDir
	}
	if opts.Limit != 0 {
		cfg.Mailbox.Limit = opts.Limit
	}
}

// Parse parses args and the environment into Options, loads the config file
// they point at (or the default one), and applies the options on top. Unknown
// arguments are returned for the caller to handle.
func Parse(args []string) (Config, []string, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return Config{}, nil, err
	}

	cfg, err := Load(opts.Config)
	if err != nil {
		return cfg, rest, err
	}
	opts.Apply(&cfg)
	return cfg, rest, nil
}
