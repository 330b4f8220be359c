package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rentgrip/internal/catalog"
	"rentgrip/internal/config"
	"rentgrip/internal/engine"
	"rentgrip/internal/eventbus"
	"rentgrip/internal/logging"
	"rentgrip/internal/search"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath  string
	catalogPath string
	logLevel    string
}

// loadConfig reads .env, then the config file named by --config or the one
// in the working directory, then applies --catalog
func loadConfig(opts *globalOptions, bus eventbus.EventBus) (*config.Config, error) {
	config.LoadEnv()

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.NewConfigServiceWithBus(filepath.Dir(opts.configPath), bus).LoadFromPath(opts.configPath)
	} else {
		dir, werr := os.Getwd()
		if werr != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", werr)
		}
		cfg, err = config.NewConfigServiceWithBus(dir, bus).Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.catalogPath != "" {
		if isSQLitePath(opts.catalogPath) {
			cfg.Catalog.Source = "sqlite"
			cfg.Catalog.DSN = opts.catalogPath
		} else {
			cfg.Catalog.Source = "file"
			cfg.Catalog.Path = opts.catalogPath
		}
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// setupLogging points the global logger at w, or at the configured file
// when w is nil. The returned closer releases the file.
func setupLogging(cfg *config.Config, w io.Writer) (func(), error) {
	closer := func() {}
	if w == nil {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return closer, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = func() { _ = f.Close() }
	}
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: w,
	})
	return closer, nil
}

// openProvider builds the configured catalog source wrapped in the circuit
// breaker. The returned closer releases database handles.
func openProvider(cfg *config.Config) (catalog.Provider, func(), error) {
	var (
		base   catalog.Provider
		closer = func() {}
	)
	switch cfg.Catalog.Source {
	case "sqlite":
		p, err := catalog.OpenSQLite(cfg.Catalog.DSN)
		if err != nil {
			return nil, closer, err
		}
		base = p
		closer = func() { _ = p.Close() }
	case "file", "":
		base = catalog.NewFileProvider(cfg.Catalog.Path)
	default:
		return nil, closer, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}

	ropts := catalog.DefaultResilientOptions()
	ropts.Name = cfg.Catalog.Source
	if cfg.Catalog.RefreshTimeoutMS > 0 {
		ropts.AttemptTimeout = time.Duration(cfg.Catalog.RefreshTimeoutMS) * time.Millisecond
	}
	return catalog.NewResilientProvider(base, ropts), closer, nil
}

// engineOptions maps config onto engine options; extra options win
func engineOptions(cfg *config.Config, extra ...engine.Option) []engine.Option {
	opts := []engine.Option{
		engine.WithPageSize(cfg.Browse.PageSize),
		engine.WithDebounce(time.Duration(cfg.Browse.DebounceMS) * time.Millisecond),
		engine.WithSortMode(cfg.SortMode()),
		engine.WithCacheSize(cfg.Search.CacheSize),
		engine.WithSearchOptions(search.Options{
			Weights: search.Weights{
				Name:  cfg.Search.NameWeight,
				Short: cfg.Search.ShortWeight,
				Long:  cfg.Search.LongWeight,
			},
			Threshold: cfg.Search.Threshold,
		}),
	}
	return append(opts, extra...)
}
