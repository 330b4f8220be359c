package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"rentgrip/internal/domain"
	"rentgrip/internal/eventbus"
)

// FileName is the per-directory config file
const FileName = ".rentgrip.toml"

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	Catalog CatalogConfig `toml:"catalog"`
	Browse  BrowseConfig  `toml:"browse"`
	Search  SearchConfig  `toml:"search"`
	Log     LogConfig     `toml:"log"`
	UI      UISettings    `toml:"ui"`
}

// CatalogConfig selects where items come from
type CatalogConfig struct {
	Source           string `toml:"source" validate:"oneof=file sqlite"`
	Path             string `toml:"path" validate:"required_if=Source file"`
	DSN              string `toml:"dsn" validate:"required_if=Source sqlite"`
	RefreshTimeoutMS int    `toml:"refresh_timeout_ms" validate:"gte=0"`
}

// BrowseConfig holds result presentation settings
type BrowseConfig struct {
	PageSize    int    `toml:"page_size" validate:"gte=1,lte=500"`
	DebounceMS  int    `toml:"debounce_ms" validate:"gte=0,lte=5000"`
	DefaultSort string `toml:"default_sort" validate:"omitempty,oneof=most-recent price-asc price-desc rating-desc"`
}

// SearchConfig tunes fuzzy matching
type SearchConfig struct {
	Threshold   float64 `toml:"threshold" validate:"gte=0,lte=1"`
	NameWeight  float64 `toml:"name_weight" validate:"gt=0"`
	ShortWeight float64 `toml:"short_weight" validate:"gt=0,ltefield=NameWeight"`
	LongWeight  float64 `toml:"long_weight" validate:"gt=0,ltefield=ShortWeight"`
	CacheSize   int     `toml:"cache_size" validate:"gte=0"`
}

// LogConfig controls zerolog output
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format" validate:"omitempty,oneof=json console"`
	File   string `toml:"file"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowRatings bool `toml:"show_ratings"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
	validate *validator.Validate
}

// NewConfigService creates a config service rooted at dir
func NewConfigService(dir string) ConfigService {
	return &configService{
		filePath: filepath.Join(dir, FileName),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(dir string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(dir).(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from the service's file, falling back to
// defaults when the file does not exist. Environment overrides always apply.
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		ApplyEnv(cfg)
		if err := cs.Validate(cfg); err != nil {
			return nil, err
		}
	} else {
		loaded, err := cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// relative catalog paths are relative to the config file
	base := filepath.Dir(path)
	if cfg.Catalog.Path != "" && !filepath.IsAbs(cfg.Catalog.Path) {
		cfg.Catalog.Path = filepath.Join(base, cfg.Catalog.Path)
	}

	ApplyEnv(cfg)
	if err := cs.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks field constraints
func (cs *configService) Validate(cfg *Config) error {
	if err := cs.validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadEnv reads a .env file from the working directory if present
func LoadEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides config values from RENTGRIP_* environment variables
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("RENTGRIP_CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = strings.ToLower(v)
	}
	if v := os.Getenv("RENTGRIP_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("RENTGRIP_CATALOG_DSN"); v != "" {
		cfg.Catalog.DSN = v
	}
	if n, ok := envInt("RENTGRIP_PAGE_SIZE"); ok {
		cfg.Browse.PageSize = n
	}
	if n, ok := envInt("RENTGRIP_DEBOUNCE_MS"); ok {
		cfg.Browse.DebounceMS = n
	}
	if v := os.Getenv("RENTGRIP_DEFAULT_SORT"); v != "" {
		cfg.Browse.DefaultSort = v
	}
	if v := os.Getenv("RENTGRIP_SEARCH_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Search.Threshold = f
		}
	}
	if v := os.Getenv("RENTGRIP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RENTGRIP_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("RENTGRIP_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortMode resolves the configured default sort
func (c *Config) SortMode() domain.SortMode {
	mode, _ := domain.ParseSortMode(c.Browse.DefaultSort)
	return mode
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Catalog: CatalogConfig{
			Source:           "file",
			Path:             "catalog.json",
			RefreshTimeoutMS: 10000,
		},
		Browse: BrowseConfig{
			PageSize:    12,
			DebounceMS:  300,
			DefaultSort: "most-recent",
		},
		Search: SearchConfig{
			Threshold:   0.3,
			NameWeight:  1.0,
			ShortWeight: 0.7,
			LongWeight:  0.4,
			CacheSize:   128,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   "rentgrip.log",
		},
		UI: UISettings{
			ShowRatings: true,
		},
	}
}
