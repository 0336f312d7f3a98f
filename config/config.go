package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/contentpath/internal/util"
	"gopkg.in/yaml.v3"
)

// Bytes per MB
const MB = 1024 * 1024

// Log verbosity as passed on the command line: 1 (error) to 5 (trace)
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.InfoLevel

	// DefaultExternalStorageRoot is the primary external storage volume
	DefaultExternalStorageRoot = "/storage/emulated/0"

	// DefaultCopyBufferSize is the block size used when copying into the cache
	DefaultCopyBufferSize = 32 * 1024

	// DefaultCacheMaxSize bounds the cache directory. Oldest copies are evicted first.
	DefaultCacheMaxSize = 200 * MB

	// DefaultKeepPartial leaves truncated copies in the cache after a failed transfer
	DefaultKeepPartial = false

	// DefaultFallbackName names cache copies whose provider reports no display name
	DefaultFallbackName = "download"
)

// DefaultCacheDir is the application-private cache directory
var DefaultCacheDir = filepath.Join(os.TempDir(), "contentpath")

// ProviderSpec declares a host content provider to mount under an authority.
// Which fields apply depends on Type (see the adapters package).
type ProviderSpec struct {
	Authority string            `yaml:"authority" json:"authority"`
	Type      string            `yaml:"type" json:"type"`
	Root      string            `yaml:"root,omitempty" json:"root,omitempty"` // dir providers
	URL       string            `yaml:"url,omitempty" json:"url,omitempty"`   // http providers
	Headers   map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// Config contains runtime configuration values for the resolver.
type Config struct {
	LogLvl              util.LogLevel
	CacheDir            string // Application-private directory receiving downloaded copies
	ExternalStorageRoot string // Root of the "primary" external storage volume
	AssetDir            string // Directory backing the bundled asset store (optional)
	CopyBufferSize      int    // Block size for cache copies in bytes (Default 32KB)
	CacheMaxSize        int64  // Cache size limit in bytes; 0 disables eviction (Default 200MB)
	KeepPartial         bool   // Keep truncated copies after a failed transfer (Default false)
	FallbackName        string // Cache file name when no display name is reported
	Providers           []ProviderSpec
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	LogLvl              *int           `yaml:"verbose,omitempty" json:"verbose,omitempty"` // 1 (error) to 5 (trace)
	CacheDir            *string        `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
	ExternalStorageRoot *string        `yaml:"external_storage_root,omitempty" json:"external_storage_root,omitempty"`
	AssetDir            *string        `yaml:"asset_dir,omitempty" json:"asset_dir,omitempty"`
	CopyBufferSize      *int           `yaml:"copy_buffer_size,omitempty" json:"copy_buffer_size,omitempty"`
	CacheMaxSize        *int64         `yaml:"cache_max_size,omitempty" json:"cache_max_size,omitempty"`
	KeepPartial         *bool          `yaml:"keep_partial,omitempty" json:"keep_partial,omitempty"`
	FallbackName        *string        `yaml:"fallback_name,omitempty" json:"fallback_name,omitempty"`
	Providers           []ProviderSpec `yaml:"providers,omitempty" json:"providers,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:              DefaultLogLvl,
		CacheDir:            DefaultCacheDir,
		ExternalStorageRoot: DefaultExternalStorageRoot,
		CopyBufferSize:      DefaultCopyBufferSize,
		CacheMaxSize:        DefaultCacheMaxSize,
		KeepPartial:         DefaultKeepPartial,
		FallbackName:        DefaultFallbackName,
	}
}

// NewConfig returns the defaults with override applied. A nil override yields
// the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// VerboseToLogLevel maps CLI verbosity (clamped to 1..5) to a log level
func VerboseToLogLevel(verbose int) util.LogLevel {
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[util.Clamp(verbose, ErrorVerbose, TraceVerbose)-1]
}

// Merge applies non-nil values from override onto this Config.
// Providers are appended rather than replaced.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.CacheDir != nil {
		c.CacheDir = *override.CacheDir
	}
	if override.ExternalStorageRoot != nil {
		c.ExternalStorageRoot = *override.ExternalStorageRoot
	}
	if override.AssetDir != nil {
		c.AssetDir = *override.AssetDir
	}
	if override.CopyBufferSize != nil {
		c.CopyBufferSize = *override.CopyBufferSize
	}
	if override.CacheMaxSize != nil {
		c.CacheMaxSize = *override.CacheMaxSize
	}
	if override.KeepPartial != nil {
		c.KeepPartial = *override.KeepPartial
	}
	if override.FallbackName != nil {
		c.FallbackName = *override.FallbackName
	}
	c.Providers = append(c.Providers, override.Providers...)
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
