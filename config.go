package shelf

import (
	"errors"
	"fmt"
	"io"

	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// MaxComponentTypesLimit is the widest component set an entity signature
	// can describe. It follows the mask width selected at build time.
	MaxComponentTypesLimit   = mask.MaxBits
	defaultMaxComponentTypes = MaxComponentTypesLimit
)

// Config holds the tunables of a World.
type Config struct {
	// EntityCapacity preallocates room for this many entities in every column.
	EntityCapacity    int  `yaml:"entity_capacity" json:"entity_capacity"`
	MaxComponentTypes int  `yaml:"max_component_types" json:"max_component_types"`
	Debug             bool `yaml:"debug" json:"debug"`
}

func DefaultConfig() Config {
	return Config{
		MaxComponentTypes: defaultMaxComponentTypes,
	}
}

// LoadConfig decodes a YAML config. Fields left out keep their defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.EntityCapacity < 0 {
		return ConfigError{Field: "entity_capacity", Reason: "must not be negative"}
	}
	if c.MaxComponentTypes < 1 || c.MaxComponentTypes > MaxComponentTypesLimit {
		return ConfigError{
			Field:  "max_component_types",
			Reason: fmt.Sprintf("must be between 1 and %d", MaxComponentTypesLimit),
		}
	}
	return nil
}

// withDefaults fills fields left at their zero value. Out-of-range values are
// kept so Validate can reject them.
func (c Config) withDefaults() Config {
	if c.MaxComponentTypes == 0 {
		c.MaxComponentTypes = defaultMaxComponentTypes
	}
	return c
}

// WithConfig replaces the World's config. A zero MaxComponentTypes takes the
// default; NewWorld panics with a ConfigError on any other invalid value.
func WithConfig(cfg Config) Option {
	return func(w *World) {
		w.config = cfg
	}
}

func WithEntityCapacity(n int) Option {
	return func(w *World) {
		w.config.EntityCapacity = n
	}
}

// WithLogger sets the logger a World reports registry and queue activity to.
// Worlds log nothing by default.
func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// NewLogger builds a JSON logger writing to stderr, at debug level when debug
// is set and info level otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}
