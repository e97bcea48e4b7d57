// Package config models the global configuration as an explicit value that is
// loaded once at initialization and passed into every operation, never read
// from ambient state. The admin-adjustable subset is persisted alongside the
// data it governs so adjustments commit atomically with the adjusting call.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Default limits. These mirror the bounds the network launched with and apply
// wherever the config file leaves a value unset.
const (
	DefaultMaxCost             = 5000000
	DefaultMaxPublicMessageLen = 280
	DefaultMaxContentsTextLen  = 1024
	DefaultMaxExternalRefLen   = 128
	DefaultMaxPassphraseLen    = 64
	DefaultMaxHandleLen        = 64
	DefaultMaxDescriptionLen   = 280
	DefaultMaxCommentLen       = 280
	DefaultMaxThumbnailSize    = 65536
	DefaultMaxPageSize         = 10
)

// ErrInvalidLimit is returned when a configured bound is out of range.
var ErrInvalidLimit = errors.New("invalid limit")

// Limits is the admin-adjustable bound set. Every string/byte length is in
// bytes; MaxCost is in base currency units; MaxPageSize caps pagination.
type Limits struct {
	MaxCost             uint64 `yaml:"max_cost" json:"max_cost"`
	MaxPublicMessageLen int    `yaml:"max_public_message_len" json:"max_public_message_len"`
	MaxContentsTextLen  int    `yaml:"max_contents_text_len" json:"max_contents_text_len"`
	MaxExternalRefLen   int    `yaml:"max_external_ref_len" json:"max_external_ref_len"`
	MaxPassphraseLen    int    `yaml:"max_passphrase_len" json:"max_passphrase_len"`
	MaxHandleLen        int    `yaml:"max_handle_len" json:"max_handle_len"`
	MaxDescriptionLen   int    `yaml:"max_description_len" json:"max_description_len"`
	MaxCommentLen       int    `yaml:"max_comment_len" json:"max_comment_len"`
	MaxThumbnailSize    int    `yaml:"max_thumbnail_size" json:"max_thumbnail_size"`
	MaxPageSize         uint32 `yaml:"max_page_size" json:"max_page_size"`
}

// DefaultLimits returns the launch bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxCost:             DefaultMaxCost,
		MaxPublicMessageLen: DefaultMaxPublicMessageLen,
		MaxContentsTextLen:  DefaultMaxContentsTextLen,
		MaxExternalRefLen:   DefaultMaxExternalRefLen,
		MaxPassphraseLen:    DefaultMaxPassphraseLen,
		MaxHandleLen:        DefaultMaxHandleLen,
		MaxDescriptionLen:   DefaultMaxDescriptionLen,
		MaxCommentLen:       DefaultMaxCommentLen,
		MaxThumbnailSize:    DefaultMaxThumbnailSize,
		MaxPageSize:         DefaultMaxPageSize,
	}
}

// Validate rejects non-positive bounds. A handle limit below 8 is rejected so
// handles stay usable as public names.
func (l Limits) Validate() error {
	if l.MaxCost == 0 {
		return fmt.Errorf("%w: max_cost must be positive", ErrInvalidLimit)
	}
	if l.MaxHandleLen < 8 {
		return fmt.Errorf("%w: max_handle_len must be at least 8", ErrInvalidLimit)
	}
	for name, v := range map[string]int{
		"max_public_message_len": l.MaxPublicMessageLen,
		"max_contents_text_len":  l.MaxContentsTextLen,
		"max_external_ref_len":   l.MaxExternalRefLen,
		"max_passphrase_len":     l.MaxPassphraseLen,
		"max_description_len":    l.MaxDescriptionLen,
		"max_comment_len":        l.MaxCommentLen,
		"max_thumbnail_size":     l.MaxThumbnailSize,
	} {
		if v < 1 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidLimit, name)
		}
	}
	if l.MaxPageSize < 1 {
		return fmt.Errorf("%w: max_page_size must be positive", ErrInvalidLimit)
	}
	return nil
}

// ClampPageSize bounds a caller-supplied page size so no query can ask for an
// unbounded response. Zero falls back to the maximum.
func (l Limits) ClampPageSize(requested uint32) uint32 {
	if requested == 0 || requested > l.MaxPageSize {
		return l.MaxPageSize
	}
	return requested
}

// Config is the full initialization-time configuration.
type Config struct {
	// Admin is the owner identity allowed to run administrative operations.
	Admin string `yaml:"admin"`

	// Seed is the process-wide randomness seed for viewing-key derivation.
	// It is digested before use and the raw value is never persisted.
	Seed string `yaml:"seed"`

	Limits Limits `yaml:"limits"`
}

// Default returns a Config with default limits and no admin or seed; both
// must be supplied by the deployment.
func Default() Config {
	return Config{Limits: DefaultLimits()}
}

// Load reads a YAML config file over the defaults. A missing file is an
// error; an empty file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration.
func (c Config) Validate() error {
	if c.Admin == "" {
		return fmt.Errorf("%w: admin identity is required", ErrInvalidLimit)
	}
	if c.Seed == "" {
		return fmt.Errorf("%w: randomness seed is required", ErrInvalidLimit)
	}
	return c.Limits.Validate()
}
