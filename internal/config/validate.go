package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olehluchkiv/classdiag/internal/lang"
)

var (
	// ErrInvalidLanguage indicates an unsupported language selector
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidPort indicates a server port outside 1-65535
	ErrInvalidPort = errors.New("invalid server port")

	// ErrInvalidCacheSize indicates a non-positive response cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidBodyLimit indicates a non-positive request body limit
	ErrInvalidBodyLimit = errors.New("invalid body limit")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidDirection indicates an unknown diagram direction
	ErrInvalidDirection = errors.New("invalid diagram direction")

	// ErrInvalidNodeLimit indicates a negative max_nodes or slide_threshold
	ErrInvalidNodeLimit = errors.New("invalid node limit")
)

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	validDirections = map[string]bool{"": true, "TB": true, "TD": true, "BT": true, "LR": true, "RL": true}
)

// Validate checks that the configuration is valid and complete. All problems
// are reported at once; each can be matched with errors.Is.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Language != "" {
		if _, err := lang.Parse(cfg.Language); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLanguage, cfg.Language))
		}
	}

	if !validDirections[cfg.Diagram.Direction] {
		errs = append(errs, fmt.Errorf("%w: must be one of TB, TD, BT, LR, RL, got %q", ErrInvalidDirection, cfg.Diagram.Direction))
	}
	if cfg.Diagram.MaxNodes < 0 {
		errs = append(errs, fmt.Errorf("%w: max_nodes must not be negative, got %d", ErrInvalidNodeLimit, cfg.Diagram.MaxNodes))
	}
	if cfg.Diagram.SlideThreshold < 0 {
		errs = append(errs, fmt.Errorf("%w: slide_threshold must not be negative, got %d", ErrInvalidNodeLimit, cfg.Diagram.SlideThreshold))
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPort, cfg.Server.Port))
	}
	if cfg.Server.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.Server.CacheSize))
	}
	if cfg.Server.MaxBodyKB <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_body_kb must be positive, got %d", ErrInvalidBodyLimit, cfg.Server.MaxBodyKB))
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Errorf("%w: must be debug, info, warn or error, got %q", ErrInvalidLogLevel, cfg.Log.Level))
	}

	return errors.Join(errs...)
}
