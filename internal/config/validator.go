package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config key, e.g. "timing.settle_delay"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidBackends returns the supported store backends.
func ValidBackends() []string {
	return []string{"file", "memory", "redis", "sqlite"}
}

// ValidLogLevels returns the accepted log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "warning", "error"}
}

// Validate checks the Config and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	positive := func(field string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, ValidationError{Field: field, Value: d, Message: "must be positive"})
		}
	}
	positive("timing.resolve_timeout", c.Timing.ResolveTimeout)
	positive("timing.settle_delay", c.Timing.SettleDelay)
	positive("timing.revert_delay", c.Timing.RevertDelay)
	positive("timing.debounce_interval", c.Timing.DebounceInterval)
	positive("timing.action_timeout", c.Timing.ActionTimeout)

	if c.Timing.SettleDelay >= c.Timing.ResolveTimeout && c.Timing.ResolveTimeout > 0 {
		errs = append(errs, ValidationError{
			Field:   "timing.settle_delay",
			Value:   c.Timing.SettleDelay,
			Message: fmt.Sprintf("must be shorter than timing.resolve_timeout (%s)", c.Timing.ResolveTimeout),
		})
	}

	if !slices.Contains(ValidBackends(), c.Store.Backend) {
		errs = append(errs, ValidationError{
			Field:   "store.backend",
			Value:   c.Store.Backend,
			Message: "must be one of " + strings.Join(ValidBackends(), ", "),
		})
	}
	if (c.Store.Backend == "file" || c.Store.Backend == "sqlite") && c.Store.Path == "" {
		errs = append(errs, ValidationError{Field: "store.path", Value: c.Store.Path, Message: "required for " + c.Store.Backend + " backend"})
	}
	if c.Store.Backend == "redis" {
		if c.Store.Redis.Addr == "" {
			errs = append(errs, ValidationError{Field: "store.redis.addr", Value: c.Store.Redis.Addr, Message: "required for redis backend"})
		}
		if c.Store.Redis.DB < 0 {
			errs = append(errs, ValidationError{Field: "store.redis.db", Value: c.Store.Redis.DB, Message: "must not be negative"})
		}
		if c.Store.Redis.TTL < 0 {
			errs = append(errs, ValidationError{Field: "store.redis.ttl", Value: c.Store.Redis.TTL, Message: "must not be negative"})
		}
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: "must be one of debug, info, warn, error",
		})
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, ValidationError{Field: "http.addr", Value: c.HTTP.Addr, Message: "must not be empty"})
	}
	return errs
}
