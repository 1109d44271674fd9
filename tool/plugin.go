package tool

import (
	"context"
	"time"
)

// Plugin is the contract every tool must satisfy.
//
// Contract:
// - Concurrency: Execute may be called concurrently; implementations must be safe.
// - Context: Execute must honor cancellation/deadlines. A cancelled wait does
//   not forcibly terminate plugin-internal work; that is the plugin's job.
// - Errors: Execute returns an error for failure; it must not panic.
type Plugin interface {
	// Meta returns the plugin's static metadata and configuration.
	Meta() Meta

	// Execute runs the tool with the given parameters.
	Execute(ctx context.Context, params map[string]any, tc Context) (any, error)
}

// Validator is an optional interface for plugins that validate parameters
// before execution. A validation failure counts against tool health.
type Validator interface {
	// Validate checks the parameters. A nil return means valid.
	Validate(params map[string]any) *Validation
}

// Meta describes a plugin's identity and configuration.
type Meta struct {
	// Name is the unique tool name. Required.
	Name string

	// Description is a human-readable summary.
	Description string

	// Enabled gates execution. Disabled tools fail immediately.
	Enabled bool

	// RateLimit configures admission control. Nil means unlimited.
	RateLimit *RateLimitConfig

	// Cache configures result caching. Nil means no caching.
	Cache *CacheConfig

	// Tags are free-form labels for discovery and telemetry.
	Tags []string
}

// RateLimitConfig configures per-tool admission control.
type RateLimitConfig struct {
	// MaxConcurrent is the concurrency ceiling. 0 means unlimited.
	MaxConcurrent int

	// MaxPerMinute is the sliding-window call-rate ceiling. 0 means unlimited.
	MaxPerMinute int

	// Timeout is the execution budget for one call. It also arms the
	// limiter's failsafe auto-release. 0 uses the executor default.
	Timeout time.Duration
}

// Context carries per-invocation caller information. It is used for cache-key
// scoping and passed through to the plugin unchanged.
type Context struct {
	// UserID identifies the calling user. Used by KeyByUser caching.
	UserID string

	// SessionID identifies the chat session, if any.
	SessionID string

	// Metadata carries arbitrary caller metadata.
	Metadata map[string]string
}

// Validation is the outcome of parameter validation.
type Validation struct {
	// Valid is true when the parameters are acceptable.
	Valid bool

	// Errors lists the reasons validation failed.
	Errors []string
}

// Invalid builds a failed Validation from the given reasons.
func Invalid(reasons ...string) *Validation {
	return &Validation{Valid: false, Errors: reasons}
}

// Result is the uniform outcome of one tool invocation.
type Result struct {
	// Success is true when the invocation produced data.
	Success bool

	// Data is the plugin's return value, or the cached copy on a hit.
	Data any

	// Err describes the failure when Success is false.
	Err *Error

	// Duration is wall-clock time spent in the pipeline.
	Duration time.Duration

	// FromCache is true when Data was served from the cache.
	FromCache bool

	// Degraded is true when Data is a stale cache entry served through an
	// outage rather than a live result.
	Degraded bool
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Success
}
