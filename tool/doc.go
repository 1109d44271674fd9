// Package tool defines the contracts between the resilience layer and the
// pluggable tools it protects.
//
// A tool is a capability (web search, plan management, ...) invoked by an
// upstream agent through the uniform Plugin interface. Plugins declare their
// admission and caching behavior via Meta; the executor package enforces it.
//
// The package also defines the error taxonomy shared by every stage of the
// execution pipeline, and a Registry contract with an in-memory
// implementation that validates plugin configuration at registration time.
package tool
