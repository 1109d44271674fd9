// Package executor orchestrates guarded tool execution for a chat
// application: per-tool admission control, circuit breaking, result caching,
// and execution timeouts composed into one pipeline.
//
// One invocation flows through the stages in a fixed order. A cache hit
// returns immediately and bypasses the breaker and the limiter, so cached
// reads stay available while a tool is rate limited or its circuit is open.
// A miss must pass the circuit breaker, then admission control, then
// parameter validation, and finally runs the plugin under a deadline.
// Successful results are cached; failures and timeouts count against the
// tool's circuit.
//
// Every failure surfaces as a structured tool.Error inside the returned
// tool.Result, never as a panic or a raw transport error. The Executor keeps
// per-tool state only; tools never affect each other's admission or circuit.
//
// Basic usage:
//
//	exec, err := executor.New(executor.Config{Registry: reg})
//	if err != nil { ... }
//	res := exec.Execute(ctx, "web_search", params, tool.Context{UserID: uid})
//	if !res.Success {
//	    // res.Err.Code classifies the failure, res.Err.RetryAfter hints retry
//	}
package executor
