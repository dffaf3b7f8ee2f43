// Package observe provides logging, metrics and tracing for tool calls.
//
// It is instrumentation only: the middleware wraps a tool.Func and records
// what happened. Authentication and rate-limit layers report their decisions
// through the Metrics and Logger interfaces defined here.
package observe
