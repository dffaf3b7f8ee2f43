// Package health reports the state of the server's components.
//
// A Checker reports one component as Healthy, Degraded or Unhealthy. An
// Aggregator runs every registered checker concurrently under one deadline
// and folds the results into an overall status.
//
// Three probe endpoints are served from an Aggregator:
//
//	/healthz  liveness, always OK while the process serves HTTP
//	/readyz   readiness, 503 when any checker is unhealthy
//	/health   detailed JSON with per-checker status and details
//
// RateLimiterChecker and AuthChecker describe the call pipeline: tracked
// identifiers with their remaining quota, and whether authentication is
// enforced or bypassed.
package health
