// Package mcpserver exposes the NRCC search operations as MCP tools.
//
// Each tool is assembled once at startup as
//
//	observe(RateLimit(Auth(operation)))
//
// so a call is traced and counted, then checked against its quota, then
// authenticated, and only then reaches the upstream database. The tools are
// registered on an mcp-go server served over streamable HTTP at /mcp, next to
// the health probes and the Prometheus scrape endpoint.
package mcpserver
