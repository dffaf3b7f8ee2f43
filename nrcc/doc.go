// Package nrcc queries the NRCC hazardous chemical registration database.
//
// Client posts the two JSON requests the public web UI uses, list search by
// name and CAS number and detail lookup by record id, and returns the decoded
// response Document. Every failure (transport, non-2xx status, undecodable
// body, timeout) is reported as an error matching ErrNoData; callers turn it
// into a "no results" answer rather than a tool failure.
//
// FormatList and FormatDetail render documents as the labelled text returned
// to MCP clients.
package nrcc
