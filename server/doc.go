// Package server exposes the sampler control commands as MCP tools.
//
// Three tools are registered: sampler-get reads a parameter, sampler-set
// writes one, and sampler-list enumerates everything currently discoverable.
// The completions capability serves live name suggestions for the tools'
// "name" argument, and the logging capability maps client log-level requests
// onto the process slog level.
//
// Domain failures (missing argument, wrong type, unknown parameter,
// non-finite value) surface as isError tool results carrying the typed error
// message; transport and snapshot failures propagate as protocol errors.
package server
