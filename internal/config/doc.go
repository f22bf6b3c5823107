// Package config loads git-pr-mcp settings.
//
// Values come from built-in defaults, then an optional TOML file, then
// GITPR_* environment variables. Command-line flags are applied last by the
// caller.
package config
