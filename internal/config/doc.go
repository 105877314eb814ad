// Package config loads and validates the TOML configuration for slate.
//
// Configuration resolves from, in order: an explicit --config path, the
// default ~/.config/slate/config.toml, or a slate.toml in the working
// directory. Missing files fall back to Default(); all relative and ~ paths
// are expanded during load so downstream packages only ever see absolute
// paths.
package config
