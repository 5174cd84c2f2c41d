// Package config loads, normalizes, and validates cvattrack configuration.
//
// It supplies repository defaults (including the built-in product label
// catalog), expands user paths, reads TOML files, and honours environment
// fallbacks for the task owner identity. Always obtain settings through this
// package so exports receive a validated catalog and sanitized paths.
package config
