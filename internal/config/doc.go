// Package config loads CLI configuration from a JSON file with
// PILLARBOX_* environment overrides layered on top of OS-appropriate
// defaults. The library itself takes its configuration as values; this
// package only serves the command line tool.
package config
