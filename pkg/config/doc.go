// Package config handles server-side configuration loading from a YAML file
// overlaid by environment variables, default resolution for the registry,
// mail transport and audit settings, and file watching for hot reload.
package config
