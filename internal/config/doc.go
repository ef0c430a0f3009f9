// Package config loads application configuration from environment
// variables (prefix TABIQ) merged with an optional YAML file.
// Environment values take precedence over the file; defaults cover the
// rest. The engine packages never read configuration directly.
package config
