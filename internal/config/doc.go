// Package config resolves formatter options from defaults, configuration
// files (tomlfmt.toml or .tomlfmt.yaml) and command-line overrides.
package config
