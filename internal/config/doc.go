// Package config loads runtime configuration from multiple sources (YAML or TOML files,
// a .env file, environment variables, CLI flags) with precedence: CLI flags > Environment
// variables > Config file > Defaults. It exposes strongly typed settings to the rest of
// the application.
package config
