// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > environment
// variables > YAML config > defaults. It covers the HTTP server, rate limiting,
// logging, the awl setting of the allocator and batch limits.
package config
