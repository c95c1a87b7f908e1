// Package config provides centralized configuration management for the
// analytics service. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern GAMELENS_* for namespacing:
//
//	GAMELENS_SERVER_PORT=8080
//	GAMELENS_DATASET_DIR=/var/lib/gamelens/games
//	GAMELENS_LOGGING_LEVEL=info
//	GAMELENS_SECURITY_RATE_LIMIT_RPS=100
//
// # Configuration File
//
// A config.yaml (or configs/config.yaml) file is merged beneath the
// environment, so deployments can check in a base file and override
// per-environment values through the environment.
package config
