// Package config handles configuration loading for mes-users.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from MES_USERS_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/mes-users/server.yaml
//  3. ~/.config/mes-users/server.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${MES_USERS_JWT_SECRET}"
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "24h"
//	viacep:
//	  timeout: "5s"
package config
