// Package config loads and merges chorus configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CHORUS_MAX_TOKENS, CHORUS_LOG_LEVEL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/chorus/config.yaml, or CHORUS_CONFIG)
//  4. Built-in defaults
//
// Provider API keys are never stored in the config file. [LoadCredentials]
// reads them from the environment once at startup, after loading an
// optional dotenv file.
package config
