// Package cmd implements the flatkv command line interface. The root
// command carries the shared configuration flags (document file, codec,
// read strictness, lock timeout, log level); the kv subcommand group maps
// the store operations onto the shell.
//
// Configuration follows the usual precedence: command line flags override
// environment variables (prefix FLATKV_, loaded from .env/.env.local via
// godotenv), which override the built-in defaults.
package cmd
