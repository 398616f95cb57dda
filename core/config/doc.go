// Package config assembles the gateway configuration with Viper.
//
// Sources, lowest precedence first:
//
//   - the `default` struct tag of every field
//   - an optional gateway.yaml (or .json, .toml) in the config directory
//   - a .env file, loaded by godotenv without overriding set variables
//   - the process environment
//
// Env var names follow the key path: storage.connection_string is
// STORAGE_CONNECTION_STRING.
package config
