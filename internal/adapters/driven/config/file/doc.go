// Package file provides file-based implementations of the configuration ports.
//
// Adapters:
//   - SettingsStore: TOML or YAML settings, chosen by file extension
//   - SecretsLoader: API tokens from the environment and an optional KEY=VALUE file
//   - Watcher: reloads settings when the file changes (serve mode)
package file
