// Package file provides the file-based implementation of the config
// store driven port. Configuration is persisted as TOML under the tool's
// config directory.
package file
