// Package driven defines the outbound ports: interfaces the core
// services depend on, implemented by adapters (the survey API client,
// pipeline stages, file and run storage, configuration).
package driven
