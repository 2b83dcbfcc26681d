// Package driving defines the inbound ports: the service interfaces the
// CLI adapter invokes to run each pipeline stage.
package driving
