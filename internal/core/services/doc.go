// Package services implements the driving ports: the fetch orchestrator
// and the transform pipeline stages. Services depend only on driven port
// interfaces, never on concrete adapters.
package services
