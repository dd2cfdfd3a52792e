package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging. Use these consistently across
// all log statements so aggregated logs stay queryable.
const (
	// Request correlation
	KeyRequestID = "request_id" // HTTP request ID for correlation
	KeyRemoteIP  = "remote_ip"  // Client IP address (without port)

	// Cluster objects
	KeyCluster  = "cluster"  // Cluster name ("" means local)
	KeyNode     = "node"     // Node name
	KeyResource = "resource" // Resource name
	KeyGroup    = "group"    // Group name
	KeyVolume   = "volume"   // CSV friendly name or volume GUID path

	// Operations
	KeyOp       = "op"     // Native operation name: OpenClusterNode, ...
	KeyState    = "state"  // Observed object state
	KeyOwner    = "owner"  // Owner node of a resource or group
	KeyStatus   = "status" // Raw Win32 status code
	KeyTarget   = "target" // Destination node for a group move
	KeyCount    = "count"  // Generic cardinality
	KeyEnabled  = "enabled"
	KeyDuration = "duration_ms"

	// HTTP
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatusCode = "status_code"
	KeyBytes      = "bytes"

	// Process
	KeyComponent = "component" // Subsystem: api, metrics, cli, daemon
	KeyVersion   = "version"
	KeyAddr      = "addr"
	KeyError     = "error"
	KeySignal    = "signal"
)

// Err returns a slog attribute for an error, tolerating nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// Component returns a pre-bound logger for a subsystem.
func Component(name string) *slog.Logger {
	return With(KeyComponent, name)
}

// FormatStatus renders a Win32 status code the way the rest of the tooling
// prints it, decimal with a hex alternate.
func FormatStatus(status uint32) string {
	return fmt.Sprintf("%d (%#x)", status, status)
}
