// Package lifecycle holds shared timeouts for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start/stop hooks and graceful shutdown sequences.
const DefaultTimeout = 15 * time.Second
