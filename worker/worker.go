// Package worker defines the boundary to the external generation workers:
// the request/result shapes, the invocation interface, and the error
// taxonomy the dispatcher's failover classification relies on.
package worker

import (
	"context"

	"github.com/ZapoVerde/robosmith/credentials"
	"github.com/ZapoVerde/robosmith/payload"
)

// WorkRequest is one logical unit of work handed to a worker.
type WorkRequest struct {
	// Worker identifies the capability the manifest block named.
	Worker string `json:"worker"`
	// Context is the assembled outbound context, in order.
	Context []payload.Segment `json:"context"`
	// WorkingDir is the isolated working directory for this run. The
	// engine treats it as opaque.
	WorkingDir string `json:"working_dir"`
}

// WorkResult is a worker's response to a WorkRequest.
type WorkResult struct {
	// NewPayload replaces the run's payload wholesale. Workers may append
	// to or amend the history they were handed, never truncate it.
	NewPayload payload.Payload `json:"new_payload"`
	// Signal is the outcome keyword the engine matches against the
	// block's transitions.
	Signal string `json:"signal"`
}

// Invoker performs the actual generation call for one credential. Errors
// must carry enough information for the dispatcher to classify them as
// retryable or not; the sentinel errors and APIError in this package do.
type Invoker interface {
	Invoke(ctx context.Context, cred credentials.Credential, req *WorkRequest) (*WorkResult, error)
}
