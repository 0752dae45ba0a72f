package logger

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// Context keys for run-scoped logging fields. Values stored under these
// keys are extracted automatically by the ContextHandler and added to every
// log record emitted with that context.
const (
	// ContextKeyRunID identifies the workflow run.
	ContextKeyRunID contextKey = "run_id"

	// ContextKeyBlockID identifies the block currently executing.
	ContextKeyBlockID contextKey = "block_id"

	// ContextKeyWorker identifies the worker capability being dispatched.
	ContextKeyWorker contextKey = "worker"

	// ContextKeyCredentialID identifies the credential in use. Only the
	// credential id is ever stored here, never the secret.
	ContextKeyCredentialID contextKey = "credential_id"

	// ContextKeyWorkingDir identifies the run's isolated working directory.
	ContextKeyWorkingDir contextKey = "working_dir"
)

// allContextKeys lists every key the handler extracts.
var allContextKeys = []contextKey{
	ContextKeyRunID,
	ContextKeyBlockID,
	ContextKeyWorker,
	ContextKeyCredentialID,
	ContextKeyWorkingDir,
}

// WithRunID returns a new context carrying the run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// WithBlockID returns a new context carrying the current block id.
func WithBlockID(ctx context.Context, blockID string) context.Context {
	return context.WithValue(ctx, ContextKeyBlockID, blockID)
}

// WithWorker returns a new context carrying the worker identifier.
func WithWorker(ctx context.Context, worker string) context.Context {
	return context.WithValue(ctx, ContextKeyWorker, worker)
}

// WithCredentialID returns a new context carrying the credential id.
func WithCredentialID(ctx context.Context, credentialID string) context.Context {
	return context.WithValue(ctx, ContextKeyCredentialID, credentialID)
}

// WithWorkingDir returns a new context carrying the working directory.
func WithWorkingDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, ContextKeyWorkingDir, dir)
}
