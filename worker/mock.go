package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ZapoVerde/robosmith/credentials"
	"github.com/ZapoVerde/robosmith/payload"
)

// MockInvoker is an Invoker for tests and development. It returns scripted
// outcomes without calling any external service and records every
// invocation, including which credential was used, so tests can assert
// rotation and failover order.
type MockInvoker struct {
	mu       sync.Mutex
	script   []mockOutcome
	fallback string // signal returned once the script is exhausted
	calls    []MockCall
}

type mockOutcome struct {
	result *WorkResult
	err    error
}

// MockCall records one Invoke call.
type MockCall struct {
	CredentialID string
	Worker       string
	WorkingDir   string
	Segments     int
}

// NewMockInvoker creates a mock invoker. Until outcomes are scripted, every
// invocation echoes the request context back with the fallback signal.
func NewMockInvoker(fallbackSignal string) *MockInvoker {
	return &MockInvoker{fallback: fallbackSignal}
}

// ScriptResult queues a successful outcome.
func (m *MockInvoker) ScriptResult(result *WorkResult) *MockInvoker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockOutcome{result: result})
	return m
}

// ScriptSignal queues a successful outcome that appends one conversation
// segment and returns the given signal.
func (m *MockInvoker) ScriptSignal(signal, content string) *MockInvoker {
	return m.ScriptResult(&WorkResult{
		NewPayload: payload.Payload{Segments: []payload.Segment{
			payload.NewSegment(payload.TypeConversation, content, time.Now()),
		}},
		Signal: signal,
	})
}

// ScriptError queues a failure.
func (m *MockInvoker) ScriptError(err error) *MockInvoker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockOutcome{err: err})
	return m
}

// Invoke implements Invoker.
func (m *MockInvoker) Invoke(_ context.Context, cred credentials.Credential, req *WorkRequest) (*WorkResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{
		CredentialID: cred.ID,
		Worker:       req.Worker,
		WorkingDir:   req.WorkingDir,
		Segments:     len(req.Context),
	})

	if len(m.script) > 0 {
		outcome := m.script[0]
		m.script = m.script[1:]
		if outcome.err != nil {
			return nil, outcome.err
		}
		return outcome.result, nil
	}

	// Unscripted: carry the handed context forward unchanged.
	echo := payload.Payload{Segments: append([]payload.Segment(nil), req.Context...)}
	return &WorkResult{NewPayload: echo, Signal: m.fallback}, nil
}

// Calls returns the recorded invocations in order.
func (m *MockInvoker) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// CredentialIDs returns the credential id of each recorded invocation.
func (m *MockInvoker) CredentialIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.calls))
	for i, c := range m.calls {
		ids[i] = c.CredentialID
	}
	return ids
}
