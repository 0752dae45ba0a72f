package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZapoVerde/robosmith/credentials"
)

const defaultHTTPTimeout = 5 * time.Minute

// HTTPInvoker invokes a worker service over HTTP: it POSTs the WorkRequest
// as JSON to <baseURL>/v1/work and decodes the WorkResult. Non-2xx responses
// are classified into the package error taxonomy via APIError.
type HTTPInvoker struct {
	baseURL    string
	client     *http.Client
	applyOpts  []credentials.ApplyOption
	workerPath string
}

// HTTPOption configures an HTTPInvoker.
type HTTPOption func(*HTTPInvoker)

// WithHTTPClient overrides the HTTP client (and with it the timeout).
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(i *HTTPInvoker) {
		i.client = client
	}
}

// WithApplyOptions overrides how credentials are applied to requests.
func WithApplyOptions(opts ...credentials.ApplyOption) HTTPOption {
	return func(i *HTTPInvoker) {
		i.applyOpts = opts
	}
}

// WithPath overrides the request path (default "/v1/work").
func WithPath(path string) HTTPOption {
	return func(i *HTTPInvoker) {
		i.workerPath = path
	}
}

// NewHTTPInvoker creates an invoker for the worker service at baseURL.
func NewHTTPInvoker(baseURL string, opts ...HTTPOption) *HTTPInvoker {
	inv := &HTTPInvoker{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: defaultHTTPTimeout},
		workerPath: "/v1/work",
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke implements Invoker.
func (i *HTTPInvoker) Invoke(ctx context.Context, cred credentials.Credential, req *WorkRequest) (*WorkResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode work request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+i.workerPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build work request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if err := cred.Apply(ctx, httpReq, i.applyOpts...); err != nil {
		return nil, fmt.Errorf("apply credential: %w", err)
	}

	resp, err := i.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("invoke worker %s: %w", req.Worker, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read worker response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseHTTPError(resp.StatusCode, raw)
	}

	var result WorkResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode work result: %w", err)
	}
	if result.Signal == "" {
		return nil, fmt.Errorf("%w: worker %s returned no signal", ErrInvalidRequest, req.Worker)
	}
	return &result, nil
}

// parseHTTPError extracts the upstream message from {"message":"..."}
// bodies, falling back to the raw body.
func parseHTTPError(statusCode int, body []byte) error {
	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{Code: statusCode, Message: errResp.Message}
	}
	return &APIError{Code: statusCode, Message: string(body)}
}
