// Package credentials models the interchangeable worker credentials the
// dispatcher rotates through, and the sources they are loaded from.
package credentials

import (
	"context"
	"net/http"
	"strings"
)

// Credential is a single entry in the dispatcher's pool. The dispatcher
// treats credentials as read-only; only transient cooldown bookkeeping is
// kept about them, and never on them.
type Credential struct {
	ID       string `json:"id"`
	Secret   string `json:"secret"`
	Provider string `json:"provider"`
}

// ApplyOption configures how a credential is applied to a request.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	headerName string
	prefix     string
}

// WithHeaderName overrides the header the secret is written to.
func WithHeaderName(name string) ApplyOption {
	return func(c *applyConfig) {
		c.headerName = name
	}
}

// WithPrefix overrides the value prefix (default "Bearer ").
func WithPrefix(prefix string) ApplyOption {
	return func(c *applyConfig) {
		c.prefix = prefix
	}
}

// Apply adds the credential to an HTTP request. By default it sets
// "Authorization: Bearer <secret>".
func (c Credential) Apply(_ context.Context, req *http.Request, opts ...ApplyOption) error {
	cfg := applyConfig{headerName: "Authorization", prefix: "Bearer "}
	for _, opt := range opts {
		opt(&cfg)
	}
	if c.Secret != "" {
		req.Header.Set(cfg.headerName, cfg.prefix+c.Secret)
	}
	return nil
}

// Redacted returns a loggable form of the secret: the first four characters
// followed by "...". Secrets shorter than eight characters redact entirely.
func (c Credential) Redacted() string {
	if len(c.Secret) < 8 {
		return "[REDACTED]"
	}
	return c.Secret[:4] + "..."
}

// String renders the credential without its secret.
func (c Credential) String() string {
	var b strings.Builder
	b.WriteString(c.ID)
	if c.Provider != "" {
		b.WriteString(" (" + c.Provider + ")")
	}
	return b.String()
}
