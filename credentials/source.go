package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoCredentials is returned when a source yields an empty credential set.
var ErrNoCredentials = errors.New("no credentials available")

// Source loads a credential set. It is consulted exactly once, at dispatcher
// initialization.
type Source interface {
	Load(ctx context.Context) ([]Credential, error)
}

// StaticSource returns a fixed credential set. Useful for tests and for
// callers that resolve credentials themselves.
type StaticSource []Credential

// Load returns the static set.
func (s StaticSource) Load(_ context.Context) ([]Credential, error) {
	if len(s) == 0 {
		return nil, ErrNoCredentials
	}
	return append([]Credential(nil), s...), nil
}

// EnvSource loads credentials from an environment variable holding
// comma-separated "id=secret" or "id=secret@provider" entries. The provider
// is split off at the LAST "@", so a secret containing "@" must carry an
// explicit provider suffix to parse correctly.
type EnvSource struct {
	// Var is the environment variable name. Defaults to ROBOSMITH_CREDENTIALS.
	Var string
}

// Load parses the environment variable.
func (s EnvSource) Load(_ context.Context) ([]Credential, error) {
	name := s.Var
	if name == "" {
		name = "ROBOSMITH_CREDENTIALS"
	}
	raw := os.Getenv(name)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoCredentials, name)
	}

	var creds []Credential
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, rest, ok := strings.Cut(entry, "=")
		if !ok || id == "" || rest == "" {
			return nil, fmt.Errorf("malformed credential entry %q in %s", entry, name)
		}
		secret, provider := rest, ""
		if i := strings.LastIndex(rest, "@"); i >= 0 {
			secret, provider = rest[:i], rest[i+1:]
		}
		if secret == "" {
			return nil, fmt.Errorf("malformed credential entry %q in %s", entry, name)
		}
		creds = append(creds, Credential{ID: id, Secret: secret, Provider: provider})
	}
	if len(creds) == 0 {
		return nil, fmt.Errorf("%w: %s holds no entries", ErrNoCredentials, name)
	}
	return creds, nil
}

// FileSource loads credentials from a JSON file holding an array of
// credential objects.
type FileSource struct {
	Path string
}

// Load reads and parses the file.
func (s FileSource) Load(_ context.Context) ([]Credential, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	var creds []Credential
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials file %s: %w", s.Path, err)
	}
	for i, c := range creds {
		if c.ID == "" || c.Secret == "" {
			return nil, fmt.Errorf("credentials file %s: entry %d is missing id or secret", s.Path, i)
		}
	}
	if len(creds) == 0 {
		return nil, fmt.Errorf("%w: %s holds no entries", ErrNoCredentials, s.Path)
	}
	return creds, nil
}
