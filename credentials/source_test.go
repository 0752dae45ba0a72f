package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	src := StaticSource{
		{ID: "a", Secret: "s1"},
		{ID: "b", Secret: "s2"},
	}

	creds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, creds, 2)

	// The returned slice is a copy.
	creds[0].ID = "mutated"
	assert.Equal(t, "a", src[0].ID)
}

func TestStaticSourceEmpty(t *testing.T) {
	_, err := StaticSource{}.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestEnvSource(t *testing.T) {
	t.Setenv("ROBOSMITH_CREDENTIALS", "key1=sk-one@openai, key2=sk-two")

	creds, err := EnvSource{}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, Credential{ID: "key1", Secret: "sk-one", Provider: "openai"}, creds[0])
	assert.Equal(t, Credential{ID: "key2", Secret: "sk-two"}, creds[1])
}

func TestEnvSourceSecretContainingAt(t *testing.T) {
	// The provider splits off at the last "@", so a secret with "@" in it
	// survives as long as the entry carries an explicit provider.
	t.Setenv("ROBOSMITH_CREDENTIALS", "key1=p@ssw@rd@openai")

	creds, err := EnvSource{}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, Credential{ID: "key1", Secret: "p@ssw@rd", Provider: "openai"}, creds[0])
}

func TestEnvSourceEmptySecret(t *testing.T) {
	t.Setenv("ROBOSMITH_CREDENTIALS", "key1=@openai")
	_, err := EnvSource{}.Load(context.Background())
	assert.ErrorContains(t, err, "malformed credential entry")
}

func TestEnvSourceCustomVar(t *testing.T) {
	t.Setenv("WORKER_KEYS", "k=v")

	creds, err := EnvSource{Var: "WORKER_KEYS"}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, creds, 1)
}

func TestEnvSourceErrors(t *testing.T) {
	t.Setenv("ROBOSMITH_CREDENTIALS", "")
	_, err := EnvSource{}.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)

	t.Setenv("ROBOSMITH_CREDENTIALS", "nosecret")
	_, err = EnvSource{}.Load(context.Background())
	assert.ErrorContains(t, err, "malformed credential entry")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	content := `[
		{"id": "a", "secret": "s1", "provider": "openai"},
		{"id": "b", "secret": "s2"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	creds, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, "openai", creds[0].Provider)
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := FileSource{Path: filepath.Join(dir, "absent.json")}.Load(context.Background())
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id": "a"}]`), 0o600))
	_, err = FileSource{Path: bad}.Load(context.Background())
	assert.ErrorContains(t, err, "missing id or secret")

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	_, err = FileSource{Path: empty}.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}
