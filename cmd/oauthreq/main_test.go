package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/jrsteele09/go-oauth-request/internal/errors"
	"github.com/stretchr/testify/require"
)

func outputField(t *testing.T, output, name string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if value, ok := strings.CutPrefix(line, name+":"); ok {
			return strings.TrimSpace(value)
		}
	}
	t.Fatalf("field %q not found in output:\n%s", name, output)
	return ""
}

func TestRun(t *testing.T) {
	t.Setenv("SNAPSHOT_STORE", "memory")
	t.Setenv("LOG_LEVEL", "error")

	t.Run("inspect resolves implicit grant", func(t *testing.T) {
		var out, errOut bytes.Buffer
		err := run([]string{"inspect", "-q", "client_id=theClient", "response_type=token", "scope=write read"}, &out, &errOut)
		require.NoError(t, err)

		require.Equal(t, "theClient", outputField(t, out.String(), "client_id"))
		require.Equal(t, "implicit", outputField(t, out.String(), "grant_type"))
		require.Equal(t, "read write", outputField(t, out.String(), "scopes"))
		require.True(t, strings.HasPrefix(outputField(t, out.String(), "key"), "oauth_request:"))
		require.Empty(t, errOut.String())
	})

	t.Run("inspect then decode", func(t *testing.T) {
		var out bytes.Buffer
		err := run([]string{"inspect", "-q", "--approved", "client_id=theClient&grant_type=password"}, &out, &bytes.Buffer{})
		require.NoError(t, err)
		snapshot := outputField(t, out.String(), "snapshot")

		var decoded bytes.Buffer
		err = run([]string{"decode", "-q", snapshot}, &decoded, &bytes.Buffer{})
		require.NoError(t, err)
		require.Equal(t, "password", outputField(t, decoded.String(), "grant_type"))
		require.Equal(t, "true", outputField(t, decoded.String(), "approved"))
	})

	t.Run("memory store refuses record and load", func(t *testing.T) {
		err := run([]string{"inspect", "-q", "--record", "client_id=theClient"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.ErrorIs(t, err, errMemoryStore)

		err = run([]string{"load", "-q", "oauth_request:0000000000000000"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.ErrorIs(t, err, errMemoryStore)
	})

	t.Run("record then load with bolt store", func(t *testing.T) {
		t.Setenv("SNAPSHOT_STORE", "bolt")
		t.Setenv("SNAPSHOT_BOLT_PATH", filepath.Join(t.TempDir(), "snapshots.db"))

		var recorded bytes.Buffer
		err := run([]string{"inspect", "-q", "--record", "client_id=theClient", "grant_type=password", "scope=read"}, &recorded, &bytes.Buffer{})
		require.NoError(t, err)
		require.NotEmpty(t, outputField(t, recorded.String(), "recorded"))
		key := outputField(t, recorded.String(), "key")

		var loaded bytes.Buffer
		err = run([]string{"load", "-q", key}, &loaded, &bytes.Buffer{})
		require.NoError(t, err)
		require.Equal(t, "theClient", outputField(t, loaded.String(), "client_id"))
		require.Equal(t, "password", outputField(t, loaded.String(), "grant_type"))
		require.Equal(t, "read", outputField(t, loaded.String(), "scopes"))

		err = run([]string{"load", "-q", "oauth_request:0000000000000000"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("banner is written to stderr", func(t *testing.T) {
		var out, errOut bytes.Buffer
		err := run([]string{"inspect", "client_id=theClient"}, &out, &errOut)
		require.NoError(t, err)
		require.NotEmpty(t, errOut.String())
		require.NotContains(t, out.String(), errOut.String())
	})

	t.Run("token strips credentials", func(t *testing.T) {
		var out bytes.Buffer
		err := run([]string{
			"token", "-q",
			"--client-scope", "read,write",
			"--authority", "ROLE_CLIENT",
			"client_id=theClient", "grant_type=password", "username=bob", "password=secret",
		}, &out, &bytes.Buffer{})
		require.NoError(t, err)
		require.Equal(t, "password", outputField(t, out.String(), "grant_type"))
		require.Equal(t, "true", outputField(t, out.String(), "approved"))
		require.Equal(t, "read write", outputField(t, out.String(), "scopes"))
		require.Equal(t, "ROLE_CLIENT", outputField(t, out.String(), "authorities"))
	})

	t.Run("token for another client", func(t *testing.T) {
		err := run([]string{"token", "-q", "--client-id", "other", "client_id=theClient", "grant_type=client_credentials"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("missing client id", func(t *testing.T) {
		err := run([]string{"inspect", "-q", "response_type=token"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("decode rejects bad input", func(t *testing.T) {
		err := run([]string{"decode", "-q", "%%%"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)

		err = run([]string{"decode", "-q", "bm90IGEgc25hcHNob3Q="}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("unknown store", func(t *testing.T) {
		t.Setenv("SNAPSHOT_STORE", "disk")
		err := run([]string{"load", "-q", "k"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
	})
}

func TestParseParameters(t *testing.T) {
	params, err := parseParameters([]string{"client_id=a", "scope=read+write&state=xyz", "client_id=b", "flag"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"client_id": "a",
		"scope":     "read write",
		"state":     "xyz",
		"flag":      "",
	}, params)

	_, err = parseParameters([]string{"bad=%zz"})
	require.Error(t, err)
}
