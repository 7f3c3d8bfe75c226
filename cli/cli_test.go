package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/goto/truora/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "log_level: error\n" +
		"credentials_file: " + filepath.Join(dir, "credentials.yaml") + "\n" +
		"encryption_secret_key: test-secret\n" +
		"credential:\n" +
		"  api_key: K\n" +
		"  base_url: " + baseURL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDescribe(t *testing.T) {
	configFile := writeConfig(t, "https://api.checks.truora.com/v1")

	t.Run("should print node description as json", func(t *testing.T) {
		out, err := execute(t, "describe", "node", "--format", "json", "-c", configFile)

		require.NoError(t, err)
		var node map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &node))
		assert.Equal(t, "truora", node["name"])
	})

	t.Run("should print credential json schema", func(t *testing.T) {
		out, err := execute(t, "describe", "credential", "--schema", "-c", configFile)

		require.NoError(t, err)
		assert.Contains(t, out, `"apiKey"`)
		assert.Contains(t, out, `"baseUrl"`)
	})

	t.Run("should reject unknown format", func(t *testing.T) {
		_, err := execute(t, "describe", "credential", "--format", "xml", "-c", configFile)

		assert.ErrorContains(t, err, "unsupported format")
	})
}

func TestCheckDryRun(t *testing.T) {
	configFile := writeConfig(t, "https://api.checks.truora.com/v1")

	out, err := execute(t, "check", "create", "--national-id", "123456789", "--force-creation=false", "--dry-run", "-c", configFile)

	require.NoError(t, err)
	var req struct {
		Method  string            `yaml:"method"`
		URL     string            `yaml:"url"`
		Headers map[string]string `yaml:"headers"`
		Body    []struct {
			Key   string `yaml:"key"`
			Value string `yaml:"value"`
		} `yaml:"body"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &req))
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/checks", req.URL)
	assert.Equal(t, "********", req.Headers["Truora-API-Key"])
	require.Len(t, req.Body, 5)
	assert.Equal(t, "national_id", req.Body[0].Key)
	assert.Equal(t, "force_creation", req.Body[4].Key)
	assert.Equal(t, "false", req.Body[4].Value)
}

func TestCheckGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checks/CHK123" || r.Header.Get("Truora-API-Key") != "K" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"check":{"check_id":"CHK123","status":"completed"}}`))
	}))
	defer server.Close()
	configFile := writeConfig(t, server.URL)

	out, err := execute(t, "check", "get", "CHK123", "-c", configFile)

	require.NoError(t, err)
	assert.Contains(t, out, `"status": "completed"`)
}

func TestCredential(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()
	configFile := writeConfig(t, server.URL)

	out, err := execute(t, "credential", "add", "production", "--api-key", "K", "--base-url", server.URL, "-c", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, `credential "production" added`)

	out, err = execute(t, "credential", "list", "-c", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "production")
	assert.NotContains(t, out, " K ")

	out, err = execute(t, "credential", "test", "production", "-c", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	status.Store(http.StatusUnauthorized)
	_, err = execute(t, "credential", "test", "production", "-c", configFile)
	assert.ErrorContains(t, err, "invalid credentials")

	_, err = execute(t, "credential", "add", "revoked", "--api-key", "K", "--base-url", server.URL, "-c", configFile)
	assert.ErrorContains(t, err, "credential test failed")

	out, err = execute(t, "credential", "update", "production", "--base-url", server.URL+"/v2", "-c", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, `credential "production" updated`)

	_, err = execute(t, "credential", "delete", "production", "-c", configFile)
	require.NoError(t, err)
}
