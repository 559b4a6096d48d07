package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultUploadURL, cfg.Endpoints.UploadURL)
	assert.Equal(t, DefaultUpdateURLTemplate, cfg.Endpoints.UpdateURLTemplate)
	assert.Equal(t, 5, cfg.Dispatch.Workers)
	assert.Zero(t, cfg.Dispatch.RequestsPerSecond)
	assert.Equal(t, 60*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
}

func TestParseMainConfig(t *testing.T) {
	content := []byte(`
endpoints:
  upload_url: https://example.test/order/
  update_url_template: https://example.test/order/{id}/line-item-update
dispatch:
  workers: 8
  requests_per_second: 2.5
http:
  timeout: 15s
log:
  level: debug
  format: json
csv:
  delimiter: ";"
`)

	cfg, err := ParseMainConfig(content)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/order/", cfg.Endpoints.UploadURL)
	assert.Equal(t, 8, cfg.Dispatch.Workers)
	assert.Equal(t, 2.5, cfg.Dispatch.RequestsPerSecond)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
}

func TestParseMainConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "template without placeholder",
			content: "endpoints:\n  update_url_template: https://example.test/order/line-item-update\n",
			wantErr: "must contain {id}",
		},
		{
			name:    "relative upload url",
			content: "endpoints:\n  upload_url: not a url\n",
			wantErr: "endpoints.upload_url",
		},
		{
			name:    "negative workers",
			content: "dispatch:\n  workers: -1\n",
			wantErr: "dispatch.workers must be at least 1",
		},
		{
			name:    "negative rate",
			content: "dispatch:\n  requests_per_second: -1\n",
			wantErr: "requests_per_second",
		},
		{
			name:    "malformed yaml",
			content: "endpoints: [",
			wantErr: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMainConfig([]byte(tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadMainConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dispatch:\n  workers: 3\n"), 0o600))

		cfg, err := LoadMainConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Dispatch.Workers)
		assert.Equal(t, DefaultUploadURL, cfg.Endpoints.UploadURL)
	})
}
