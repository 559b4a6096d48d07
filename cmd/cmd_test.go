package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleUpdates = `DO NO,MATERIAL,DO ITEM,MATERIAL DESCRIPTION,KODE KARUNG,QTY KEMASAN,KG KEMASAN
8001,A1,3,Sack A,K1,10,500
8002,B2,4,Sack B,K2,1,25
`

const sampleOrders = `DO Number,Document Date,Plant,Ship To,Material,Material Description,Qty Kemasan,Qty SO in SU,Qty SO in BU
DO1,05.03.2024,P100,C900,M1,Feed A,4,2,10
DO2,06.03.2024,P200,C901,M3,Feed C,1,1,2
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		uploadFile, uploadDryRun, uploadReportDir = "", false, ""
		updateFile, updateWorkers, updateDryRun, updateReportDir = "", 0, false, ""
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// apiConfig writes a config file pointing both endpoints at serverURL.
func apiConfig(t *testing.T, serverURL string) string {
	t.Helper()
	return writeFile(t, "config.yaml", fmt.Sprintf(`endpoints:
  upload_url: %[1]s/order/
  update_url_template: %[1]s/order/{id}/line-item-update
log:
  level: error
`, serverURL))
}

func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.yaml")
}

func setCredentials(t *testing.T, username, password string) {
	t.Setenv("LOCUS_USERNAME", username)
	t.Setenv("LOCUS_PASSWORD", password)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Locus Order Manager")
}

func TestFlowInputErrors(t *testing.T) {
	orders := writeFile(t, "orders.csv", sampleOrders)
	updates := writeFile(t, "updates.csv", sampleUpdates)

	tests := []struct {
		name    string
		args    []string
		creds   bool
		wantErr string
	}{
		{name: "upload without file", args: []string{"upload"}, creds: true, wantErr: "please provide an input file"},
		{name: "upload without credentials", args: []string{"upload", "--file", orders}, wantErr: "username and password are required"},
		{name: "update without file", args: []string{"update"}, creds: true, wantErr: "please provide an input file"},
		{name: "update without credentials", args: []string{"update", "--file", updates}, wantErr: "username and password are required"},
		{name: "update negative workers", args: []string{"update", "--file", updates, "--workers", "-1"}, creds: true, wantErr: "--workers must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
			}))
			defer server.Close()

			if tt.creds {
				setCredentials(t, "planner", "s3cret")
			} else {
				setCredentials(t, "", "")
			}

			args := append(tt.args, "--config", apiConfig(t, server.URL))
			_, err := runCLI(t, args...)

			assert.EqualError(t, err, tt.wantErr)
			server.Close()
			assert.Zero(t, calls)
		})
	}
}

func TestUploadCommand(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    string
		wantOutput string
	}{
		{name: "accepted", status: http.StatusOK, body: `{"status":"ok"}`, wantOutput: "✓ Status Code: 200"},
		{name: "rejected", status: http.StatusBadRequest, body: "bad request", wantErr: "upload rejected with status 400", wantOutput: "✗ Status Code: 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			setCredentials(t, "planner", "s3cret")
			reportDir := filepath.Join(t.TempDir(), "reports")
			orders := writeFile(t, "orders.csv", sampleOrders)

			out, err := runCLI(t, "upload",
				"--config", apiConfig(t, server.URL),
				"--file", orders,
				"--report-dir", reportDir,
			)

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.wantOutput)
			assert.Contains(t, out, "(2 order(s), 2 line item(s))")
			assert.Contains(t, out, "Report written to "+reportDir)

			entries, err := os.ReadDir(reportDir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.True(t, strings.HasPrefix(entries[0].Name(), "upload_report_"))
		})
	}
}

func TestUploadDryRun(t *testing.T) {
	setCredentials(t, "", "")
	orders := writeFile(t, "orders.csv", sampleOrders)

	out, err := runCLI(t, "upload", "--config", noConfig(t), "--file", orders, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, `"requests": [`)
	assert.Contains(t, out, "Dry run: 2 order(s), 2 line item(s), nothing sent")
}

func TestUpdateCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/8002/") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("order not found"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	setCredentials(t, "planner", "s3cret")
	reportDir := filepath.Join(t.TempDir(), "reports")
	updates := writeFile(t, "updates.csv", sampleUpdates)

	out, err := runCLI(t, "update",
		"--config", apiConfig(t, server.URL),
		"--file", updates,
		"--workers", "2",
		"--report-dir", reportDir,
	)

	assert.EqualError(t, err, "1 of 2 order update(s) failed")
	assert.Contains(t, out, "✓ Success for Order 8001")
	assert.Contains(t, out, "✗ Failed for Order 8002: 404 - order not found")
	assert.Contains(t, out, "Successful:      1")
	assert.Contains(t, out, "Errors:          1")
	assert.Contains(t, out, "Report written to "+reportDir)
}

func TestUpdateDryRun(t *testing.T) {
	setCredentials(t, "", "")
	updates := writeFile(t, "updates.csv", sampleUpdates)

	out, err := runCLI(t, "update", "--config", noConfig(t), "--file", updates, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "/order/8001/line-item-update")
	assert.Contains(t, out, "Dry run: nothing sent")
}
