package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
	auth   string
	key    string
}

func newAPI(t *testing.T, status int, response string) (*httptest.Server, *[]recorded) {
	t.Helper()

	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
			auth:   r.Header.Get("Authorization"),
			key:    r.Header.Get("Idempotency-Key"),
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	srv, calls := newAPI(t, http.StatusOK, `{"processed":1}`)

	out, err := execute(t, "run", "--url", srv.URL, "--business", "biz-1", "--period", "2024-01-31",
		"--token", "tok", "--idempotency-key", "k-1")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"processed\": 1\n}\n", out)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/v1/businesses/biz-1/depreciation/runs", call.path)
	assert.JSONEq(t, `{"period_end":"2024-01-31"}`, call.body)
	assert.Equal(t, "Bearer tok", call.auth)
	assert.Equal(t, "k-1", call.key)
}

func TestRunCommand_PartialWarns(t *testing.T) {
	srv, _ := newAPI(t, http.StatusMultiStatus, `{"failed":[{"asset_id":"a"}]}`)

	out, err := execute(t, "run", "--url", srv.URL, "--business", "biz-1", "--period", "2024-01-31")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: some assets failed")
}

func TestPeriodCommands(t *testing.T) {
	tests := []struct {
		command string
		method  string
		path    string
	}{
		{"post", http.MethodPost, "/api/v1/businesses/biz-1/depreciation/periods/2024-01-31/post"},
		{"reverse", http.MethodPost, "/api/v1/businesses/biz-1/depreciation/periods/2024-01-31/reverse"},
		{"entries", http.MethodGet, "/api/v1/businesses/biz-1/depreciation/periods/2024-01-31/entries"},
		{"summary", http.MethodGet, "/api/v1/businesses/biz-1/depreciation/periods/2024-01-31/summary"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			srv, calls := newAPI(t, http.StatusOK, `[]`)

			_, err := execute(t, tt.command, "--url", srv.URL+"/", "--business", "biz-1", "--period", "2024-01-31")
			require.NoError(t, err)

			require.Len(t, *calls, 1)
			assert.Equal(t, tt.method, (*calls)[0].method)
			assert.Equal(t, tt.path, (*calls)[0].path)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv, _ := newAPI(t, http.StatusConflict, `{"error":"no_draft_entries"}`)

		_, err := execute(t, "post", "--url", srv.URL, "--business", "biz-1", "--period", "2024-01-31")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 409")
		assert.Contains(t, err.Error(), "no_draft_entries")
	})

	t.Run("missing business", func(t *testing.T) {
		_, err := execute(t, "entries", "--period", "2024-01-31")
		require.EqualError(t, err, "--business is required")
	})

	t.Run("missing period", func(t *testing.T) {
		_, err := execute(t, "run", "--business", "biz-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "period")
	})
}

func TestExportCommand(t *testing.T) {
	srv, calls := newAPI(t, http.StatusOK, "%PDF-1.3 fake")
	output := filepath.Join(t.TempDir(), "schedule.pdf")

	out, err := execute(t, "export", "--url", srv.URL, "--business", "biz-1", "--period", "2024-01-31",
		"--format", "pdf", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 13 bytes")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 fake", string(data))

	require.Len(t, *calls, 1)
	assert.Equal(t, "/api/v1/businesses/biz-1/depreciation/periods/2024-01-31/export", (*calls)[0].path)
	assert.Equal(t, "format=pdf", (*calls)[0].query)
}

func TestPrintJSON_NonJSONPassthrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, []byte("plain text")))
	assert.Equal(t, "plain text", buf.String())
}
