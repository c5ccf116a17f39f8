package workspace

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uploads":["/uploads/data.csv"],"workspace":["/workspace/out/report.md"]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	listing, err := client.ListFiles(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/data.csv"}, listing.Uploads)
	assert.Equal(t, []string{"/workspace/out/report.md"}, listing.Workspace)
}

func TestFileContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/content/workspace/out/report.md", r.URL.Path)
		assert.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		_, _ = w.Write([]byte(`{"content":"# Report"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	content, err := client.FileContent(context.Background(), "sess-1", "/workspace/out/report.md")
	require.NoError(t, err)
	assert.Equal(t, "# Report", content)
}

func TestUpload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "data.csv", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(data))

		_, _ = w.Write([]byte(`{"filename":"data.csv"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	uploaded, err := client.Upload(context.Background(), "sess-1", "data.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "data.csv", uploaded.Filename)
}

func TestReset(t *testing.T) {
	t.Parallel()

	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/reset", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	require.NoError(t, client.Reset(context.Background(), "sess-1"))
	assert.True(t, called)
}

func TestErrorDetailSurfaced(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"File not found"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.FileContent(context.Background(), "sess-1", "/workspace/missing.txt")
	require.ErrorContains(t, err, "File not found")
	require.ErrorContains(t, err, "404")
}

func TestDownloadURL(t *testing.T) {
	t.Parallel()

	client, err := NewClient("http://localhost:8000")
	require.NoError(t, err)

	got := client.DownloadURL("sess-1", "/workspace/out/report.md")
	assert.Equal(t, "http://localhost:8000/files/download/workspace/out/report.md?session_id=sess-1", got)
}
