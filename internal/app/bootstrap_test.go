package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"jobboard/internal/config"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticServesOnlyPublicPrefixes(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("logos/acme.png", "\x89PNG\r\n\x1a\n")
	write("resumes/cv.pdf", "%PDF-1.4")
	write("message-attachments/x.html", "<html><script>alert(1)</script></html>")

	app := fiber.New()
	registerStatic(app, config.StorageConfig{Driver: "disk", DiskRoot: root, PublicBaseURL: "/storage"})

	get := func(path string) *http.Response {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	resp := get("/storage/logos/acme.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(body))

	for _, path := range []string{
		"/storage/resumes/cv.pdf",
		"/storage/message-attachments/x.html",
		"/storage/logos/../resumes/cv.pdf",
	} {
		assert.NotEqual(t, http.StatusOK, get(path).StatusCode, path)
	}
}

func TestStaticSkippedForS3(t *testing.T) {
	app := fiber.New()
	registerStatic(app, config.StorageConfig{Driver: "s3", PublicBaseURL: "/storage"})
	assert.Empty(t, app.GetRoutes())
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr(" 8080 ")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)
	addr, err = ListenAddr(":9000")
	require.NoError(t, err)
	assert.Equal(t, ":9000", addr)
	_, err = ListenAddr("")
	assert.Error(t, err)
}
