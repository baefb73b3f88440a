package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StacyCash/bookclub-e2e/internal/logging"
)

func TestServerStartStop(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	require.NoError(t, err)

	addr, err := srv.Start()
	require.NoError(t, err)
	require.NotEmpty(t, addr)
	assert.NotEqual(t, "127.0.0.1:0", addr)
	assert.Equal(t, addr, srv.Addr())
	assert.Equal(t, "http://"+addr+"/", srv.URL())
	assert.Equal(t, "http://"+addr+"/api", srv.APIURL())

	resp, err := http.Get(srv.URL())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Book Club Fixture Site")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	assert.Empty(t, srv.Addr())
	assert.Empty(t, srv.URL())
	_, err = http.Get("http://" + addr + "/")
	assert.Error(t, err, "expected connection error after shutdown")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:0", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
}

func TestServerDoubleStart(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	require.NoError(t, err)
	defer srv.Shutdown(context.Background())

	addr1, err := srv.Start()
	require.NoError(t, err)
	addr2, err := srv.Start()
	require.NoError(t, err)
	assert.Equal(t, addr1, addr2)
}

func TestHandler_Routes(t *testing.T) {
	h := NewHandler(logging.Discard())

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/", http.StatusOK, `data-e2e-id="link-to-booklist"`},
		{http.MethodGet, "/book-list", http.StatusOK, `data-e2e-id="books"`},
		{http.MethodGet, "/api/booklist", http.StatusServiceUnavailable, "booklist must be mocked"},
		{http.MethodPost, "/api/bookclubsignup", http.StatusServiceUnavailable, "bookclubsignup must be mocked"},
		{http.MethodGet, "/elsewhere", http.StatusNotFound, ""},
		{http.MethodPost, "/", http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}

func TestHTMLPage_Contract(t *testing.T) {
	for _, id := range []string{"link-to-booklist", "name", "email", "genre", "submit"} {
		assert.Contains(t, HTMLPage, `data-e2e-id="`+id+`"`)
	}
	// Title ids and feedback ids are generated by the script.
	assert.True(t, strings.Contains(HTMLPage, `title.toLowerCase().split(' ').join('-')`))
	assert.Contains(t, HTMLPage, `'feedback' + feedbackCount++`)
}
