package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsHandler(origins []string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return CORS(origins)(next)
}

func TestCORSRestrictsToConfiguredOrigins(t *testing.T) {
	h := corsHandler([]string{"https://abrigo.org"})

	req := httptest.NewRequest(http.MethodGet, "/animals", nil)
	req.Header.Set("Origin", "https://abrigo.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://abrigo.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	// origem fora da lista não recebe o cabeçalho
	req = httptest.NewRequest(http.MethodGet, "/animals", nil)
	req.Header.Set("Origin", "https://intruso.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardAndEmptyListAllowAll(t *testing.T) {
	for _, origins := range [][]string{nil, {"*"}, {"https://abrigo.org", "*"}} {
		h := corsHandler(origins)

		req := httptest.NewRequest(http.MethodGet, "/animals", nil)
		req.Header.Set("Origin", "https://qualquer.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	h := CORS([]string{"https://abrigo.org"})(next)

	req := httptest.NewRequest(http.MethodOptions, "/animals", nil)
	req.Header.Set("Origin", "https://abrigo.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "OPTIONS")
}
