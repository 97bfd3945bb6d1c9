package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/csrf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfProtected() http.Handler {
	protect := csrf.Protect([]byte("0123456789abcdef0123456789abcdef"), csrf.Secure(false), csrf.Path("/"))
	return protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, csrf.Token(r))
	}))
}

// postWithToken fetches a token with a GET, then posts it back without a
// Referer header, the way a plain-HTTP form submit may arrive.
func postWithToken(t *testing.T, h http.Handler) int {
	t.Helper()

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "http://localhost:8080/admin/orders", nil))
	require.Equal(t, http.StatusOK, get.Code)
	cookies := get.Result().Cookies()
	require.NotEmpty(t, cookies)

	form := url.Values{"gorilla.csrf.Token": {get.Body.String()}}
	req := httptest.NewRequest(http.MethodPost, "http://localhost:8080/admin/orders/refresh", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestPlaintext_AcceptsTokenOverHTTP(t *testing.T) {
	assert.Equal(t, http.StatusOK, postWithToken(t, plaintext(csrfProtected())))
}

func TestPlaintext_UnmarkedRequestNeedsReferer(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, postWithToken(t, csrfProtected()))
}
