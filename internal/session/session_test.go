package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_IssuesAndReusesCookie(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("cookies = %v", cookies)
	}
	if seen == "" || seen != cookies[0].Value {
		t.Fatalf("context id %q, cookie %q", seen, cookies[0].Value)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if len(rr.Result().Cookies()) != 0 {
		t.Fatalf("cookie reissued for known session")
	}
	if seen != cookies[0].Value {
		t.Fatalf("session changed: %q", seen)
	}
}

func TestID_RejectsMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "short"})
	if _, ok := ID(req); ok {
		t.Fatalf("malformed id accepted")
	}
}
