package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

func TestResolve_UserAgent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4242"
	req.Header.Set("User-Agent", chromeMac)

	var r *Resolver // nil resolver still parses
	info := r.Resolve(req)

	if info.IP != "203.0.113.9" {
		t.Fatalf("IP = %q", info.IP)
	}
	if info.Browser != "Chrome" || info.Device != "Desktop" || info.Bot {
		t.Fatalf("info = %+v", info)
	}
	if info.Class() != "Chrome/Desktop" {
		t.Fatalf("Class = %q", info.Class())
	}
	if info.Country != "" {
		t.Fatalf("country without geo db: %q", info.Country)
	}
}

func TestResolve_Bot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	if got := (&Resolver{}).Resolve(req).Class(); got != "bot" {
		t.Fatalf("Class = %q", got)
	}
}

func TestNewResolver(t *testing.T) {
	r, err := NewResolver("")
	if err != nil || r == nil {
		t.Fatalf("empty path: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := NewResolver("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatalf("expected error for missing db")
	}
}
