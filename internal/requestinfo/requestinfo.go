//
//  internal/requestinfo/requestinfo.go
//
//  Per-request client metadata for the submission log: client IP, browser
//  family, device class, bot flag, and (when a GeoLite2 database is
//  configured) country.  Values are inert strings, safe to log or store.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup)
//

package requestinfo

import (
	"net"
	"net/http"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Info describes who sent a request.  Fields are best effort and may be
// empty.
type Info struct {
	IP      string
	Browser string // "Chrome", "Firefox", "Safari", ...
	Device  string // "Desktop", "Phone", "Tablet", ...
	Bot     bool
	Country string // ISO code, "" without a geo database
}

// Class is the compact label stored in the audit log, e.g. "Chrome/Desktop".
func (i Info) Class() string {
	if i.Bot {
		return "bot"
	}
	if i.Browser == "" && i.Device == "" {
		return ""
	}
	return i.Browser + "/" + i.Device
}

// Resolver turns requests into Info.  The zero value parses user agents
// and skips geolocation.  Safe for concurrent use.
type Resolver struct {
	geo *geoip2.Reader
}

// NewResolver opens the GeoLite2 Country or City database at dbPath.  An
// empty path disables geolocation.
func NewResolver(dbPath string) (*Resolver, error) {
	if dbPath == "" {
		return &Resolver{}, nil
	}
	rd, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Resolver{geo: rd}, nil
}

// Close releases the geo database, if any.
func (r *Resolver) Close() error {
	if r == nil || r.geo == nil {
		return nil
	}
	return r.geo.Close()
}

// Resolve inspects r.  A nil Resolver still parses the user agent.
func (r *Resolver) Resolve(req *http.Request) Info {
	ip := clientIP(req)
	u := uasurfer.Parse(req.UserAgent())

	info := Info{
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Device:  deviceTypeToString(u.DeviceType),
		Bot:     u.IsBot(),
	}
	if ip != nil {
		info.IP = ip.String()
	}
	if r != nil && r.geo != nil && ip != nil {
		if rec, err := r.geo.Country(ip); err == nil {
			info.Country = rec.Country.IsoCode
		}
	}
	return info
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// clientIP prefers RemoteAddr, which chi's RealIP has already rewritten
// from X-Forwarded-For / X-Real-IP when running behind a proxy.
func clientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}

// deviceTypeToString maps uasurfer.DeviceType to a short label.
func deviceTypeToString(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}
