//
//  internal/requestinfo/requestinfo.go
//
//  Per-request metadata for the layout API: a request id, the client
//  address, a coarse user-agent fingerprint, and an optional country.
//  These structs are inert.  They hold no handles or buffers, so they are
//  safe to log or JSON-encode.
//
//  Dependencies
//  • github.com/google/uuid             (request ids)
//  • github.com/avct/uasurfer           (UA parsing)
//  • github.com/oschwald/geoip2-golang  (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// UA is the parsed slice of the User-Agent header worth logging.
type UA struct {
	Browser string // "Chrome", "Firefox", ...
	OS      string // "macOS", "Windows", ...
	Device  string // "Desktop", "Phone", ...
	IsBot   bool
}

// RequestInfo is stored in the request context by Enrich.
type RequestInfo struct {
	ID      string
	IP      net.IP
	Country string // empty without a GeoIP database or on a miss
	UA      UA
	Start   time.Time
}

/*──────────────────────────── geo reader ───────────────────────────────────*/

// geoReader is nil until OpenGeo succeeds.  Reads are concurrency-safe.
var geoReader atomic.Pointer[geoip2.Reader]

// OpenGeo opens a GeoLite2-City database for country tagging.  Without it
// the Country field stays empty.
func OpenGeo(path string) error {
	r, err := geoip2.Open(path)
	if err != nil {
		return err
	}
	if old := geoReader.Swap(r); old != nil {
		_ = old.Close()
	}
	return nil
}

// CloseGeo releases the database, if any.
func CloseGeo() {
	if old := geoReader.Swap(nil); old != nil {
		_ = old.Close()
	}
}

func lookupCountry(ip net.IP) string {
	r := geoReader.Load()
	if r == nil || ip == nil {
		return ""
	}
	rec, err := r.City(ip)
	if err != nil {
		return ""
	}
	return rec.Country.IsoCode
}

/*──────────────────────────── context helper ───────────────────────────────*/

type ctxKey struct{}

// FromContext returns the value stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// IDFromContext is shorthand for the request id, or "".
func IDFromContext(ctx context.Context) string {
	if info := FromContext(ctx); info != nil {
		return info.ID
	}
	return ""
}

/*──────────────────────────── UA parsing ───────────────────────────────────*/

func parseUA(header string) UA {
	if header == "" {
		return UA{Device: "Unknown"}
	}
	u := uasurfer.Parse(header)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}
	return UA{
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		OS:      osName,
		Device:  deviceName(u.DeviceType),
		IsBot:   u.IsBot(),
	}
}

func deviceName(dt uasurfer.DeviceType) string {
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
