// Package geoip derives a coarse starting viewport for the map from the
// client's IP address, backed by a MaxMind GeoIP2 database.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when the resolver is not initialized.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Hint is a best-effort guess at where the client is.
type Hint struct {
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
	Located bool    `json:"located"`
}

// ViewportHinter resolves map viewport hints from IP addresses.
type ViewportHinter interface {
	Hint(ip string) (Hint, error)
}

// Resolver provides city-level lookups backed by a MaxMind GeoIP2 database.
type Resolver struct {
	reader *geoip2.Reader
}

// NewResolver opens the GeoIP database at the given path. When the path is
// empty, nil is returned and bootstrap responses simply omit the hint.
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// Hint returns the country code and approximate coordinates for the given IP.
func (r *Resolver) Hint(ip string) (Hint, error) {
	if r == nil || r.reader == nil {
		return Hint{}, ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Hint{}, fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.City(parsed)
	if err != nil {
		return Hint{}, fmt.Errorf("geoip: lookup city: %w", err)
	}
	if record == nil {
		return Hint{}, nil
	}
	hint := Hint{Country: record.Country.IsoCode}
	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		hint.Lat = record.Location.Latitude
		hint.Lng = record.Location.Longitude
		hint.Located = true
	}
	return hint, nil
}

// Close closes the underlying database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
