package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ForecastSource fetches and decodes the forecast for a coordinate pair.
type ForecastSource interface {
	Forecast(ctx context.Context, lat, lon float64) (Forecast, error)
}

// Location is a WGS-84 coordinate pair a forecast is requested for.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key renders the location the same way the upstream URL path does, e.g.
// "30.2672,-97.7431". It is used as the cache, message and row key.
func (l Location) Key() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

// ParseLocation parses "lat,lon" and checks both values are in range.
func ParseLocation(s string) (Location, error) {
	latStr, lonStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Location{}, fmt.Errorf("parse location %q: want \"lat,lon\"", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: latitude: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: longitude: %w", s, err)
	}
	if lat < -90 || lat > 90 {
		return Location{}, fmt.Errorf("parse location %q: latitude out of range", s)
	}
	if lon < -180 || lon > 180 {
		return Location{}, fmt.Errorf("parse location %q: longitude out of range", s)
	}
	return Location{Lat: lat, Lon: lon}, nil
}

// Snapshot is a forecast as fetched for one location at one point in time.
type Snapshot struct {
	Location  Location  `json:"location"`
	Forecast  Forecast  `json:"forecast"`
	FetchedAt time.Time `json:"fetched_at"`
}

