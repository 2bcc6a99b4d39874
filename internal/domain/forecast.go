package domain

import (
	"math"
	"time"
)

// Forecast is the root of a decoded forecast response. Every section is
// optional because the upstream payload omits sections depending on the
// request's exclude list and on what is available for the location.
type Forecast struct {
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Timezone  *string    `json:"timezone,omitempty"`
	Offset    *float64   `json:"offset,omitempty"` // hours from UTC
	Currently *DataPoint `json:"currently,omitempty"`
	Minutely  *DataBlock `json:"minutely,omitempty"`
	Hourly    *DataBlock `json:"hourly,omitempty"`
	Daily     *DataBlock `json:"daily,omitempty"`
	Alerts    []Alert    `json:"alerts,omitempty"`
}

// DataBlock is a series of samples at one cadence. Minutely, hourly and daily
// blocks share this shape.
type DataBlock struct {
	Summary *string     `json:"summary,omitempty"`
	Icon    *Icon       `json:"icon,omitempty"`
	Data    []DataPoint `json:"data,omitempty"`
}

// DataPoint is a single weather sample. Time is the only required field; each
// measurement is absent when the upstream did not report it.
type DataPoint struct {
	Time                       float64  `json:"time"` // seconds since the Unix epoch
	Summary                    *string  `json:"summary,omitempty"`
	Icon                       *Icon    `json:"icon,omitempty"`
	SunriseTime                *float64 `json:"sunriseTime,omitempty"`
	SunsetTime                 *float64 `json:"sunsetTime,omitempty"`
	MoonPhase                  *float64 `json:"moonPhase,omitempty"`
	NearestStormDistance       *float64 `json:"nearestStormDistance,omitempty"`
	PrecipIntensity            *float64 `json:"precipIntensity,omitempty"`
	PrecipIntensityError       *float64 `json:"precipIntensityError,omitempty"`
	PrecipProbability          *float64 `json:"precipProbability,omitempty"`
	PrecipIntensityMax         *float64 `json:"precipIntensityMax,omitempty"`
	PrecipIntensityMaxTime     *float64 `json:"precipIntensityMaxTime,omitempty"`
	PrecipType                 *string  `json:"precipType,omitempty"`
	Temperature                *float64 `json:"temperature,omitempty"`
	TemperatureMin             *float64 `json:"temperatureMin,omitempty"`
	TemperatureMinTime         *float64 `json:"temperatureMinTime,omitempty"`
	TemperatureMax             *float64 `json:"temperatureMax,omitempty"`
	TemperatureMaxTime         *float64 `json:"temperatureMaxTime,omitempty"`
	ApparentTemperature        *float64 `json:"apparentTemperature,omitempty"`
	ApparentTemperatureMin     *float64 `json:"apparentTemperatureMin,omitempty"`
	ApparentTemperatureMinTime *float64 `json:"apparentTemperatureMinTime,omitempty"`
	ApparentTemperatureMax     *float64 `json:"apparentTemperatureMax,omitempty"`
	ApparentTemperatureMaxTime *float64 `json:"apparentTemperatureMaxTime,omitempty"`
	DewPoint                   *float64 `json:"dewPoint,omitempty"`
	Humidity                   *float64 `json:"humidity,omitempty"`
	WindSpeed                  *float64 `json:"windSpeed,omitempty"`
	WindBearing                *float64 `json:"windBearing,omitempty"`
	Visibility                 *float64 `json:"visibility,omitempty"`
	CloudCover                 *float64 `json:"cloudCover,omitempty"`
	Pressure                   *float64 `json:"pressure,omitempty"`
	Ozone                      *float64 `json:"ozone,omitempty"`
}

// Alert is a weather advisory. The four descriptive fields are required; an
// alert missing any of them is rejected rather than kept partially.
type Alert struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"` // "description" on the wire
	Expires  float64  `json:"expires"`
	URI      string   `json:"uri"`
	Time     *float64 `json:"time,omitempty"`
	Severity *string  `json:"severity,omitempty"` // advisory, watch or warning
}

// Timestamp converts the sample time to a UTC time.Time.
func (p DataPoint) Timestamp() time.Time { return epochTime(p.Time) }

// ExpiresAt converts the alert expiry to a UTC time.Time.
func (a Alert) ExpiresAt() time.Time { return epochTime(a.Expires) }

func epochTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
