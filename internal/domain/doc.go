// Package domain models Dark Sky style forecast documents and their codecs.
//
// # Data Source
//
// Forecasts come from a Dark Sky compatible HTTP API (Dark Sky itself, or a
// drop-in replacement such as Pirate Weather). A request names a coordinate
// pair plus language, units and a list of excluded sections; the response is
// a JSON object with the top-level keys latitude, longitude, timezone, offset,
// currently, minutely, hourly, daily and alerts. Any of them may be missing.
//
// # Document Shape
//
//	Forecast
//	  currently  DataPoint
//	  minutely   DataBlock  (one point per minute for the next hour)
//	  hourly     DataBlock  (one point per hour, 48h or 168h with extend=hourly)
//	  daily      DataBlock  (one point per day for the next week)
//	  alerts     []Alert
//
// DataPoint.time is the only required measurement field. Every other value is
// absent (nil) when the upstream did not report it; a zero is a real reading.
// Alerts carry four required fields: title, description (exposed as
// Alert.Summary), expires and uri. A bad alert fails the whole document since a
// partial alert list must not pass silently.
//
// # Icons
//
// The API reports conditions with ten icon tokens, mapped onto the Climacons
// set:
//
//	clear-day → sun            clear-night → moon
//	rain → rain                snow → snow
//	sleet → sleet              wind → wind
//	fog → haze                 cloudy → cloud
//	partly-cloudy-day → cloudSun
//	partly-cloudy-night → cloudMoon
//
// Unknown tokens decode to sun. The remaining Climacons (moon phases, compass
// points, thermometer levels and the sun/moon variants of precipitation) have no
// token and are never produced by DecodeForecast.
//
// # Codecs
//
// DecodeForecast reads the upstream JSON. EncodeBinary and DecodeBinary write
// and read a CBOR form for caching and persistence: a tagged map holding every
// field by name, absent fields as null, so DecodeBinary(EncodeBinary(f)) is
// Equal to f. Icons are persisted as their token (or glyph when they have no
// token), not as the original wire string, so an unknown upstream token is
// stored as "clear-day".
//
// All three field-by-field walks (JSON, binary, Equal) run off the tables in
// schema.go.
package domain
