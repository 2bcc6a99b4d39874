package domain

import (
	"fmt"
	"net/url"
)

// field describes one named member of entity E. The JSON decoder, the binary
// codec and Equal all walk the same tables, so the three cannot drift apart
// when a field is added.
type field[E any] struct {
	name     string
	required bool

	// decode assigns v, which is never nil, to the field. s locates the
	// enclosing object.
	decode func(e *E, v any, s decodeState) error

	// encode returns the generic tree value for the field, or nil when absent.
	encode func(e *E) (any, error)

	equal func(a, b *E) bool
}

var dataPointFields = []field[DataPoint]{
	requiredNumber("time", func(p *DataPoint) *float64 { return &p.Time }),
	optionalString("summary", func(p *DataPoint) **string { return &p.Summary }),
	optionalIcon("icon", func(p *DataPoint) **Icon { return &p.Icon }),
	optionalNumber("sunriseTime", func(p *DataPoint) **float64 { return &p.SunriseTime }),
	optionalNumber("sunsetTime", func(p *DataPoint) **float64 { return &p.SunsetTime }),
	optionalNumber("moonPhase", func(p *DataPoint) **float64 { return &p.MoonPhase }),
	optionalNumber("nearestStormDistance", func(p *DataPoint) **float64 { return &p.NearestStormDistance }),
	optionalNumber("precipIntensity", func(p *DataPoint) **float64 { return &p.PrecipIntensity }),
	optionalNumber("precipIntensityError", func(p *DataPoint) **float64 { return &p.PrecipIntensityError }),
	optionalNumber("precipProbability", func(p *DataPoint) **float64 { return &p.PrecipProbability }),
	optionalNumber("precipIntensityMax", func(p *DataPoint) **float64 { return &p.PrecipIntensityMax }),
	optionalNumber("precipIntensityMaxTime", func(p *DataPoint) **float64 { return &p.PrecipIntensityMaxTime }),
	optionalString("precipType", func(p *DataPoint) **string { return &p.PrecipType }),
	optionalNumber("temperature", func(p *DataPoint) **float64 { return &p.Temperature }),
	optionalNumber("temperatureMin", func(p *DataPoint) **float64 { return &p.TemperatureMin }),
	optionalNumber("temperatureMinTime", func(p *DataPoint) **float64 { return &p.TemperatureMinTime }),
	optionalNumber("temperatureMax", func(p *DataPoint) **float64 { return &p.TemperatureMax }),
	optionalNumber("temperatureMaxTime", func(p *DataPoint) **float64 { return &p.TemperatureMaxTime }),
	optionalNumber("apparentTemperature", func(p *DataPoint) **float64 { return &p.ApparentTemperature }),
	optionalNumber("apparentTemperatureMin", func(p *DataPoint) **float64 { return &p.ApparentTemperatureMin }),
	optionalNumber("apparentTemperatureMinTime", func(p *DataPoint) **float64 { return &p.ApparentTemperatureMinTime }),
	optionalNumber("apparentTemperatureMax", func(p *DataPoint) **float64 { return &p.ApparentTemperatureMax }),
	optionalNumber("apparentTemperatureMaxTime", func(p *DataPoint) **float64 { return &p.ApparentTemperatureMaxTime }),
	optionalNumber("dewPoint", func(p *DataPoint) **float64 { return &p.DewPoint }),
	optionalNumber("humidity", func(p *DataPoint) **float64 { return &p.Humidity }),
	optionalNumber("windSpeed", func(p *DataPoint) **float64 { return &p.WindSpeed }),
	optionalNumber("windBearing", func(p *DataPoint) **float64 { return &p.WindBearing }),
	optionalNumber("visibility", func(p *DataPoint) **float64 { return &p.Visibility }),
	optionalNumber("cloudCover", func(p *DataPoint) **float64 { return &p.CloudCover }),
	optionalNumber("pressure", func(p *DataPoint) **float64 { return &p.Pressure }),
	optionalNumber("ozone", func(p *DataPoint) **float64 { return &p.Ozone }),
}

var dataBlockFields = []field[DataBlock]{
	optionalString("summary", func(b *DataBlock) **string { return &b.Summary }),
	optionalIcon("icon", func(b *DataBlock) **Icon { return &b.Icon }),
	list("data", func(b *DataBlock) *[]DataPoint { return &b.Data }, dataPointFields),
}

var alertFields = []field[Alert]{
	requiredString("title", func(a *Alert) *string { return &a.Title }),
	requiredString("description", func(a *Alert) *string { return &a.Summary }),
	requiredNumber("expires", func(a *Alert) *float64 { return &a.Expires }),
	requiredURI("uri", func(a *Alert) *string { return &a.URI }),
	optionalNumber("time", func(a *Alert) **float64 { return &a.Time }),
	optionalString("severity", func(a *Alert) **string { return &a.Severity }),
}

var forecastFields = []field[Forecast]{
	optionalNumber("latitude", func(f *Forecast) **float64 { return &f.Latitude }),
	optionalNumber("longitude", func(f *Forecast) **float64 { return &f.Longitude }),
	optionalString("timezone", func(f *Forecast) **string { return &f.Timezone }),
	optionalNumber("offset", func(f *Forecast) **float64 { return &f.Offset }),
	object("currently", func(f *Forecast) **DataPoint { return &f.Currently }, dataPointFields),
	object("minutely", func(f *Forecast) **DataBlock { return &f.Minutely }, dataBlockFields),
	object("hourly", func(f *Forecast) **DataBlock { return &f.Hourly }, dataBlockFields),
	object("daily", func(f *Forecast) **DataBlock { return &f.Daily }, dataBlockFields),
	list("alerts", func(f *Forecast) *[]Alert { return &f.Alerts }, alertFields),
}

// --- field combinators ---

func optionalNumber[E any](name string, get func(*E) **float64) field[E] {
	return field[E]{
		name: name,
		decode: func(e *E, v any, s decodeState) error {
			n, ok := toFloat(v)
			if !ok {
				return s.mismatch(name, v)
			}
			*get(e) = &n
			return nil
		},
		encode: func(e *E) (any, error) {
			if p := *get(e); p != nil {
				return *p, nil
			}
			return nil, nil
		},
		equal: func(a, b *E) bool { return optionalEqualFunc(*get(a), *get(b), func(x, y *float64) bool { return sameFloat(*x, *y) }) },
	}
}

func requiredNumber[E any](name string, get func(*E) *float64) field[E] {
	return field[E]{
		name:     name,
		required: true,
		decode: func(e *E, v any, s decodeState) error {
			n, ok := toFloat(v)
			if !ok {
				return s.missing(name)
			}
			*get(e) = n
			return nil
		},
		encode: func(e *E) (any, error) { return *get(e), nil },
		equal:  func(a, b *E) bool { return sameFloat(*get(a), *get(b)) },
	}
}

func optionalString[E any](name string, get func(*E) **string) field[E] {
	return field[E]{
		name: name,
		decode: func(e *E, v any, s decodeState) error {
			str, ok := v.(string)
			if !ok {
				return s.mismatch(name, v)
			}
			*get(e) = &str
			return nil
		},
		encode: func(e *E) (any, error) {
			if p := *get(e); p != nil {
				return *p, nil
			}
			return nil, nil
		},
		equal: func(a, b *E) bool { return optionalEqual(*get(a), *get(b)) },
	}
}

func requiredString[E any](name string, get func(*E) *string) field[E] {
	return field[E]{
		name:     name,
		required: true,
		decode: func(e *E, v any, s decodeState) error {
			str, ok := v.(string)
			if !ok {
				return s.missing(name)
			}
			*get(e) = str
			return nil
		},
		encode: func(e *E) (any, error) { return *get(e), nil },
		equal:  func(a, b *E) bool { return *get(a) == *get(b) },
	}
}

// requiredURI is a required string that must parse as a URI.
func requiredURI[E any](name string, get func(*E) *string) field[E] {
	f := requiredString(name, get)
	decodeString := f.decode
	f.decode = func(e *E, v any, s decodeState) error {
		str, ok := v.(string)
		if !ok || str == "" {
			return s.missing(name)
		}
		if _, err := url.Parse(str); err != nil {
			return s.missing(name)
		}
		return decodeString(e, v, s)
	}
	return f
}

func optionalIcon[E any](name string, get func(*E) **Icon) field[E] {
	return field[E]{
		name: name,
		decode: func(e *E, v any, s decodeState) error {
			token, ok := v.(string)
			if !ok {
				return s.mismatch(name, v)
			}
			icon, err := s.icon(name, token)
			if err != nil {
				return err
			}
			*get(e) = &icon
			return nil
		},
		encode: func(e *E) (any, error) {
			p := *get(e)
			if p == nil {
				return nil, nil
			}
			if !p.Valid() {
				return nil, fmt.Errorf("encode field %q: invalid icon %d", name, uint8(*p))
			}
			return p.binaryToken(), nil
		},
		equal: func(a, b *E) bool { return optionalEqual(*get(a), *get(b)) },
	}
}

// object is an optional nested entity. A required-field failure inside it
// fails the parent.
func object[E, T any](name string, get func(*E) **T, fields []field[T]) field[E] {
	return field[E]{
		name: name,
		decode: func(e *E, v any, s decodeState) error {
			m, ok := v.(map[string]any)
			if !ok {
				return s.mismatch(name, v)
			}
			t, err := decodeObject(fields, m, s.at(name))
			if err != nil {
				return err
			}
			*get(e) = &t
			return nil
		},
		encode: func(e *E) (any, error) {
			p := *get(e)
			if p == nil {
				return nil, nil
			}
			return encodeObject(fields, p)
		},
		equal: func(a, b *E) bool {
			return optionalEqualFunc(*get(a), *get(b), func(x, y *T) bool { return equalFields(fields, x, y) })
		},
	}
}

// list is an optional sequence of entities. Elements are decoded
// independently and any failing element fails the whole list.
func list[E, T any](name string, get func(*E) *[]T, fields []field[T]) field[E] {
	return field[E]{
		name: name,
		decode: func(e *E, v any, s decodeState) error {
			items, ok := v.([]any)
			if !ok {
				return s.mismatch(name, v)
			}
			out := make([]T, 0, len(items))
			for i, item := range items {
				m, ok := item.(map[string]any)
				if !ok {
					return s.missing(fmt.Sprintf("%s[%d]", name, i))
				}
				t, err := decodeObject(fields, m, s.at(name).index(i))
				if err != nil {
					return err
				}
				out = append(out, t)
			}
			*get(e) = out
			return nil
		},
		encode: func(e *E) (any, error) {
			items := *get(e)
			if items == nil {
				return nil, nil
			}
			out := make([]any, 0, len(items))
			for i := range items {
				m, err := encodeObject(fields, &items[i])
				if err != nil {
					return nil, err
				}
				out = append(out, m)
			}
			return out, nil
		},
		equal: func(a, b *E) bool {
			return listEqual(*get(a), *get(b), func(x, y *T) bool { return equalFields(fields, x, y) })
		},
	}
}

// --- table walkers ---

func decodeObject[E any](fields []field[E], obj map[string]any, s decodeState) (E, error) {
	var e E
	for _, f := range fields {
		v, present := obj[f.name]
		if !present && s.mode == modeBinary {
			return e, fmt.Errorf("%w: field %q not present in %s", ErrCorruptBinary, f.name, s.where())
		}
		if v == nil {
			if f.required {
				return e, s.missing(f.name)
			}
			continue
		}
		if err := f.decode(&e, v, s); err != nil {
			return e, err
		}
	}
	return e, nil
}

// encodeObject writes every field, absent ones as nil, so the reader can
// tell an absent field from a dropped one.
func encodeObject[E any](fields []field[E], e *E) (map[string]any, error) {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		v, err := f.encode(e)
		if err != nil {
			return nil, err
		}
		m[f.name] = v
	}
	return m, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case uint64:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
