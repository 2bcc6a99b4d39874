package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForecastEqual_CurrentlyAbsentVsPresent(t *testing.T) {
	a := Forecast{Latitude: ptr(1.0)}
	b := Forecast{Latitude: ptr(1.0), Currently: &DataPoint{Time: 1}}

	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))
	assert.True(t, a.Equal(Forecast{Latitude: ptr(1.0)}))
}

func TestForecastEqual_ComparesValuesNotPointers(t *testing.T) {
	a := Forecast{Timezone: ptr("UTC"), Hourly: &DataBlock{Icon: ptr(IconRain)}}
	b := Forecast{Timezone: ptr("UTC"), Hourly: &DataBlock{Icon: ptr(IconRain)}}
	assert.True(t, a.Equal(b))

	b.Hourly.Icon = ptr(IconSnow)
	assert.False(t, a.Equal(b))
}

func TestForecastEqual_NilVersusEmptyAlerts(t *testing.T) {
	assert.False(t, Forecast{}.Equal(Forecast{Alerts: []Alert{}}))
	assert.True(t, Forecast{Alerts: []Alert{}}.Equal(Forecast{Alerts: []Alert{}}))
}

func TestForecastEqual_AlertOrderMatters(t *testing.T) {
	x := Alert{Title: "x", Summary: "x", Expires: 1, URI: "https://x"}
	y := Alert{Title: "y", Summary: "y", Expires: 2, URI: "https://y"}
	assert.False(t, Forecast{Alerts: []Alert{x, y}}.Equal(Forecast{Alerts: []Alert{y, x}}))
	assert.False(t, Forecast{Alerts: []Alert{x}}.Equal(Forecast{Alerts: []Alert{x, y}}))
}

func TestDataPointEqual_ExactFloats(t *testing.T) {
	x, y := 0.1, 0.2
	a := DataPoint{Time: 1, Temperature: ptr(x + y)}
	b := DataPoint{Time: 1, Temperature: ptr(0.3)}
	assert.False(t, a.Equal(b), "no epsilon tolerance")

	assert.False(t, DataPoint{Time: 1}.Equal(DataPoint{Time: math.Nextafter(1, 2)}))
}

func TestDataPointEqual_EveryFieldCounts(t *testing.T) {
	base := fullDataPoint(100)
	assert.True(t, base.Equal(fullDataPoint(100)))

	// Dropping any single field to absent must break equality.
	for _, f := range dataPointFields {
		if f.required {
			continue
		}
		other := fullDataPoint(100)
		clearField(t, &other, f.name)
		assert.False(t, base.Equal(other), "field %s", f.name)
	}
}

func TestAlertEqual(t *testing.T) {
	a := Alert{Title: "t", Summary: "s", Expires: 1, URI: "https://a"}
	assert.True(t, a.Equal(a))

	b := a
	b.URI = "https://b"
	assert.False(t, a.Equal(b))

	c := a
	c.Severity = ptr("advisory")
	assert.False(t, a.Equal(c))
}

func TestDataBlockEqual(t *testing.T) {
	a := DataBlock{Summary: ptr("s"), Data: []DataPoint{{Time: 1}}}
	assert.True(t, a.Equal(DataBlock{Summary: ptr("s"), Data: []DataPoint{{Time: 1}}}))
	assert.False(t, a.Equal(DataBlock{Summary: ptr("s"), Data: []DataPoint{{Time: 2}}}))
	assert.False(t, a.Equal(DataBlock{Summary: ptr("s")}))
}

// clearField sets the named optional field to absent by round-tripping the
// point through the field table's encoded form.
func clearField(t *testing.T, p *DataPoint, name string) {
	t.Helper()
	tree, err := encodeObject(dataPointFields, p)
	if err != nil {
		t.Fatal(err)
	}
	tree[name] = nil
	cleared, err := decodeObject(dataPointFields, tree, decodeState{mode: modeBinary})
	if err != nil {
		t.Fatal(err)
	}
	*p = cleared
}

func TestForecastEqual_NaNIsReflexive(t *testing.T) {
	f := Forecast{Latitude: ptr(math.NaN()), Currently: &DataPoint{Time: math.NaN()}}
	assert.True(t, f.Equal(f))
	assert.False(t, f.Equal(Forecast{Latitude: ptr(1.0), Currently: &DataPoint{Time: math.NaN()}}))
}
