package domain

import "fmt"

// Icon is a weather condition symbol from the Climacons set. Only a handful of
// icons are reachable from the upstream API vocabulary; the rest exist for
// display purposes (moon phases, compass points, thermometer levels).
type Icon uint8

const (
	IconUnknown Icon = iota
	IconCloud
	IconCloudSun
	IconCloudMoon
	IconRain
	IconRainSun
	IconRainMoon
	IconShowers
	IconShowersSun
	IconShowersMoon
	IconDownpour
	IconDownpourSun
	IconDownpourMoon
	IconDrizzle
	IconDrizzleSun
	IconDrizzleMoon
	IconSleet
	IconSleetSun
	IconSleetMoon
	IconHail
	IconHailSun
	IconHailMoon
	IconFlurries
	IconFlurriesSun
	IconFlurriesMoon
	IconSnow
	IconSnowSun
	IconSnowMoon
	IconFog
	IconFogSun
	IconFogMoon
	IconHaze
	IconHazeSun
	IconHazeMoon
	IconWind
	IconWindCloud
	IconWindCloudSun
	IconWindCloudMoon
	IconLightning
	IconLightningSun
	IconLightningMoon
	IconSun
	IconSunset
	IconSunrise
	IconSunLow
	IconSunLower
	IconMoon
	IconMoonNew
	IconMoonWaxingCrescent
	IconMoonWaxingQuarter
	IconMoonWaxingGibbous
	IconMoonFull
	IconMoonWaningGibbous
	IconMoonWaningQuarter
	IconMoonWaningCrescent
	IconSnowflake
	IconTornado
	IconThermometer
	IconThermometerLow
	IconThermometerMediumLow
	IconThermometerMediumHigh
	IconThermometerHigh
	IconThermometerFull
	IconCelsius
	IconFahrenheit
	IconCompass
	IconCompassNorth
	IconCompassEast
	IconCompassSouth
	IconCompassWest
	IconUmbrella
	IconSunglasses
	IconCloudRefresh
	IconCloudUp
	IconCloudDown

	iconCount
)

// DefaultIcon is returned by ParseIcon for tokens outside the wire vocabulary.
const DefaultIcon = IconSun

type iconInfo struct {
	name  string
	glyph string // character in the Climacons font
}

var icons = [iconCount]iconInfo{
	IconUnknown:               {"unknown", "~"},
	IconCloud:                 {"cloud", "!"},
	IconCloudSun:              {"cloudSun", "'"},
	IconCloudMoon:             {"cloudMoon", "#"},
	IconRain:                  {"rain", "$"},
	IconRainSun:               {"rainSun", "%"},
	IconRainMoon:              {"rainMoon", "&"},
	IconShowers:               {"showers", `"`},
	IconShowersSun:            {"showersSun", "("},
	IconShowersMoon:           {"showersMoon", ")"},
	IconDownpour:              {"downpour", "*"},
	IconDownpourSun:           {"downpourSun", "+"},
	IconDownpourMoon:          {"downpourMoon", " "},
	IconDrizzle:               {"drizzle", "-"},
	IconDrizzleSun:            {"drizzleSun", "."},
	IconDrizzleMoon:           {"drizzleMoon", "/"},
	IconSleet:                 {"sleet", "0"},
	IconSleetSun:              {"sleetSun", "1"},
	IconSleetMoon:             {"sleetMoon", "2"},
	IconHail:                  {"hail", "3"},
	IconHailSun:               {"hailSun", "4"},
	IconHailMoon:              {"hailMoon", "5"},
	IconFlurries:              {"flurries", "6"},
	IconFlurriesSun:           {"flurriesSun", "7"},
	IconFlurriesMoon:          {"flurriesMoon", "8"},
	IconSnow:                  {"snow", "9"},
	IconSnowSun:               {"snowSun", ":"},
	IconSnowMoon:              {"snowMoon", ";"},
	IconFog:                   {"fog", "<"},
	IconFogSun:                {"fogSun", "="},
	IconFogMoon:               {"fogMoon", ">"},
	IconHaze:                  {"haze", "?"},
	IconHazeSun:               {"hazeSun", "@"},
	IconHazeMoon:              {"hazeMoon", "A"},
	IconWind:                  {"wind", "B"},
	IconWindCloud:             {"windCloud", "C"},
	IconWindCloudSun:          {"windCloudSun", "D"},
	IconWindCloudMoon:         {"windCloudMoon", "E"},
	IconLightning:             {"lightning", "F"},
	IconLightningSun:          {"lightningSun", "G"},
	IconLightningMoon:         {"lightningMoon", "H"},
	IconSun:                   {"sun", "I"},
	IconSunset:                {"sunset", "J"},
	IconSunrise:               {"sunrise", "K"},
	IconSunLow:                {"sunLow", "L"},
	IconSunLower:              {"sunLower", "M"},
	IconMoon:                  {"moon", "N"},
	IconMoonNew:               {"moonNew", "O"},
	IconMoonWaxingCrescent:    {"moonWaxingCrescent", "P"},
	IconMoonWaxingQuarter:     {"moonWaxingQuarter", "Q"},
	IconMoonWaxingGibbous:     {"moonWaxingGibbous", "R"},
	IconMoonFull:              {"moonFull", "S"},
	IconMoonWaningGibbous:     {"moonWaningGibbous", "T"},
	IconMoonWaningQuarter:     {"moonWaningQuarter", "U"},
	IconMoonWaningCrescent:    {"moonWaningCrescent", "V"},
	IconSnowflake:             {"snowflake", "W"},
	IconTornado:               {"tornado", "X"},
	IconThermometer:           {"thermometer", "Y"},
	IconThermometerLow:        {"thermometerLow", "Z"},
	IconThermometerMediumLow:  {"thermometerMediumLow", "["},
	IconThermometerMediumHigh: {"thermometerMediumHigh", `\`},
	IconThermometerHigh:       {"thermometerHigh", "]"},
	IconThermometerFull:       {"thermometerFull", "^"},
	IconCelsius:               {"celsius", "_"},
	IconFahrenheit:            {"fahrenheit", "`"},
	IconCompass:               {"compass", "a"},
	IconCompassNorth:          {"compassNorth", "b"},
	IconCompassEast:           {"compassEast", "c"},
	IconCompassSouth:          {"compassSouth", "d"},
	IconCompassWest:           {"compassWest", "e"},
	IconUmbrella:              {"umbrella", "f"},
	IconSunglasses:            {"sunglasses", "g"},
	IconCloudRefresh:          {"cloudRefresh", "h"},
	IconCloudUp:               {"cloudUp", "i"},
	IconCloudDown:             {"cloudDown", "j"},
}

// wireIcons is the upstream icon vocabulary. It is read-only after init.
var wireIcons = map[string]Icon{
	"clear-day":           IconSun,
	"clear-night":         IconMoon,
	"rain":                IconRain,
	"snow":                IconSnow,
	"sleet":               IconSleet,
	"wind":                IconWind,
	"fog":                 IconHaze,
	"cloudy":              IconCloud,
	"partly-cloudy-day":   IconCloudSun,
	"partly-cloudy-night": IconCloudMoon,
}

// iconTokens maps each reachable icon back to its token. Every other icon
// (moon phases, compass points, thermometer levels, fog variants, ...) has no
// wire representation.
var iconTokens = func() map[Icon]string {
	m := make(map[Icon]string, len(wireIcons))
	for token, icon := range wireIcons {
		m[icon] = token
	}
	return m
}()

var glyphIcons = func() map[string]Icon {
	m := make(map[string]Icon, len(icons))
	for i, info := range icons {
		m[info.glyph] = Icon(i)
	}
	return m
}()

// ParseIcon maps an upstream icon token to an Icon. It never fails: tokens
// outside the vocabulary resolve to DefaultIcon.
func ParseIcon(token string) Icon {
	if icon, ok := wireIcons[token]; ok {
		return icon
	}
	return DefaultIcon
}

// WireToken returns the upstream token for the icon, if it has one. It is an
// encode-only mapping and not the inverse of ParseIcon.
func (i Icon) WireToken() (string, bool) {
	token, ok := iconTokens[i]
	return token, ok
}

// Valid reports whether i is a member of the enumeration.
func (i Icon) Valid() bool { return i < iconCount }

func (i Icon) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Icon(%d)", uint8(i))
	}
	return icons[i].name
}

// Glyph returns the icon's character in the Climacons font.
func (i Icon) Glyph() string {
	if !i.Valid() {
		return icons[IconUnknown].glyph
	}
	return icons[i].glyph
}

func (i Icon) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("marshal icon: invalid value %d", uint8(i))
	}
	return []byte(icons[i].name), nil
}

// binaryToken is the persisted form of an icon: its wire token when it has
// one, otherwise its glyph. Tokens are words and glyphs single characters, so
// the two never collide.
func (i Icon) binaryToken() string {
	if token, ok := i.WireToken(); ok {
		return token
	}
	return i.Glyph()
}

func iconFromBinaryToken(s string) (Icon, bool) {
	if icon, ok := wireIcons[s]; ok {
		return icon, true
	}
	icon, ok := glyphIcons[s]
	return icon, ok
}
