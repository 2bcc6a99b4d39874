package darksky

import (
	"fmt"
	"net/url"
	"strings"
)

// Lang selects the language of summary strings in the response.
type Lang string

const (
	LangArabic             Lang = "ar"
	LangAzerbaijani        Lang = "az"
	LangBelarusian         Lang = "be"
	LangBosnian            Lang = "bs"
	LangCatalan            Lang = "ca"
	LangCzech              Lang = "cs"
	LangGerman             Lang = "de"
	LangGreek              Lang = "el"
	LangEnglish            Lang = "en"
	LangSpanish            Lang = "es"
	LangEstonian           Lang = "et"
	LangFrench             Lang = "fr"
	LangCroatian           Lang = "hr"
	LangHungarian          Lang = "hu"
	LangIndonesian         Lang = "id"
	LangItalian            Lang = "it"
	LangIcelandic          Lang = "is"
	LangCornish            Lang = "kw"
	LangNorwegian          Lang = "nb"
	LangDutch              Lang = "nl"
	LangPolish             Lang = "pl"
	LangPortuguese         Lang = "pt"
	LangRussian            Lang = "ru"
	LangSlovak             Lang = "sk"
	LangSlovenian          Lang = "sl"
	LangSerbian            Lang = "sr"
	LangSwedish            Lang = "sv"
	LangTetum              Lang = "tet"
	LangTurkish            Lang = "tr"
	LangUkrainian          Lang = "uk"
	LangPigLatin           Lang = "x-pig-latin"
	LangSimplifiedChinese  Lang = "zh"
	LangTraditionalChinese Lang = "zh-tw"
)

var langs = []Lang{
	LangArabic, LangAzerbaijani, LangBelarusian, LangBosnian, LangCatalan, LangCzech,
	LangGerman, LangGreek, LangEnglish, LangSpanish, LangEstonian, LangFrench,
	LangCroatian, LangHungarian, LangIndonesian, LangItalian, LangIcelandic, LangCornish,
	LangNorwegian, LangDutch, LangPolish, LangPortuguese, LangRussian, LangSlovak,
	LangSlovenian, LangSerbian, LangSwedish, LangTetum, LangTurkish, LangUkrainian,
	LangPigLatin, LangSimplifiedChinese, LangTraditionalChinese,
}

// ParseLang validates a language code.
func ParseLang(s string) (Lang, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range langs {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// Units selects the unit system of numeric fields.
type Units string

const (
	UnitsAuto Units = "auto" // based on the location
	UnitsCA   Units = "ca"   // SI, wind speed in km/h
	UnitsUK2  Units = "uk2"  // SI, distances and wind speed in miles
	UnitsUS   Units = "us"   // imperial
	UnitsSI   Units = "si"
)

// ParseUnits validates a units name.
func ParseUnits(s string) (Units, error) {
	switch u := Units(strings.ToLower(strings.TrimSpace(s))); u {
	case UnitsAuto, UnitsCA, UnitsUK2, UnitsUS, UnitsSI:
		return u, nil
	default:
		return "", fmt.Errorf("unknown units %q", s)
	}
}

// Section is a top-level response block that can be excluded from the response.
type Section string

const (
	SectionCurrently Section = "currently"
	SectionMinutely  Section = "minutely"
	SectionHourly    Section = "hourly"
	SectionDaily     Section = "daily"
	SectionAlerts    Section = "alerts"
	SectionFlags     Section = "flags"
)

// ParseSection validates a section name.
func ParseSection(s string) (Section, error) {
	switch sec := Section(strings.ToLower(strings.TrimSpace(s))); sec {
	case SectionCurrently, SectionMinutely, SectionHourly, SectionDaily, SectionAlerts, SectionFlags:
		return sec, nil
	default:
		return "", fmt.Errorf("unknown section %q", s)
	}
}

// ParseSections parses a comma-separated section list. Empty input yields nil.
func ParseSections(s string) ([]Section, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]Section, 0, len(parts))
	for _, p := range parts {
		sec, err := ParseSection(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, nil
}

// Options are the request parameters shared by every call a Client makes.
type Options struct {
	Lang    Lang
	Units   Units
	Exclude []Section
	Extend  bool // 168 hours of hourly data instead of 48
}

// DefaultOptions requests English summaries in US units with every section.
func DefaultOptions() Options {
	return Options{Lang: LangEnglish, Units: UnitsUS}
}

func (o Options) query() url.Values {
	lang, units := o.Lang, o.Units
	if lang == "" {
		lang = LangEnglish
	}
	if units == "" {
		units = UnitsUS
	}
	q := url.Values{
		"lang":  {string(lang)},
		"units": {string(units)},
	}
	if len(o.Exclude) > 0 {
		names := make([]string, len(o.Exclude))
		for i, s := range o.Exclude {
			names[i] = string(s)
		}
		q.Set("exclude", strings.Join(names, ","))
	}
	if o.Extend {
		q.Set("extend", "hourly")
	}
	return q
}

// ParseOptions builds Options from their configuration strings.
func ParseOptions(lang, units, exclude string, extend bool) (Options, error) {
	l, err := ParseLang(lang)
	if err != nil {
		return Options{}, err
	}
	u, err := ParseUnits(units)
	if err != nil {
		return Options{}, err
	}
	sections, err := ParseSections(exclude)
	if err != nil {
		return Options{}, err
	}
	return Options{Lang: l, Units: u, Exclude: sections, Extend: extend}, nil
}
