package posts

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"

	"github.com/eringen/spacetraveling/prismic"
)

// displayLayout is "day-number abbreviated-month year", e.g. 19 jan 2022.
const displayLayout = "2 Jan 2006"

// DefaultLocale is the locale the listing page is written in.
var DefaultLocale = language.BrazilianPortuguese

type dateFormatter struct {
	locale monday.Locale
	loc    *time.Location
}

func newDateFormatter(tag language.Tag, loc *time.Location) (dateFormatter, error) {
	locale, err := mondayLocale(tag)
	if err != nil {
		return dateFormatter{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return dateFormatter{locale: locale, loc: loc}, nil
}

// mondayLocale maps a BCP 47 tag onto a locale of the month table, filling
// in the likely region when the tag has none ("pt" -> pt_BR).
func mondayLocale(tag language.Tag) (monday.Locale, error) {
	base, _ := tag.Base()
	region, _ := tag.Region()
	want := monday.Locale(base.String() + "_" + region.String())
	for _, l := range monday.ListLocales() {
		if strings.EqualFold(string(l), string(want)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("posts: no month table for locale %s", tag)
}

// format parses raw as a calendar timestamp and renders it in the display
// layout. ok is false when raw is empty or cannot be parsed.
func (f dateFormatter) format(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	t, err := prismic.ParseTimestamp(raw, f.loc)
	if err != nil {
		return "", false
	}
	return monday.Format(t.In(f.loc), displayLayout, f.locale), true
}
