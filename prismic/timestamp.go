package prismic

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrTimestamp is returned for values that are not ISO 8601 dates or
// timestamps.
var ErrTimestamp = errors.New("prismic: not an ISO 8601 timestamp")

// isoShape matches YYYY-MM-DD optionally followed by a time of day. Bare years
// and unix seconds, which dateparse would also accept, do not match.
var isoShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}.*)?$`)

// ParseTimestamp parses a publication timestamp such as
// 2021-03-25T19:25:28+0000. Values without an offset are read in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if !isoShape.MatchString(raw) {
		return time.Time{}, ErrTimestamp
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, errors.Join(ErrTimestamp, err)
	}
	return t, nil
}
