package prismic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampAcceptsISOShapes(t *testing.T) {
	want := time.Date(2022, 1, 19, 13, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2022-01-19T13:00:00+0000",
		"2022-01-19T13:00:00Z",
		"2022-01-19T10:00:00-03:00",
		" 2022-01-19T13:00:00+00:00 ",
	} {
		got, err := ParseTimestamp(raw, time.UTC)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s parsed as %s", raw, got)
	}

	got, err := ParseTimestamp("2022-01-19", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 19, got.Day())
}

func TestParseTimestampRejectsOtherShapes(t *testing.T) {
	for _, raw := range []string{"", "2022", "1642586400", "19/01/2022", "yesterday", "2022-13-45T99:99:99Z"} {
		_, err := ParseTimestamp(raw, time.UTC)
		assert.ErrorIs(t, err, ErrTimestamp, raw)
	}
}
