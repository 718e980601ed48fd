package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	t, err := ParseDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDay(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := ParseDay("2026-09-03")
		require.NoError(t, err)
		assert.Equal(t, 2026, d.Year())
		assert.Equal(t, time.September, d.Month())
		assert.Equal(t, 3, d.Day())
		assert.Equal(t, time.UTC, d.Location())
	})

	t.Run("RejectsOtherFormats", func(t *testing.T) {
		for _, raw := range []string{"03.09.2026", "2026/09/03", "2026-9-3", "not-a-date", ""} {
			_, err := ParseDay(raw)
			assert.ErrorIs(t, err, ErrInvalidFormat, raw)
		}
	})
}

func TestDayTruncatesToUTC(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	local := time.Date(2026, 9, 3, 23, 45, 0, 0, berlin)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), Day(local))
}

func TestNew(t *testing.T) {
	t.Run("SingleDay", func(t *testing.T) {
		dr, err := New(day("2026-09-03"), day("2026-09-03"))
		require.NoError(t, err)
		assert.Equal(t, 1, dr.Days())
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		_, err := New(day("2026-09-04"), day("2026-09-03"))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestDaysInclusive(t *testing.T) {
	dr, err := Parse("2026-09-01", "2026-09-14")
	require.NoError(t, err)
	assert.Equal(t, 14, dr.Days())
}

func TestOverlaps(t *testing.T) {
	base, err := Parse("2026-09-05", "2026-09-10")
	require.NoError(t, err)

	cases := []struct {
		name     string
		start    string
		end      string
		overlaps bool
	}{
		{"Identical", "2026-09-05", "2026-09-10", true},
		{"SharedStartDay", "2026-09-01", "2026-09-05", true},
		{"SharedEndDay", "2026-09-10", "2026-09-12", true},
		{"Inside", "2026-09-06", "2026-09-08", true},
		{"Covering", "2026-09-01", "2026-09-20", true},
		{"Before", "2026-09-01", "2026-09-04", false},
		{"After", "2026-09-11", "2026-09-15", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other, err := Parse(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.overlaps, base.Overlaps(other))
			assert.Equal(t, tc.overlaps, other.Overlaps(base))
		})
	}
}

func TestEachDay(t *testing.T) {
	dr, err := Parse("2026-09-03", "2026-09-05")
	require.NoError(t, err)
	days := dr.EachDay()
	require.Len(t, days, 3)
	assert.Equal(t, day("2026-09-03"), days[0])
	assert.Equal(t, day("2026-09-05"), days[2])
}

func TestContainsDay(t *testing.T) {
	dr, err := Parse("2026-09-03", "2026-09-05")
	require.NoError(t, err)
	assert.True(t, dr.ContainsDay(day("2026-09-03")))
	assert.True(t, dr.ContainsDay(day("2026-09-05")))
	assert.False(t, dr.ContainsDay(day("2026-09-02")))
	assert.False(t, dr.ContainsDay(day("2026-09-06")))
}
