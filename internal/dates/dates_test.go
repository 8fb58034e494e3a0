package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

func day(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := ParseDay(v)
	require.NoError(t, err)
	return d
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2025-01-10", FormatDay(d))

	for _, bad := range []string{"", "2025-1-10", "2025-01-10T00:00:00Z", "2025-02-30", "10/01/2025"} {
		_, err := ParseDay(bad)
		require.Error(t, err, bad)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidRange), bad)
	}
}

func TestNightsAndValidate(t *testing.T) {
	r := Range{Start: day(t, "2025-01-10"), End: day(t, "2025-01-15")}
	assert.Equal(t, 5, r.Nights())
	assert.NoError(t, r.Validate())

	same := Range{Start: day(t, "2025-01-10"), End: day(t, "2025-01-10")}
	assert.Equal(t, 0, same.Nights())
	assert.True(t, pkgerrors.IsCode(same.Validate(), pkgerrors.CodeInvalidRange))

	inverted := Range{Start: day(t, "2025-01-15"), End: day(t, "2025-01-10")}
	assert.True(t, pkgerrors.IsCode(inverted.Validate(), pkgerrors.CodeInvalidRange))
}

func TestNightsAcrossDSTAndLeapDay(t *testing.T) {
	r := New(time.Date(2024, 2, 28, 15, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, r.Nights())

	loc := time.FixedZone("UTC+5:30", 5*3600+1800)
	shifted := New(time.Date(2025, 3, 29, 23, 0, 0, 0, loc), time.Date(2025, 4, 2, 1, 0, 0, 0, loc))
	assert.Equal(t, 4, shifted.Nights())
	assert.Equal(t, time.UTC, shifted.Start.Location())
}

func TestNightsBeyondDurationRange(t *testing.T) {
	r := Range{Start: day(t, "1700-01-01"), End: day(t, "2100-01-01")}
	assert.Equal(t, 146097, r.Nights())
}

func TestOverlapsHalfOpen(t *testing.T) {
	base := Range{Start: day(t, "2025-01-10"), End: day(t, "2025-01-15")}

	cases := []struct {
		name  string
		other Range
		want  bool
	}{
		{"identical", base, true},
		{"inside", Range{day(t, "2025-01-11"), day(t, "2025-01-12")}, true},
		{"covering", Range{day(t, "2025-01-01"), day(t, "2025-01-31")}, true},
		{"tail overlap", Range{day(t, "2025-01-14"), day(t, "2025-01-18")}, true},
		{"head overlap", Range{day(t, "2025-01-05"), day(t, "2025-01-11")}, true},
		{"back to back after", Range{day(t, "2025-01-15"), day(t, "2025-01-20")}, false},
		{"back to back before", Range{day(t, "2025-01-05"), day(t, "2025-01-10")}, false},
		{"disjoint", Range{day(t, "2025-02-01"), day(t, "2025-02-03")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestParseRange(t *testing.T) {
	r, err := Parse("2025-01-10", "2025-01-12")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Nights())
	assert.Equal(t, "2025-01-10/2025-01-12", r.String())
	assert.True(t, r.Contains(day(t, "2025-01-11")))
	assert.False(t, r.Contains(day(t, "2025-01-12")))

	_, err = Parse("2025-01-10", "2025-01-10")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidRange))
}

func TestWindowAdmits(t *testing.T) {
	r := Range{Start: day(t, "2025-01-10"), End: day(t, "2025-01-15")}

	assert.True(t, Window{}.Admits(r))
	assert.True(t, Window{From: day(t, "2025-01-14")}.Admits(r))
	assert.False(t, Window{From: day(t, "2025-01-15")}.Admits(r))
	assert.True(t, Window{To: day(t, "2025-01-11")}.Admits(r))
	assert.False(t, Window{To: day(t, "2025-01-10")}.Admits(r))

	assert.Error(t, Window{From: day(t, "2025-02-01"), To: day(t, "2025-01-01")}.Validate())
	assert.NoError(t, Window{From: day(t, "2025-01-01")}.Validate())
	assert.Equal(t, day(t, "2025-01-12"), AddDays(day(t, "2025-01-10"), 2))
}
