package calendar

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_MidnightBoundary(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{
			name:     "late evening local is still the previous UTC day",
			now:      time.Date(2025, 5, 2, 2, 59, 59, 0, time.UTC),
			expected: "2025-05-01",
		},
		{
			name:     "exactly local midnight starts the new day",
			now:      time.Date(2025, 5, 2, 3, 0, 0, 0, time.UTC),
			expected: "2025-05-02",
		},
		{
			name:     "one second before local midnight",
			now:      time.Date(2025, 5, 2, 2, 59, 59, 999, time.UTC),
			expected: "2025-05-01",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Today(tc.now, DefaultLocation))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  string
		expectErr bool
	}{
		{raw: "2025-05-01", expected: "2025-05-01"},
		{raw: "2025-05-01T03:00:00.000Z", expected: "2025-05-01"},
		{raw: "01-05-2025", expected: "2025-05-01"},
		{raw: " 2025-12-31 ", expected: "2025-12-31"},
		{raw: "2025-13-01", expectErr: true},
		{raw: "mañana", expectErr: true},
		{raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := NormalizeDate(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSameDay_UsesDisplayEquality(t *testing.T) {
	assert.True(t, SameDay("2025-05-01", "01-05-2025"))
	assert.True(t, SameDay("2025-05-01T23:59:59.000Z", "2025-05-01"))
	assert.False(t, SameDay("2025-05-01", "2025-05-02"))
	assert.Equal(t, "01-05-2025", DisplayDate("2025-05-01"))
}

func TestNormalizeTime(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  string
		expectErr bool
	}{
		{raw: "20:00", expected: "20:00"},
		{raw: "20:00:00", expected: "20:00"},
		{raw: "9:30", expected: "09:30"},
		{raw: "00:00", expected: "00:00"},
		{raw: "24:00", expectErr: true},
		{raw: "12:5", expectErr: true},
		{raw: "12:60", expectErr: true},
		{raw: "noon", expectErr: true},
		{raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := NormalizeTime(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMinuteKey_Midnight(t *testing.T) {
	assert.Equal(t, 1440, MinuteKey("00:00"))
	assert.Equal(t, 1410, MinuteKey("23:30"))
	assert.Equal(t, 30, MinuteKey("00:30"))
	assert.Equal(t, 1200, MinuteKey("20:00:00"))

	times := []string{"00:00", "23:30", "00:30", "19:00", "bogus"}
	sort.SliceStable(times, func(i, j int) bool { return TimeLess(times[i], times[j]) })
	assert.Equal(t, []string{"00:30", "19:00", "23:30", "00:00", "bogus"}, times)
}

func TestParseOffset(t *testing.T) {
	loc, err := ParseOffset("-03:00")
	require.NoError(t, err)
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -3*3600, offset)

	loc, err = ParseOffset("+05:30")
	require.NoError(t, err)
	_, offset = time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*3600+30*60, offset)

	loc, err = ParseOffset("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocation, loc)

	for _, bad := range []string{"-3x", "--3", "+-03:00", "-15:00", "-03:60"} {
		_, err = ParseOffset(bad)
		assert.Error(t, err, bad)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "jueves 1 de mayo", LongLabel("2025-05-01"))
	assert.Equal(t, "1 de mayo", DayMonth("2025-05-01T03:00:00Z"))
	assert.Equal(t, "garbage", LongLabel("garbage"))
}
