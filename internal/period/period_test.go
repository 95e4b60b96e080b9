package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, 19 August 2026.
var wednesday = time.Date(2026, 8, 19, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveSingleDayPresets(t *testing.T) {
	r, err := Resolve(Today, wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 8, 19), r.Start)
	assert.Equal(t, day(2026, 8, 19), r.End)

	r, err = Resolve(Yesterday, wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 8, 18), r.Start)
	assert.Equal(t, day(2026, 8, 18), r.End)
}

func TestResolveThisWeekRunsToDate(t *testing.T) {
	// A week in progress ends today, not next Saturday.
	r, err := Resolve(ThisWeek, wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 8, 16), r.Start, "week starts Sunday")
	assert.Equal(t, day(2026, 8, 19), r.End, "current week ends today")
}

func TestResolveLastWeekIsFullSundayToSaturday(t *testing.T) {
	r, err := Resolve(LastWeek, wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 8, 9), r.Start)
	assert.Equal(t, day(2026, 8, 15), r.End)
}

func TestResolveMonthAndYearPresets(t *testing.T) {
	r, err := Resolve(ThisMonth, wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 8, 1), r.Start)
	assert.Equal(t, day(2026, 8, 19), r.End)

	r, err = Resolve(LastMonth, wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 7, 1), r.Start)
	assert.Equal(t, day(2026, 7, 31), r.End)

	r, err = Resolve(ThisYear, wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 1), r.Start)
	assert.Equal(t, day(2026, 8, 19), r.End)

	r, err = Resolve(LastYear, wednesday)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 1, 1), r.Start)
	assert.Equal(t, day(2025, 12, 31), r.End)
}

func TestResolveUnknownPreset(t *testing.T) {
	_, err := Resolve(Preset("fortnight"), wednesday)
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestNewCustomRejectsInvertedRange(t *testing.T) {
	_, err := NewCustom(day(2026, 8, 20), day(2026, 8, 10))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNewCustomSingleDay(t *testing.T) {
	r, err := NewCustom(day(2026, 8, 19), day(2026, 8, 19))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
}

func TestDetectPresetRoundTrip(t *testing.T) {
	presets := []Preset{Today, Yesterday, ThisWeek, LastWeek, ThisMonth, LastMonth, ThisYear, LastYear}
	for _, p := range presets {
		r, err := Resolve(p, wednesday)
		require.NoError(t, err)
		assert.Equal(t, p, DetectPreset(r, wednesday), "preset %s must round-trip", p)
	}
}

func TestDetectPresetTieResolvesByPriority(t *testing.T) {
	// On a Sunday, this_week resolves to a single day equal to today;
	// detection must prefer today.
	sunday := time.Date(2026, 8, 16, 9, 0, 0, 0, time.UTC)
	r, err := Resolve(ThisWeek, sunday)
	require.NoError(t, err)
	assert.Equal(t, Today, DetectPreset(r, sunday))
}

func TestDetectPresetCustomFallback(t *testing.T) {
	r, err := NewCustom(day(2026, 8, 3), day(2026, 8, 12))
	require.NoError(t, err)
	assert.Equal(t, Custom, DetectPreset(r, wednesday))
}

func TestContainsIsCalendarDayInclusive(t *testing.T) {
	r, err := NewCustom(day(2026, 8, 10), day(2026, 8, 12))
	require.NoError(t, err)

	// Any instant on the end date is inside the range.
	assert.True(t, r.Contains(time.Date(2026, 8, 12, 23, 59, 59, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 8, 13, 0, 0, 1, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 8, 9, 23, 59, 59, 0, time.UTC)))
}
