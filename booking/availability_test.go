package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAvailableDatesStartsTodayAndSkipsBlackouts(t *testing.T) {
	today := date(2026, time.March, 2)
	got := AvailableDates([]string{"2026-03-03", "2026-03-05"}, nil, 7, today)

	assert.Equal(t, []string{
		"2026-03-02",
		"2026-03-04",
		"2026-03-06",
		"2026-03-07",
		"2026-03-08",
	}, got)
}

func TestAvailableDatesNeverBeforeTodayAndAscending(t *testing.T) {
	today := date(2026, time.June, 15)
	got := AvailableDates(nil, nil, 40, today)

	require.NotEmpty(t, got)
	assert.Equal(t, "2026-06-15", got[0])
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}

// A non-empty weekday blackout list behaves as an allow-list of exactly those
// weekdays. Counter-intuitive, but it is the shipped behavior and the widget
// depends on it.
func TestAvailableDatesWeekdayListKeepsOnlyListedDays(t *testing.T) {
	today := date(2026, time.March, 2) // a Monday
	got := AvailableDates(nil, []int{int(time.Saturday)}, 21, today)

	require.NotEmpty(t, got)
	for _, d := range got {
		day, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		assert.Equal(t, time.Saturday, day.Weekday(), "unexpected weekday for %s", d)
	}
	assert.Equal(t, []string{"2026-03-07", "2026-03-14", "2026-03-21"}, got)
}

func TestAvailableDatesWeekdayAllowListStillDropsBlackoutDates(t *testing.T) {
	today := date(2026, time.March, 2)
	got := AvailableDates([]string{"2026-03-14"}, []int{int(time.Saturday)}, 21, today)

	assert.Equal(t, []string{"2026-03-07", "2026-03-21"}, got)
}

func TestAvailableDatesEmptyWhenEverythingExcluded(t *testing.T) {
	today := date(2026, time.March, 2)
	blocked := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		blocked = append(blocked, today.AddDate(0, 0, i).Format("2006-01-02"))
	}

	got := AvailableDates(blocked, nil, 10, today)
	assert.Empty(t, got)
}

func TestAvailableDatesStopsAfterNextYear(t *testing.T) {
	today := date(2026, time.January, 1)
	got := AvailableDates(nil, nil, 1000, today)

	require.NotEmpty(t, got)
	assert.Equal(t, "2027-12-31", got[len(got)-1])
}

func TestAvailableDatesDefaultHorizon(t *testing.T) {
	today := date(2026, time.March, 2)
	got := AvailableDates(nil, nil, 0, today)

	assert.Len(t, got, DefaultHorizonDays)
}

func TestUnionBlackouts(t *testing.T) {
	packages := []PackageOption{
		{UnavailableDates: []string{"2026-04-01", "2026-04-02"}, UnavailableWeekdays: []int{0}},
		{UnavailableDates: []string{"2026-04-02", "2026-04-03"}, UnavailableWeekdays: []int{0, 6}},
	}

	dates, weekdays := UnionBlackouts(packages)
	assert.ElementsMatch(t, []string{"2026-04-01", "2026-04-02", "2026-04-03"}, dates)
	assert.ElementsMatch(t, []int{0, 6}, weekdays)
}
