package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTierPackage(name string, adultPrice, childPrice float64) PackageOption {
	return PackageOption{
		Name: name,
		Categories: NormalizeCategories([]AgeCategory{
			{Label: "Adult", MinAge: 13, Price: adultPrice},
			{Label: "Child", MinAge: 4, MaxAge: intPtr(12), Price: childPrice},
		}, 0),
		TimeSlots: []TimeSlot{
			{StartTime: "09:00", EndTime: "12:00", Capacity: 8},
			{StartTime: "14:00", EndTime: "17:00", Capacity: 8},
		},
	}
}

func TestSelectPackageDefaultsCountsAndStartTime(t *testing.T) {
	packages := []PackageOption{twoTierPackage("Standard", 50, 30)}
	sel := NewSelection(packages, 0)

	sel.SelectPackage(0)

	require.NotNil(t, sel.PackageIndex)
	assert.Equal(t, "09:00", sel.StartTime)

	counts := sel.Counts()
	assert.Equal(t, 1, counts[packages[0].Categories[0].Key()])
	assert.Equal(t, 0, counts[packages[0].Categories[1].Key()])
	assert.Equal(t, 1, sel.TotalParticipants())
}

func TestSelectPackageOutOfRangeIsIgnored(t *testing.T) {
	sel := NewSelection([]PackageOption{twoTierPackage("Standard", 50, 30)}, 0)

	sel.SelectPackage(3)
	assert.Nil(t, sel.PackageIndex)
	sel.SelectPackage(-1)
	assert.Nil(t, sel.PackageIndex)
}

func TestIncrementRequiresDateAndStartTime(t *testing.T) {
	packages := []PackageOption{twoTierPackage("Standard", 50, 30)}
	sel := NewSelection(packages, 0)
	sel.SelectPackage(0)
	adult := packages[0].Categories[0].Key()

	// No date yet.
	assert.False(t, sel.Increment(adult))

	sel.SetDate("2026-05-01")
	assert.True(t, sel.Increment(adult))

	sel.SetStartTime("")
	assert.False(t, sel.Increment(adult))
}

func TestIncrementCapsAtMaxPeople(t *testing.T) {
	packages := []PackageOption{twoTierPackage("Standard", 50, 30)}
	sel := NewSelection(packages, 3)
	sel.SelectPackage(0)
	sel.SetDate("2026-05-01")
	adult := packages[0].Categories[0].Key()

	// Default Adult:1; two more increments reach the cap of 3, the third is
	// rejected and the total never exceeds it.
	assert.True(t, sel.Increment(adult))
	assert.True(t, sel.Increment(adult))
	assert.False(t, sel.Increment(adult))
	assert.Equal(t, 3, sel.TotalParticipants())
}

func TestCapCountsAcrossAllCategories(t *testing.T) {
	packages := []PackageOption{twoTierPackage("Standard", 50, 30)}
	sel := NewSelection(packages, 3)
	sel.SelectPackage(0)
	sel.SetDate("2026-05-01")
	adult := packages[0].Categories[0].Key()
	child := packages[0].Categories[1].Key()

	assert.True(t, sel.Increment(child))
	assert.True(t, sel.Increment(child))
	assert.False(t, sel.Increment(adult))
	assert.Equal(t, 3, sel.TotalParticipants())
}

func TestDecrementFloors(t *testing.T) {
	packages := []PackageOption{twoTierPackage("Standard", 50, 30)}
	sel := NewSelection(packages, 0)
	sel.SelectPackage(0)
	sel.SetDate("2026-05-01")
	adult := packages[0].Categories[0].Key()
	child := packages[0].Categories[1].Key()

	// Adult sits at its floor of 1 already.
	assert.False(t, sel.Decrement(adult))
	assert.Equal(t, 1, sel.Counts()[adult])

	require.True(t, sel.Increment(child))
	assert.True(t, sel.Decrement(child))
	assert.False(t, sel.Decrement(child))
	assert.Equal(t, 0, sel.Counts()[child])
}

func TestClearAllIsIdempotent(t *testing.T) {
	packages := []PackageOption{twoTierPackage("Standard", 50, 30)}
	sel := NewSelection(packages, 0)
	sel.SelectPackage(0)
	sel.SetDate("2026-05-01")
	sel.Increment(packages[0].Categories[0].Key())

	sel.ClearAll()
	first := *sel

	sel.ClearAll()
	assert.Nil(t, sel.PackageIndex)
	assert.Empty(t, sel.Date)
	assert.Empty(t, sel.StartTime)
	assert.Empty(t, sel.Counts())
	assert.Equal(t, first.PackageIndex, sel.PackageIndex)
	assert.Equal(t, first.Date, sel.Date)
	assert.Equal(t, first.StartTime, sel.StartTime)
}

func TestSwitchingPackagesResetsHeadcounts(t *testing.T) {
	packages := []PackageOption{
		twoTierPackage("Standard", 50, 30),
		twoTierPackage("Premium", 90, 60),
	}
	sel := NewSelection(packages, 0)

	sel.SelectPackage(0)
	sel.SetDate("2026-05-01")
	adult := packages[0].Categories[0].Key()
	require.True(t, sel.Increment(adult)) // Adult now 2

	sel.SelectPackage(1)
	counts := sel.Counts()
	assert.Equal(t, 1, counts[packages[1].Categories[0].Key()])
	assert.Equal(t, 0, counts[packages[1].Categories[1].Key()])
	assert.Equal(t, 1, sel.TotalParticipants())

	// Switching back does not resurrect the old counts either.
	sel.SelectPackage(0)
	assert.Equal(t, 1, sel.TotalParticipants())
}

func TestSetDateKeepsHeadcounts(t *testing.T) {
	packages := []PackageOption{twoTierPackage("Standard", 50, 30)}
	sel := NewSelection(packages, 0)
	sel.SelectPackage(0)
	sel.SetDate("2026-05-01")
	adult := packages[0].Categories[0].Key()
	require.True(t, sel.Increment(adult))

	sel.SetDate("2026-05-02")
	assert.Equal(t, 2, sel.Counts()[adult])
	assert.Equal(t, "09:00", sel.StartTime)
}

func TestSelectionTotal(t *testing.T) {
	packages := []PackageOption{twoTierPackage("Standard", 50, 30)}
	sel := NewSelection(packages, 0)

	assert.Equal(t, 0.0, sel.Total())

	sel.SelectPackage(0)
	sel.SetDate("2026-05-01")
	sel.Increment(packages[0].Categories[0].Key())
	sel.Increment(packages[0].Categories[1].Key())

	// Adult:2 × 50 + Child:1 × 30
	assert.Equal(t, 130.0, sel.Total())
}
