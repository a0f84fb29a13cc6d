package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestTotalIsSumOfProducts(t *testing.T) {
	cats := []AgeCategory{
		{Label: "Adult", MinAge: 13, Price: 50},
		{Label: "Child", MinAge: 4, MaxAge: intPtr(12), Price: 30},
	}

	total := Total(cats, Headcounts{"adult": 2, "child": 1})
	assert.Equal(t, 130.0, total)
}

func TestTotalMissingKeysCountAsZero(t *testing.T) {
	cats := []AgeCategory{
		{Label: "Adult", MinAge: 13, Price: 50},
		{Label: "Child", MinAge: 4, MaxAge: intPtr(12), Price: 30},
	}

	assert.Equal(t, 0.0, Total(cats, Headcounts{}))
	assert.Equal(t, 50.0, Total(cats, Headcounts{"adult": 1, "senior": 4}))
}

func TestTotalKeyedBySyntheticIDAfterNormalize(t *testing.T) {
	cats := NormalizeCategories([]AgeCategory{
		{Label: "Adult", MinAge: 13, Price: 50},
		{Label: "Child", MinAge: 4, MaxAge: intPtr(12), Price: 30},
	}, 0)

	require.NotEmpty(t, cats[0].ID)
	total := Total(cats, Headcounts{cats[0].Key(): 2, cats[1].Key(): 1})
	assert.Equal(t, 130.0, total)
}

func TestFromPricePicksCheapestRepresentativeTier(t *testing.T) {
	packages := []PackageOption{
		{Categories: NormalizeCategories([]AgeCategory{
			{Label: "Adult", MinAge: 13, Price: 80},
			{Label: "Child", MinAge: 4, Price: 50},
		}, 0)},
		{Categories: NormalizeCategories([]AgeCategory{
			{Label: "Adult", MinAge: 13, Price: 60},
		}, 0)},
	}

	// Representative price is the highest-MinAge tier per package: 80 vs 60.
	assert.Equal(t, 60.0, FromPrice(packages, 99))
}

func TestFromPriceFallsBackToBasePrice(t *testing.T) {
	assert.Equal(t, 45.0, FromPrice(nil, 45))
	assert.Equal(t, 45.0, FromPrice([]PackageOption{{}}, 45))
}

func TestDisplayPriceStates(t *testing.T) {
	packages := []PackageOption{
		{
			Categories: NormalizeCategories([]AgeCategory{
				{Label: "Adult", MinAge: 13, Price: 80},
				{Label: "Child", MinAge: 4, Price: 50},
			}, 0),
			TimeSlots: []TimeSlot{{StartTime: "09:00", EndTime: "12:00", Capacity: 10}},
		},
	}

	// Nothing selected: the cross-package from-price.
	assert.Equal(t, "80.00", DisplayPrice(nil, packages, 99))

	sel := NewSelection(packages, 0)
	assert.Equal(t, "80.00", DisplayPrice(sel, packages, 99))

	// Package chosen, no date: that package's representative price.
	sel.SelectPackage(0)
	assert.Equal(t, "80.00", DisplayPrice(sel, packages, 99))

	// Date chosen: running total (default Adult:1).
	sel.SetDate("2026-05-01")
	assert.Equal(t, "80.00", DisplayPrice(sel, packages, 99))

	sel.Increment(packages[0].Categories[1].Key())
	assert.Equal(t, "130.00", DisplayPrice(sel, packages, 99))
}

func TestDisplayPriceDashWhenTotalZero(t *testing.T) {
	packages := []PackageOption{
		{
			Categories: NormalizeCategories([]AgeCategory{
				{Label: "Adult", MinAge: 13, Price: 0},
			}, 0),
			TimeSlots: []TimeSlot{{StartTime: "09:00"}},
		},
	}

	sel := NewSelection(packages, 0)
	sel.SelectPackage(0)
	sel.SetDate("2026-05-01")

	assert.Equal(t, "-", DisplayPrice(sel, packages, 0))
}

func TestDefaultCategoriesSchedule(t *testing.T) {
	cats := NormalizeCategories(nil, 100)

	require.Len(t, cats, 3)
	assert.Equal(t, "Adult", cats[0].Label)
	assert.Equal(t, 100.0, cats[0].Price)
	assert.Nil(t, cats[0].MaxAge)
	assert.Equal(t, "Child", cats[1].Label)
	assert.Equal(t, 50.0, cats[1].Price)
	assert.Equal(t, "Infant", cats[2].Label)
	assert.Equal(t, 0.0, cats[2].Price)

	for _, c := range cats {
		assert.NotEmpty(t, c.ID)
		if c.MaxAge != nil {
			assert.Greater(t, *c.MaxAge, c.MinAge)
		}
	}
}

func TestNormalizeCategoriesSortsByDescendingMinAge(t *testing.T) {
	cats := NormalizeCategories([]AgeCategory{
		{Label: "Infant", MinAge: 0, Price: 0},
		{Label: "Adult", MinAge: 13, Price: 80},
		{Label: "Child", MinAge: 4, Price: 50},
	}, 0)

	assert.Equal(t, []string{"Adult", "Child", "Infant"}, []string{cats[0].Label, cats[1].Label, cats[2].Label})
}
