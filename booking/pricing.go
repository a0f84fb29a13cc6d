package booking

import "fmt"

// Headcounts maps a category key (see AgeCategory.Key) to a participant count.
type Headcounts map[string]int

// Total sums price × headcount across the package's tiers. Missing keys count
// as zero; counts are validated non-negative by the selection controller.
func Total(categories []AgeCategory, counts Headcounts) float64 {
	var total float64
	for _, c := range categories {
		total += c.Price * float64(counts[c.Key()])
	}
	return total
}

// representativePrice is the headline tier of a package: categories are kept
// sorted by descending MinAge, so the first one is the adult-equivalent tier.
func representativePrice(p PackageOption, basePrice float64) float64 {
	if len(p.Categories) == 0 {
		return basePrice
	}
	return p.Categories[0].Price
}

// FromPrice is the "from X" display price before any package is chosen: the
// minimum representative price across packages, or basePrice without packages.
func FromPrice(packages []PackageOption, basePrice float64) float64 {
	if len(packages) == 0 {
		return basePrice
	}
	min := representativePrice(packages[0], basePrice)
	for _, p := range packages[1:] {
		if r := representativePrice(p, basePrice); r < min {
			min = r
		}
	}
	return min
}

// DisplayPrice renders the headline price for the current selection state.
// Before a date is chosen the representative price is shown; once a date is
// chosen the running total is shown, as "-" while it is still exactly zero so
// an unfilled widget never advertises a free booking.
func DisplayPrice(sel *Selection, packages []PackageOption, basePrice float64) string {
	if sel == nil || sel.PackageIndex == nil {
		return FormatPrice(FromPrice(packages, basePrice))
	}
	pkg := packages[*sel.PackageIndex]
	if sel.Date == "" {
		return FormatPrice(representativePrice(pkg, basePrice))
	}
	total := Total(pkg.Categories, sel.Counts())
	if total == 0 {
		return "-"
	}
	return FormatPrice(total)
}

// FormatPrice renders a price with two decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
