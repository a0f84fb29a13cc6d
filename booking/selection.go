package booking

// DefaultMaxPeople caps total participants when the experience sets no limit.
const DefaultMaxPeople = 32

// Selection is the booking widget's in-progress state: one value object that
// every transition below mutates in place, so the whole flow can be exercised
// without a rendering environment.
//
// Headcounts are kept per package index; package rows are replaced wholesale
// on every experience edit, so no identifier outlives the catalog snapshot the
// selection was built from.
type Selection struct {
	PackageIndex *int
	Date         string // ISO YYYY-MM-DD, empty until chosen
	StartTime    string

	packages   []PackageOption
	maxPeople  int
	headcounts map[int]Headcounts
}

// NewSelection builds an empty selection over a normalized package catalog.
// maxPeople <= 0 falls back to DefaultMaxPeople.
func NewSelection(packages []PackageOption, maxPeople int) *Selection {
	if maxPeople <= 0 {
		maxPeople = DefaultMaxPeople
	}
	return &Selection{
		packages:   packages,
		maxPeople:  maxPeople,
		headcounts: map[int]Headcounts{},
	}
}

// Package returns the currently selected package, if any.
func (s *Selection) Package() (PackageOption, bool) {
	if s.PackageIndex == nil {
		return PackageOption{}, false
	}
	return s.packages[*s.PackageIndex], true
}

// SelectPackage switches to the package at index i, resets its headcounts to
// the defaults (first tier 1, everything else 0) and re-derives the start
// time from the package's first slot. Out-of-range indexes are ignored.
func (s *Selection) SelectPackage(i int) {
	if i < 0 || i >= len(s.packages) {
		return
	}
	s.PackageIndex = &i
	s.headcounts[i] = defaultCounts(s.packages[i].Categories)
	s.StartTime = ""
	if slots := s.packages[i].TimeSlots; len(slots) > 0 {
		s.StartTime = slots[0].StartTime
	}
}

// SetDate records the chosen date. Headcounts are deliberately untouched;
// only package switches reset them. The start time is re-derived when the
// current one no longer matches a slot of the selected package.
func (s *Selection) SetDate(date string) {
	s.Date = date
	pkg, ok := s.Package()
	if !ok {
		return
	}
	for _, slot := range pkg.TimeSlots {
		if slot.StartTime == s.StartTime {
			return
		}
	}
	s.StartTime = ""
	if len(pkg.TimeSlots) > 0 {
		s.StartTime = pkg.TimeSlots[0].StartTime
	}
}

// SetStartTime records the chosen slot start time.
func (s *Selection) SetStartTime(t string) {
	s.StartTime = t
}

// Increment raises the count for the given category key by one. It reports
// whether anything changed: a date and a start time must both be chosen, and
// the running total across all tiers must stay strictly below the cap.
func (s *Selection) Increment(key string) bool {
	if s.Date == "" || s.StartTime == "" || s.PackageIndex == nil {
		return false
	}
	if s.TotalParticipants() >= s.maxPeople {
		return false
	}
	s.headcounts[*s.PackageIndex][key]++
	return true
}

// Decrement lowers the count for the given category key by one, respecting
// the floor: 1 for the first (adult-equivalent) tier, 0 for every other.
func (s *Selection) Decrement(key string) bool {
	if s.Date == "" || s.StartTime == "" || s.PackageIndex == nil {
		return false
	}
	pkg := s.packages[*s.PackageIndex]
	counts := s.headcounts[*s.PackageIndex]

	floor := 0
	if len(pkg.Categories) > 0 && pkg.Categories[0].Key() == key {
		floor = 1
	}
	if counts[key] <= floor {
		return false
	}
	counts[key]--
	return true
}

// ClearAll restarts the widget: no package, no date, no counts. Calling it
// twice in a row is the same as calling it once.
func (s *Selection) ClearAll() {
	s.PackageIndex = nil
	s.Date = ""
	s.StartTime = ""
	s.headcounts = map[int]Headcounts{}
}

// Counts returns the headcount map of the selected package (empty when none).
func (s *Selection) Counts() Headcounts {
	if s.PackageIndex == nil {
		return Headcounts{}
	}
	counts, ok := s.headcounts[*s.PackageIndex]
	if !ok {
		return Headcounts{}
	}
	return counts
}

// TotalParticipants sums the counts across every tier of the selected package.
func (s *Selection) TotalParticipants() int {
	total := 0
	for _, n := range s.Counts() {
		total += n
	}
	return total
}

// Total is the price of the current selection.
func (s *Selection) Total() float64 {
	pkg, ok := s.Package()
	if !ok {
		return 0
	}
	return Total(pkg.Categories, s.Counts())
}

func defaultCounts(categories []AgeCategory) Headcounts {
	counts := Headcounts{}
	for i, c := range categories {
		if i == 0 {
			counts[c.Key()] = 1
			continue
		}
		counts[c.Key()] = 0
	}
	return counts
}
