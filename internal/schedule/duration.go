package schedule

import "math"

// DurationTable maps story-point values to estimated working days. The
// larger buckets deliberately map super-linearly to guard against big
// underestimates; the table is fixed data, not a formula.
type DurationTable map[int]int

// DefaultDurations is the authoritative point-to-days mapping.
func DefaultDurations() DurationTable {
	return DurationTable{
		1:  1,
		2:  2,
		3:  3,
		5:  5,
		8:  10,
		13: 20,
	}
}

// Days converts a story-point estimate to a duration in days. Points in
// the table use the mapped value; any other positive value maps to itself,
// rounded up for fractional estimates. Absent or non-positive points mean
// one day.
func (t DurationTable) Days(points *float64) int {
	if points == nil || *points <= 0 {
		return 1
	}
	p := *points
	if p == math.Trunc(p) {
		if days, ok := t[int(p)]; ok {
			return days
		}
	}
	return int(math.Ceil(p))
}
