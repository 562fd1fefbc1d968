package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationTable_MappedValues(t *testing.T) {
	table := DefaultDurations()

	cases := map[float64]int{
		1:  1,
		2:  2,
		3:  3,
		5:  5,
		8:  10,
		13: 20,
	}
	for pts, want := range cases {
		t.Run(fmt.Sprintf("%v points", pts), func(t *testing.T) {
			p := pts
			assert.Equal(t, want, table.Days(&p))
		})
	}
}

func TestDurationTable_UnmappedValuesPassThrough(t *testing.T) {
	table := DefaultDurations()

	twenty := 20.0
	assert.Equal(t, 20, table.Days(&twenty), "values outside the table map to themselves")

	seven := 7.0
	assert.Equal(t, 7, table.Days(&seven))
}

func TestDurationTable_FractionalRoundsUp(t *testing.T) {
	table := DefaultDurations()

	half := 2.5
	assert.Equal(t, 3, table.Days(&half))
}

func TestDurationTable_AbsentOrNonPositive(t *testing.T) {
	table := DefaultDurations()

	assert.Equal(t, 1, table.Days(nil))

	zero := 0.0
	assert.Equal(t, 1, table.Days(&zero))

	negative := -3.0
	assert.Equal(t, 1, table.Days(&negative))
}

func TestProgressTable_Fraction(t *testing.T) {
	table := DefaultProgress()

	assert.Equal(t, 1.0, table.Fraction("Done"))
	assert.Equal(t, 1.0, table.Fraction("CLOSED"))
	assert.Equal(t, 1.0, table.Fraction("resolved"))
	assert.Equal(t, 0.5, table.Fraction("In Progress"))
	assert.Equal(t, 0.0, table.Fraction("To Do"))
	assert.Equal(t, 0.0, table.Fraction(""))
	assert.Equal(t, 0.0, table.Fraction("-"))
}
