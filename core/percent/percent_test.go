package percent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversions(t *testing.T) {
	assert.Equal(t, Percent(0), FromInt(-5))
	assert.Equal(t, Percent(100), FromInt(250))
	assert.Equal(t, Percent(43), FromFloat(42.5))
	p, err := FromString(" 42% ")
	assert.NoError(t, err)
	assert.Equal(t, Percent(42), p)
	assert.Equal(t, "42%", p.String())
}

func TestOfTotal(t *testing.T) {
	assert.Equal(t, Percent(33), OfTotal(1, 3))
	assert.Equal(t, Percent(67), OfTotal(2, 3))
	assert.Equal(t, Percent(100), OfTotal(3, 3))
}

func TestEstimateIsCapped(t *testing.T) {
	assert.Equal(t, Percent(50), Estimate(IndeterminateSpan/2))
	assert.Equal(t, IndeterminateCap, Estimate(IndeterminateSpan))
	assert.Equal(t, IndeterminateCap, Estimate(10*IndeterminateSpan))
}

func TestTrackerIsMonotoneAndEndsAt100(t *testing.T) {
	var seen []Percent
	tr := NewTracker(func(p Percent) { seen = append(seen, p) })
	for _, p := range []Percent{10, 5, 10, 40, 100, 100, 90} {
		tr.Report(p)
	}
	tr.Done()
	tr.Done()
	tr.Report(20)
	assert.Equal(t, []Percent{10, 40, 99, 100}, seen)
	assert.Equal(t, Percent(100), tr.Last())
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	tr.Report(10)
	tr.Done()
	NewTracker(nil).Done()
}
