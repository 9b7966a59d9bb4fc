// percent implements a simple and straightforward type for percentage values
// and for progress notifications expressed as percentages.
package percent

import (
	"math"
	"strconv"
	"strings"
	"sync"
)

// Percent is a simple and straightforward type for percentage values
type Percent uint8

func FromInt(n int) Percent {
	switch {
	case n <= 0:
		return Percent(0)
	case n >= 100:
		return Percent(100)
	}
	return Percent(n)
}

func FromFloat(f float64) Percent {
	switch {
	case f <= 0 || math.IsNaN(f) || math.IsInf(f, -1):
		return Percent(0)
	case f >= 100 || math.IsInf(f, 1):
		return Percent(100)
	}
	return Percent(math.Round(f))
}

func FromString(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	n, err := strconv.Atoi(s)
	return FromInt(n), err
}

func (p Percent) String() string {
	return strconv.Itoa(int(p)) + "%"
}

// --- Progress --------------------------------------------------------------

// IndeterminateSpan is the number of bytes a transfer of unknown size has to
// deliver to reach the estimation cap.
const IndeterminateSpan = 2 * 1024 * 1024

// IndeterminateCap is the highest value an estimate for a transfer of unknown
// size will reach before completion.
const IndeterminateCap = Percent(90)

// OfTotal returns round(received/total*100). total must be positive.
func OfTotal(received, total int64) Percent {
	if total <= 0 {
		return Estimate(received)
	}
	return FromFloat(float64(received) / float64(total) * 100)
}

// Estimate returns a progress estimate for a transfer of unknown size,
// capped at IndeterminateCap.
func Estimate(received int64) Percent {
	p := FromFloat(float64(received) / IndeterminateSpan * 100)
	if p > IndeterminateCap {
		return IndeterminateCap
	}
	return p
}

// Func receives progress notifications.
type Func func(Percent)

// Tracker forwards progress notifications to a Func, guaranteeing that the
// sequence of values is non-decreasing and that it terminates with exactly
// one notification of 100. A nil Func is fine: notifications are dropped.
//
// Tracker is safe for use by multiple goroutines, but a single operation will
// usually own it.
type Tracker struct {
	mx   sync.Mutex
	f    Func
	last Percent
	seen bool
	done bool
}

// NewTracker creates a progress tracker forwarding to f.
func NewTracker(f Func) *Tracker {
	return &Tracker{f: f}
}

// Report forwards p if it does not fall behind earlier notifications.
// Values of 100 are held back until Done is called, as only completion of
// the operation may report 100.
func (t *Tracker) Report(p Percent) {
	if t == nil {
		return
	}
	t.mx.Lock()
	defer t.mx.Unlock()
	if t.done {
		return
	}
	if p >= 100 {
		p = 99
	}
	if t.seen && p <= t.last {
		return
	}
	t.last, t.seen = p, true
	if t.f != nil {
		t.f(p)
	}
}

// Done reports 100, exactly once.
func (t *Tracker) Done() {
	if t == nil {
		return
	}
	t.mx.Lock()
	defer t.mx.Unlock()
	if t.done {
		return
	}
	t.done, t.last, t.seen = true, 100, true
	if t.f != nil {
		t.f(100)
	}
}

// Last returns the most recent value reported.
func (t *Tracker) Last() Percent {
	t.mx.Lock()
	defer t.mx.Unlock()
	return t.last
}
