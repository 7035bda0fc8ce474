// Package clock provides the monotonic tick source the interrupt
// controller polls for timer interrupts, generalized from the teacher's
// own time.Sleep/Tick cycle-pacing idiom into an injectable interface so
// tests never sleep in real wall-clock time.
package clock

import "time"

// Source reports monotonic elapsed seconds since some fixed epoch. Only
// differences between successive calls are meaningful.
type Source interface {
	Seconds() float64
}

// Real wraps time.Now for production use.
type Real struct {
	start time.Time
}

// NewReal returns a Source anchored to the moment it is constructed.
func NewReal() *Real {
	return &Real{start: time.Now()}
}

func (r *Real) Seconds() float64 {
	return time.Since(r.start).Seconds()
}

// Fake is a settable clock for deterministic tests.
type Fake struct {
	now float64
}

// NewFake returns a Fake clock starting at t=0.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Seconds() float64 {
	return f.now
}

// Advance moves the fake clock forward by d seconds.
func (f *Fake) Advance(d float64) {
	f.now += d
}

// Set pins the fake clock to an absolute second value.
func (f *Fake) Set(t float64) {
	f.now = t
}
