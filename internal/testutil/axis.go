package testutil

import "sync/atomic"

// Axis is an axis reader whose value tests set directly.
type Axis struct {
	v atomic.Uint32
}

// NewAxis creates an axis resting at value.
func NewAxis(value uint16) *Axis {
	a := &Axis{}
	a.Set(value)
	return a
}

// Set changes the sample returned by ReadAxis.
func (a *Axis) Set(value uint16) {
	a.v.Store(uint32(value))
}

// ReadAxis returns the current sample.
func (a *Axis) ReadAxis() uint16 {
	return uint16(a.v.Load())
}
