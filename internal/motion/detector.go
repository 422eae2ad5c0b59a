// Package motion turns a stream of accelerometer samples into the shake
// signal that triggers an auto-fill.
package motion

import (
	"math"
	"time"

	"github.com/julianstephens/slotsheet/internal/constants"
)

// Sample is one accelerometer reading in g
type Sample struct {
	X, Y, Z float64
	At      time.Time
}

// Magnitude returns the length of the acceleration vector
func (s Sample) Magnitude() float64 {
	return math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
}

// ShakeEvent is a counted shake
type ShakeEvent struct {
	Magnitude float64
	At        time.Time
}

// Detector counts a shake when a sample's magnitude exceeds Threshold and at
// least MinSpacing has passed since the previous counted shake.
type Detector struct {
	Threshold  float64
	MinSpacing time.Duration

	last    time.Time
	counted bool
}

// NewDetector returns a detector with the default threshold and spacing
func NewDetector() *Detector {
	return &Detector{
		Threshold:  constants.ShakeThreshold,
		MinSpacing: constants.ShakeMinSpacing,
	}
}

// OnMotionSample feeds one sample and reports whether it counted as a shake
func (d *Detector) OnMotionSample(s Sample) (ShakeEvent, bool) {
	mag := s.Magnitude()
	if mag <= d.Threshold {
		return ShakeEvent{}, false
	}
	if d.counted && s.At.Sub(d.last) < d.MinSpacing {
		return ShakeEvent{}, false
	}

	d.last = s.At
	d.counted = true
	return ShakeEvent{Magnitude: mag, At: s.At}, true
}

// Reset forgets the last counted shake
func (d *Detector) Reset() {
	d.last = time.Time{}
	d.counted = false
}
