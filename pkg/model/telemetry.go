package model

import (
	"math"
	"time"
)

// Canonical channel names. The ingest layer maps the logger-specific
// column names (speed, ath, pbrake_f, Steering_Angle, ...) onto these.
const (
	ChannelSpeed    = "speed"          // km/h
	ChannelSteering = "steering_angle" // degrees, steering wheel angle
	ChannelThrottle = "throttle"       // percent
	ChannelBrake    = "brake_pressure" // bar, front circuit
)

// RawSample is one observation of one channel. Channels share no common
// sampling rate; a timestamp usually carries only one channel's value.
// Value is kept as recorded; non-numeric values are coerced to
// "not available" during assembly.
type RawSample struct {
	Timestamp time.Time
	VehicleID string
	Channel   string
	Value     string
	Lap       int
}

// Frame holds the state of every channel at one timestamp, plus the
// fields derived during reconstruction.
type Frame struct {
	Timestamp time.Time
	Lap       int
	Channels  map[string]float64

	// derived during reconstruction
	TimeDelta float64 // seconds since previous frame, 0 for the first
	Distance  float64 // meters, cumulative
	Heading   float64 // radians, cumulative, unbounded
	PosX      float64 // meters, dead reckoned
	PosY      float64 // meters, dead reckoned
	Lat       float64
	Lon       float64
}

// Channel returns the value of the named channel. ok is false when the
// channel is absent or not a number.
func (f *Frame) Channel(name string) (val float64, ok bool) {
	v, present := f.Channels[name]
	if !present || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// SyncedSeries is the output of the assembler: one frame per distinct
// timestamp, every channel filled forward to its last-known value.
type SyncedSeries struct {
	VehicleID string
	Channels  []string
	Frames    []Frame
}

func (s *SyncedSeries) Empty() bool { return len(s.Frames) == 0 }

// EnrichedSeries is a SyncedSeries plus the reconstructed distance and,
// when steering data exists, the dead-reckoned position fields.
type EnrichedSeries struct {
	VehicleID string
	Channels  []string
	Frames    []Frame
	// HasPosition is true when heading/position/lat/lon were reconstructed.
	HasPosition bool
}

func (s *EnrichedSeries) Empty() bool { return len(s.Frames) == 0 }

// LapSegment is the contiguous run of frames belonging to one lap, with
// distance re-based so the first frame sits at 0.
type LapSegment struct {
	Lap    int
	Frames []Frame
	// Unreliable is set for segments below the configured minimum frame
	// count; scoring and comparison treat those as missing data.
	Unreliable bool
}

func (s *LapSegment) Empty() bool { return len(s.Frames) == 0 }

// Duration is the elapsed time between first and last frame.
func (s *LapSegment) Duration() time.Duration {
	if len(s.Frames) < 2 {
		return 0
	}
	return s.Frames[len(s.Frames)-1].Timestamp.Sub(s.Frames[0].Timestamp)
}

// TotalDistance is the distance covered by the segment.
func (s *LapSegment) TotalDistance() float64 {
	if len(s.Frames) == 0 {
		return 0
	}
	return s.Frames[len(s.Frames)-1].Distance
}

// ChannelValues collects the named channel over all frames.
// Frames without a usable value yield NaN.
func (s *LapSegment) ChannelValues(name string) []float64 {
	ret := make([]float64, len(s.Frames))
	for i := range s.Frames {
		if v, ok := s.Frames[i].Channel(name); ok {
			ret[i] = v
		} else {
			ret[i] = math.NaN()
		}
	}
	return ret
}

// HasChannel reports whether at least one frame carries a usable value
// for the named channel.
func (s *LapSegment) HasChannel(name string) bool {
	for i := range s.Frames {
		if _, ok := s.Frames[i].Channel(name); ok {
			return true
		}
	}
	return false
}
