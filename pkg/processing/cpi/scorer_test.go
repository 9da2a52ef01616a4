//nolint:funlen // readability
package cpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damlalper/gr-pilot-engine-go/pkg/config"
	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
)

var base = time.Date(2024, 4, 12, 14, 0, 0, 0, time.UTC)

// lapWith builds a segment sampled every second, 10m apart, with the
// given constant channel values.
func lapWith(frames int, channels map[string]float64) *model.LapSegment {
	ret := &model.LapSegment{Lap: 1}
	for i := 0; i < frames; i++ {
		vals := make(map[string]float64, len(channels))
		for ch, v := range channels {
			vals[ch] = v
		}
		ret.Frames = append(ret.Frames, model.Frame{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Lap:       1,
			Channels:  vals,
			Distance:  float64(i) * 10,
		})
	}
	return ret
}

func allComponents(c model.ComponentScores) []float64 {
	return []float64{c.Speed, c.Brake, c.Throttle, c.Tire, c.TurnEntry, c.Consistency}
}

func TestScorer_Bounded(t *testing.T) {
	seg := lapWith(60, map[string]float64{
		model.ChannelSpeed:    250,
		model.ChannelSteering: 2,
		model.ChannelThrottle: 95,
		model.ChannelBrake:    0,
	})
	got := NewScorer().Score(seg, nil)

	for _, v := range allComponents(got.Components) {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.GreaterOrEqual(t, got.TotalScore, 0.0)
	assert.LessOrEqual(t, got.TotalScore, 100.0)
	assert.NotEmpty(t, got.Grade)
	assert.NotEmpty(t, got.Interpretation)
}

func TestScorer_SpeedScore(t *testing.T) {
	// 100 km/h average against the 280 ceiling
	seg := lapWith(30, map[string]float64{model.ChannelSpeed: 100})
	got := NewScorer().Score(seg, nil)
	assert.InDelta(t, 42.9, got.Components.Speed, 0.1)

	// near the ceiling the bonus factor caps the score at 100
	seg = lapWith(30, map[string]float64{model.ChannelSpeed: 280})
	got = NewScorer().Score(seg, nil)
	assert.InDelta(t, 100, got.Components.Speed, 1e-9)
}

func TestScorer_MissingChannelsNeutral(t *testing.T) {
	seg := lapWith(30, map[string]float64{model.ChannelSpeed: 100})
	got := NewScorer().Score(seg, nil)

	assert.InDelta(t, 50, got.Components.Brake, 1e-9)
	assert.InDelta(t, 50, got.Components.Throttle, 1e-9)
	assert.InDelta(t, 50, got.Components.Tire, 1e-9)
	assert.InDelta(t, 50, got.Components.TurnEntry, 1e-9)
}

func TestScorer_EmptySegment(t *testing.T) {
	got := NewScorer().Score(&model.LapSegment{Lap: 3}, nil)

	assert.Equal(t, 3, got.Lap)
	for _, v := range allComponents(got.Components) {
		assert.InDelta(t, 50, v, 1e-9)
	}
	assert.InDelta(t, 50, got.TotalScore, 1e-9)
	assert.Equal(t, "F", got.Grade)
}

func TestScorer_UnreliableSegment(t *testing.T) {
	seg := lapWith(30, map[string]float64{model.ChannelSpeed: 200})
	seg.Unreliable = true
	got := NewScorer().Score(seg, nil)
	assert.InDelta(t, 50, got.Components.Speed, 1e-9)
}

func TestScorer_NilSegment(t *testing.T) {
	got := NewScorer().Score(nil, nil)
	assert.InDelta(t, 50, got.TotalScore, 1e-9)
}

func TestScorer_GradeBands(t *testing.T) {
	// isolate the speed component so the total is predictable
	speedOnly := config.Weights{Speed: 1}
	tests := []struct {
		name  string
		speed float64
		want  string
	}{
		{"grade A", 280, "A"}, // score 100
		{"grade B", 200, "B"}, // 200/280*100*1.2 = 85.7
		{"grade C", 170, "C"}, // 72.9
		{"grade D", 150, "D"}, // 64.3
		{"grade F", 100, "F"}, // 42.9
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := lapWith(30, map[string]float64{model.ChannelSpeed: tt.speed})
			got := NewScorer(WithWeights(speedOnly)).Score(seg, nil)
			assert.Equal(t, tt.want, got.Grade)
		})
	}
}

func TestScorer_ConsistencyEvenPace(t *testing.T) {
	// even 1s spacing through all sectors leaves no spread to penalize
	seg := lapWith(90, map[string]float64{model.ChannelSpeed: 100})
	got := NewScorer().Score(seg, nil)
	assert.InDelta(t, 100, got.Components.Consistency, 1.0)
}

func TestScorer_ConsistencyUnresolvedSectors(t *testing.T) {
	// all frames share one distance; only one sector resolves
	seg := lapWith(30, map[string]float64{model.ChannelSpeed: 100})
	for i := range seg.Frames {
		seg.Frames[i].Distance = 0
	}
	got := NewScorer().Score(seg, nil)
	assert.InDelta(t, 50, got.Components.Consistency, 1e-9)
}

func TestScorer_WeightNormalization(t *testing.T) {
	// doubled default weights must yield the same result
	w := config.DefaultParams().Weights
	doubled := config.Weights{
		Speed:       w.Speed * 2,
		Brake:       w.Brake * 2,
		Throttle:    w.Throttle * 2,
		Tire:        w.Tire * 2,
		TurnEntry:   w.TurnEntry * 2,
		Consistency: w.Consistency * 2,
	}
	seg := lapWith(60, map[string]float64{
		model.ChannelSpeed:    180,
		model.ChannelThrottle: 70,
	})
	plain := NewScorer().Score(seg, nil)
	scaled := NewScorer(WithWeights(doubled)).Score(seg, nil)
	assert.InDelta(t, plain.TotalScore, scaled.TotalScore, 1e-9)
}

func TestScorer_WeatherAttached(t *testing.T) {
	weather := &model.Weather{AirTemp: 24.5, TrackTemp: 41.0}
	seg := lapWith(30, map[string]float64{model.ChannelSpeed: 100})
	got := NewScorer().Score(seg, weather)
	require.NotNil(t, got.Weather)
	assert.InDelta(t, 24.5, got.Weather.AirTemp, 1e-9)
}
