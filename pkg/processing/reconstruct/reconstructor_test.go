//nolint:funlen // readability
package reconstruct

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
)

var base = time.Date(2024, 4, 12, 14, 0, 0, 0, time.UTC)

// constantSeries builds a series sampled every 100ms with constant
// channel values.
func constantSeries(frames int, channels map[string]float64) *model.SyncedSeries {
	ret := &model.SyncedSeries{VehicleID: "88"}
	for ch := range channels {
		ret.Channels = append(ret.Channels, ch)
	}
	for i := 0; i < frames; i++ {
		frame := model.Frame{
			Timestamp: base.Add(time.Duration(i) * 100 * time.Millisecond),
			Lap:       1,
			Channels:  make(map[string]float64, len(channels)),
		}
		for ch, v := range channels {
			frame.Channels[ch] = v
		}
		ret.Frames = append(ret.Frames, frame)
	}
	return ret
}

func TestReconstructor_Distance(t *testing.T) {
	// 100 km/h for 60s yields 1666.7m
	series := constantSeries(601, map[string]float64{model.ChannelSpeed: 100})
	got := NewReconstructor().Reconstruct(series)

	require.Len(t, got.Frames, 601)
	assert.InDelta(t, 0, got.Frames[0].Distance, 1e-9)
	assert.InDelta(t, 1666.7, got.Frames[600].Distance, 0.1)
}

func TestReconstructor_DistanceMonotonic(t *testing.T) {
	series := constantSeries(100, map[string]float64{model.ChannelSpeed: 80})
	// sprinkle in stopped and invalid speed values
	series.Frames[10].Channels[model.ChannelSpeed] = 0
	series.Frames[11].Channels[model.ChannelSpeed] = -5
	got := NewReconstructor().Reconstruct(series)

	for i := 1; i < len(got.Frames); i++ {
		assert.GreaterOrEqual(t, got.Frames[i].Distance, got.Frames[i-1].Distance,
			"distance must never decrease (frame %d)", i)
	}
}

func TestReconstructor_NoSteeringNoPosition(t *testing.T) {
	series := constantSeries(10, map[string]float64{model.ChannelSpeed: 100})
	got := NewReconstructor().Reconstruct(series)

	assert.False(t, got.HasPosition)
	for i := range got.Frames {
		assert.Zero(t, got.Frames[i].Heading)
		assert.Zero(t, got.Frames[i].PosX)
		assert.Zero(t, got.Frames[i].PosY)
	}
}

func TestReconstructor_StraightLine(t *testing.T) {
	series := constantSeries(11, map[string]float64{
		model.ChannelSpeed:    90,
		model.ChannelSteering: 0,
	})
	got := NewReconstructor(WithProjection(30.0, -97.0)).Reconstruct(series)

	require.True(t, got.HasPosition)
	last := got.Frames[10]
	assert.Zero(t, last.Heading)
	// 25 m/s for 1s along the x axis
	assert.InDelta(t, 25.0, last.PosX, 1e-6)
	assert.InDelta(t, 0.0, last.PosY, 1e-9)
	assert.InDelta(t, 30.0, last.Lat, 1e-9)
	assert.Greater(t, last.Lon, -97.0)
}

func TestReconstructor_SteeringTurnsHeading(t *testing.T) {
	left := constantSeries(50, map[string]float64{
		model.ChannelSpeed:    100,
		model.ChannelSteering: 45,
	})
	got := NewReconstructor().Reconstruct(left)
	assert.Greater(t, got.Frames[49].Heading, 0.0)

	right := constantSeries(50, map[string]float64{
		model.ChannelSpeed:    100,
		model.ChannelSteering: -45,
	})
	got = NewReconstructor().Reconstruct(right)
	assert.Less(t, got.Frames[49].Heading, 0.0)
}

func TestReconstructor_Idempotent(t *testing.T) {
	series := constantSeries(20, map[string]float64{
		model.ChannelSpeed:    120,
		model.ChannelSteering: 10,
	})
	r := NewReconstructor(WithProjection(30.1328, -97.6411))
	first := r.Reconstruct(series)
	second := r.Reconstruct(series)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Reconstruct() not deterministic (-first +second):\n%s", diff)
	}
}

func TestReconstructor_EmptySeries(t *testing.T) {
	got := NewReconstructor().Reconstruct(&model.SyncedSeries{VehicleID: "88"})
	assert.True(t, got.Empty())
	assert.Equal(t, "88", got.VehicleID)
}
