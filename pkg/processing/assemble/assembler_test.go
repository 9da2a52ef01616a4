//nolint:funlen // readability
package assemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
)

var base = time.Date(2024, 4, 12, 14, 0, 0, 0, time.UTC)

func sample(ms int, vehicle, channel, value string, lap int) model.RawSample {
	return model.RawSample{
		Timestamp: base.Add(time.Duration(ms) * time.Millisecond),
		VehicleID: vehicle,
		Channel:   channel,
		Value:     value,
		Lap:       lap,
	}
}

func TestAssembler_ForwardFill(t *testing.T) {
	samples := []model.RawSample{
		sample(0, "88", model.ChannelSpeed, "100", 1),
		sample(0, "88", model.ChannelThrottle, "40", 1),
		sample(100, "88", model.ChannelSpeed, "105", 1),
		sample(200, "88", model.ChannelThrottle, "60", 1),
	}
	got := NewAssembler().Assemble(samples)

	require.Len(t, got.Frames, 3)
	assert.Equal(t, []string{model.ChannelSpeed, model.ChannelThrottle}, got.Channels)
	// frame 1: throttle filled forward from frame 0
	assert.InDelta(t, 105, got.Frames[1].Channels[model.ChannelSpeed], 1e-9)
	assert.InDelta(t, 40, got.Frames[1].Channels[model.ChannelThrottle], 1e-9)
	// frame 2: speed filled forward from frame 1
	assert.InDelta(t, 105, got.Frames[2].Channels[model.ChannelSpeed], 1e-9)
	assert.InDelta(t, 60, got.Frames[2].Channels[model.ChannelThrottle], 1e-9)
}

func TestAssembler_DropsLeadingFrames(t *testing.T) {
	// throttle shows up late; the earlier timestamps have no value to
	// fill from and must not surface as frames
	samples := []model.RawSample{
		sample(0, "88", model.ChannelSpeed, "100", 1),
		sample(100, "88", model.ChannelSpeed, "101", 1),
		sample(200, "88", model.ChannelThrottle, "50", 1),
		sample(300, "88", model.ChannelSpeed, "102", 1),
	}
	got := NewAssembler().Assemble(samples)

	require.Len(t, got.Frames, 2)
	assert.Equal(t, base.Add(200*time.Millisecond), got.Frames[0].Timestamp)
}

func TestAssembler_EmptyInput(t *testing.T) {
	got := NewAssembler().Assemble(nil)
	assert.True(t, got.Empty())
}

func TestAssembler_NoSpeedChannel(t *testing.T) {
	samples := []model.RawSample{
		sample(0, "88", model.ChannelThrottle, "40", 1),
		sample(100, "88", model.ChannelBrake, "10", 1),
	}
	got := NewAssembler().Assemble(samples)
	assert.True(t, got.Empty())
	assert.Equal(t, "88", got.VehicleID)
}

func TestAssembler_VehicleSelection(t *testing.T) {
	samples := []model.RawSample{
		sample(0, "88", model.ChannelSpeed, "100", 1),
		sample(0, "13", model.ChannelSpeed, "200", 1),
		sample(100, "13", model.ChannelSpeed, "201", 1),
	}
	// default: first vehicle encountered
	got := NewAssembler().Assemble(samples)
	assert.Equal(t, "88", got.VehicleID)
	require.Len(t, got.Frames, 1)

	// explicit selection
	got = NewAssembler(WithVehicle("13")).Assemble(samples)
	assert.Equal(t, "13", got.VehicleID)
	require.Len(t, got.Frames, 2)
	assert.InDelta(t, 201, got.Frames[1].Channels[model.ChannelSpeed], 1e-9)

	// unknown vehicle
	got = NewAssembler(WithVehicle("99")).Assemble(samples)
	assert.True(t, got.Empty())
}

func TestAssembler_DuplicateTimestampFirstWins(t *testing.T) {
	samples := []model.RawSample{
		sample(0, "88", model.ChannelSpeed, "100", 1),
		sample(0, "88", model.ChannelSpeed, "999", 1),
	}
	got := NewAssembler().Assemble(samples)
	require.Len(t, got.Frames, 1)
	assert.InDelta(t, 100, got.Frames[0].Channels[model.ChannelSpeed], 1e-9)
}

func TestAssembler_MalformedValues(t *testing.T) {
	samples := []model.RawSample{
		sample(0, "88", model.ChannelSpeed, "100", 1),
		sample(100, "88", model.ChannelSpeed, "bogus", 1),
		sample(200, "88", model.ChannelSpeed, "NaN", 1),
		sample(300, "88", model.ChannelSpeed, "102", 1),
	}
	got := NewAssembler().Assemble(samples)

	require.Len(t, got.Frames, 4)
	// malformed values never replace the last-known value
	assert.InDelta(t, 100, got.Frames[1].Channels[model.ChannelSpeed], 1e-9)
	assert.InDelta(t, 100, got.Frames[2].Channels[model.ChannelSpeed], 1e-9)
	assert.InDelta(t, 102, got.Frames[3].Channels[model.ChannelSpeed], 1e-9)
}

func TestAssembler_UnsortedInput(t *testing.T) {
	samples := []model.RawSample{
		sample(200, "88", model.ChannelSpeed, "102", 1),
		sample(0, "88", model.ChannelSpeed, "100", 1),
		sample(100, "88", model.ChannelSpeed, "101", 1),
	}
	got := NewAssembler().Assemble(samples)

	require.Len(t, got.Frames, 3)
	assert.Equal(t, base, got.Frames[0].Timestamp)
	assert.InDelta(t, 102, got.Frames[2].Channels[model.ChannelSpeed], 1e-9)
}
