package assemble

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
)

// Assembler pivots the long-format raw samples of one vehicle into a
// synchronized series: one frame per distinct timestamp, every channel
// carrying its last-known value (forward fill). Leading frames with
// channels that have not been observed yet are dropped.
type Assembler struct {
	vehicleID string
}

type Option func(a *Assembler)

// WithVehicle restricts assembly to the given vehicle. Without it the
// first vehicle encountered in the input is used.
func WithVehicle(vehicleID string) Option {
	return func(a *Assembler) {
		a.vehicleID = vehicleID
	}
}

func NewAssembler(opts ...Option) *Assembler {
	ret := &Assembler{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Assemble builds the synchronized series. Empty input or input without
// a speed channel yields an empty series, never an error: partial
// telemetry is the normal case for real logging hardware.
func (a *Assembler) Assemble(samples []model.RawSample) *model.SyncedSeries {
	if len(samples) == 0 {
		return &model.SyncedSeries{}
	}

	vehicleID := a.vehicleID
	if vehicleID == "" {
		vehicleID = samples[0].VehicleID
	}
	mine := lo.Filter(samples, func(s model.RawSample, _ int) bool {
		return s.VehicleID == vehicleID
	})
	if len(mine) == 0 {
		return &model.SyncedSeries{VehicleID: vehicleID}
	}

	channels := lo.Uniq(lo.Map(mine, func(s model.RawSample, _ int) string {
		return s.Channel
	}))
	sort.Strings(channels)
	if !lo.Contains(channels, model.ChannelSpeed) {
		return &model.SyncedSeries{VehicleID: vehicleID}
	}

	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].Timestamp.Before(mine[j].Timestamp)
	})

	ret := &model.SyncedSeries{VehicleID: vehicleID, Channels: channels}
	last := make(map[string]float64, len(channels))

	i := 0
	for i < len(mine) {
		ts := mine[i].Timestamp
		lap := mine[i].Lap
		// consume all samples sharing this timestamp; on duplicates for
		// the same channel the first observation wins
		seen := make(map[string]bool)
		for i < len(mine) && mine[i].Timestamp.Equal(ts) {
			s := mine[i]
			i++
			if seen[s.Channel] {
				continue
			}
			seen[s.Channel] = true
			if v, err := parseValue(s.Value); err == nil {
				last[s.Channel] = v
			}
		}
		// forward fill: frames before every channel produced a usable
		// value cannot be analyzed and are dropped
		if len(last) < len(channels) {
			continue
		}
		frame := model.Frame{
			Timestamp: ts,
			Lap:       lap,
			Channels:  make(map[string]float64, len(channels)),
		}
		for _, ch := range channels {
			frame.Channels[ch] = last[ch]
		}
		ret.Frames = append(ret.Frames, frame)
	}
	return ret
}

// parseValue coerces a recorded sample value to a number. Malformed
// values are reported as an error and never become a last-known value.
func parseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
