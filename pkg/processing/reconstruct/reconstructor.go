package reconstruct

import (
	"math"

	"github.com/samber/lo"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
)

const (
	kmhToMs   = 3.6
	metersLat = 111000.0
	metersLon = 96000.0
)

// Reconstructor derives cumulative distance and, when a steering channel
// exists, a dead-reckoned 2D trajectory from a synchronized series.
// Heading integration uses a simplified kinematic proxy
// (dHeading = radians(steering) * v * dt * k), not a bicycle model.
type Reconstructor struct {
	headingScale float64
	originLat    float64
	originLon    float64
	project      bool
}

type Option func(r *Reconstructor)

// WithHeadingScale overrides the empirical heading scale constant k.
func WithHeadingScale(k float64) Option {
	return func(r *Reconstructor) {
		r.headingScale = k
	}
}

// WithProjection enables the flat lat/lon projection around the given
// origin. Linear scaling only; acceptable for a single short track.
func WithProjection(originLat, originLon float64) Option {
	return func(r *Reconstructor) {
		r.originLat = originLat
		r.originLon = originLon
		r.project = true
	}
}

func NewReconstructor(opts ...Option) *Reconstructor {
	ret := &Reconstructor{headingScale: 0.002}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Reconstruct builds the enriched series. It is pure and deterministic:
// distance and position are recomputed from scratch on every call.
// Frames with missing or non-numeric speed contribute 0 to all
// increments, so distance never decreases.
func (r *Reconstructor) Reconstruct(series *model.SyncedSeries) *model.EnrichedSeries {
	ret := &model.EnrichedSeries{
		VehicleID: series.VehicleID,
		Channels:  series.Channels,
	}
	if series.Empty() {
		return ret
	}
	hasSteering := lo.Contains(series.Channels, model.ChannelSteering)
	ret.HasPosition = hasSteering
	ret.Frames = make([]model.Frame, len(series.Frames))

	var distance, heading, posX, posY float64
	for i := range series.Frames {
		frame := series.Frames[i]
		frame.Channels = copyChannels(series.Frames[i].Channels)

		dt := 0.0
		if i > 0 {
			dt = frame.Timestamp.Sub(series.Frames[i-1].Timestamp).Seconds()
		}
		frame.TimeDelta = dt

		v := 0.0
		if speed, ok := frame.Channel(model.ChannelSpeed); ok && speed > 0 {
			v = speed / kmhToMs
		}
		distance += v * dt
		frame.Distance = distance

		if hasSteering {
			steering, _ := frame.Channel(model.ChannelSteering)
			heading += degToRad(steering) * v * dt * r.headingScale
			frame.Heading = heading
			posX += v * math.Cos(heading) * dt
			posY += v * math.Sin(heading) * dt
			frame.PosX = posX
			frame.PosY = posY
			if r.project {
				frame.Lat = r.originLat + posY/metersLat
				frame.Lon = r.originLon + posX/metersLon
			}
		}
		ret.Frames[i] = frame
	}
	return ret
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func copyChannels(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
