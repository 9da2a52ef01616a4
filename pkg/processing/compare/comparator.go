package compare

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
)

const (
	criticalDelta    = 30.0
	significantDelta = 20.0
	// rough per-point conversion from a km/h deficit to accumulated
	// seconds, carried over from the original comparison endpoint
	timeDeltaPerPoint = 0.01
)

// Comparator aligns a subject lap onto the distance domain of a
// reference lap and flags the locations where the reference was faster.
type Comparator struct {
	threshold float64
	zoneWidth float64
}

type Option func(c *Comparator)

// WithThreshold sets the anomaly threshold (same unit as the speed
// channel). Default 15.
func WithThreshold(threshold float64) Option {
	return func(c *Comparator) {
		c.threshold = threshold
	}
}

// WithZoneWidth sets the distance bucket size for zone aggregation.
// Default 500.
func WithZoneWidth(width float64) Option {
	return func(c *Comparator) {
		c.zoneWidth = width
	}
}

func NewComparator(opts ...Option) *Comparator {
	ret := &Comparator{threshold: 15.0, zoneWidth: 500.0}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Compare produces one delta point per reference frame. The subject's
// speed is linearly interpolated onto the reference distances, clamped
// to its boundary values outside the observed range. A point is an
// anomaly when the reference is faster than the subject by more than the
// threshold; the sign convention is fixed (reference faster = positive
// delta). Empty or unreliable segments yield an empty result.
func (c *Comparator) Compare(subject, reference *model.LapSegment) *model.ComparisonResult {
	ret := &model.ComparisonResult{}
	if subject != nil {
		ret.SubjectLap = subject.Lap
	}
	if reference != nil {
		ret.ReferenceLap = reference.Lap
	}
	if subject == nil || reference == nil ||
		subject.Empty() || reference.Empty() ||
		subject.Unreliable || reference.Unreliable {
		return ret
	}

	subjectDist := distances(subject)
	subjectSpeed := speeds(subject)

	ret.Points = make([]model.DeltaPoint, len(reference.Frames))
	ret.CumulativeTimeDelta = make([]float64, len(reference.Frames))
	cum := 0.0
	for i := range reference.Frames {
		dist := reference.Frames[i].Distance
		refSpeed, _ := reference.Frames[i].Channel(model.ChannelSpeed)
		subjSpeed := interpolate(subjectDist, subjectSpeed, dist)
		delta := refSpeed - subjSpeed

		point := model.DeltaPoint{
			Distance:       dist,
			SubjectValue:   subjSpeed,
			ReferenceValue: refSpeed,
			Delta:          delta,
		}
		if delta > c.threshold {
			point.IsAnomaly = true
			point.Severity = classify(delta)
			ret.AnomalyCount++
		}
		ret.Points[i] = point

		cum += delta / 3.6 * timeDeltaPerPoint
		ret.CumulativeTimeDelta[i] = cum
	}
	ret.Zones = c.aggregateZones(ret.Points)
	return ret
}

// classify maps a speed deficit to a severity band. The 30/20 boundaries
// are policy constants matching the coaching hints.
func classify(delta float64) model.Severity {
	switch {
	case delta > criticalDelta:
		return model.SeverityCritical
	case delta >= significantDelta:
		return model.SeveritySignificant
	default:
		return model.SeverityMinor
	}
}

// aggregateZones buckets the anomaly points into fixed-width distance
// zones and reports each zone's mean delta.
func (c *Comparator) aggregateZones(points []model.DeltaPoint) []model.ComparisonZone {
	anomalies := lo.Filter(points, func(p model.DeltaPoint, _ int) bool {
		return p.IsAnomaly
	})
	if len(anomalies) == 0 {
		return nil
	}
	grouped := lo.GroupBy(anomalies, func(p model.DeltaPoint) float64 {
		return math.Floor(p.Distance/c.zoneWidth) * c.zoneWidth
	})
	ret := make([]model.ComparisonZone, 0, len(grouped))
	for start, pts := range grouped {
		sum := 0.0
		for _, p := range pts {
			sum += p.Delta
		}
		mean := sum / float64(len(pts))
		ret = append(ret, model.ComparisonZone{
			Start:     start,
			End:       start + c.zoneWidth,
			MeanDelta: mean,
			Count:     len(pts),
			Severity:  classify(mean),
		})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Start < ret[j].Start })
	return ret
}

func distances(seg *model.LapSegment) []float64 {
	ret := make([]float64, len(seg.Frames))
	for i := range seg.Frames {
		ret[i] = seg.Frames[i].Distance
	}
	return ret
}

func speeds(seg *model.LapSegment) []float64 {
	ret := make([]float64, len(seg.Frames))
	for i := range seg.Frames {
		ret[i], _ = seg.Frames[i].Channel(model.ChannelSpeed)
	}
	return ret
}

// interpolate evaluates the piecewise-linear function through (xs, ys)
// at x. Outside the observed range the nearest boundary value is used
// (clamped extrapolation). xs must be non-decreasing.
func interpolate(xs, ys []float64, x float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	// first index with xs[idx] > x
	idx := sort.SearchFloat64s(xs, x)
	for idx < len(xs) && xs[idx] <= x {
		idx++
	}
	left, right := idx-1, idx
	dx := xs[right] - xs[left]
	if dx == 0 {
		return ys[left]
	}
	t := (x - xs[left]) / dx
	return ys[left] + t*(ys[right]-ys[left])
}
