package cpi

import (
	"math"

	"github.com/damlalper/gr-pilot-engine-go/pkg/config"
	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
)

// policy constants of the scoring formulas; tuned on GR Cup data
const (
	neutralScore = 50.0

	brakeEventThreshold = 30.0 // bar, counts as an active braking frame
	throttleUsageRef    = 80.0 // percent, full marks for this mean throttle
	lateralSpeedRef     = 150.0
	steeringCorrection  = 5.0 // degrees per frame counting as a correction
)

// Scorer computes the composite performance index of one lap segment:
// six independently normalized sub-scores combined by fixed weights into
// one 0-100 value with a letter grade.
type Scorer struct {
	maxSpeed    float64
	sectorCount int
	weights     config.Weights
}

type Option func(s *Scorer)

// WithMaxSpeed overrides the assumed vehicle-class speed ceiling (km/h).
func WithMaxSpeed(maxSpeed float64) Option {
	return func(s *Scorer) {
		s.maxSpeed = maxSpeed
	}
}

// WithSectorCount overrides the number of equal-distance sectors used by
// the consistency sub-score.
func WithSectorCount(n int) Option {
	return func(s *Scorer) {
		s.sectorCount = n
	}
}

// WithWeights overrides the component weights. Weights not summing to
// 1.0 are normalized.
func WithWeights(w config.Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

func NewScorer(opts ...Option) *Scorer {
	params := config.DefaultParams()
	ret := &Scorer{
		maxSpeed:    params.MaxSpeed,
		sectorCount: params.SectorCount,
		weights:     params.Weights,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if sum := ret.weights.Sum(); math.Abs(sum-1.0) > 0.01 && sum > 0 {
		w := ret.weights
		ret.weights = config.Weights{
			Speed:       w.Speed / sum,
			Brake:       w.Brake / sum,
			Throttle:    w.Throttle / sum,
			Tire:        w.Tire / sum,
			TurnEntry:   w.TurnEntry / sum,
			Consistency: w.Consistency / sum,
		}
	}
	return ret
}

// Score computes the CPI result for one lap segment. Missing channels
// contribute the neutral default instead of failing; an empty or
// unreliable segment yields an all-neutral result. weather is optional
// read-only context attached to the result.
func (s *Scorer) Score(seg *model.LapSegment, weather *model.Weather) *model.CPIResult {
	ret := &model.CPIResult{Weather: weather}
	if seg != nil {
		ret.Lap = seg.Lap
	}
	if seg == nil || seg.Empty() || seg.Unreliable {
		ret.Components = model.ComponentScores{
			Speed:       neutralScore,
			Brake:       neutralScore,
			Throttle:    neutralScore,
			Tire:        neutralScore,
			TurnEntry:   neutralScore,
			Consistency: neutralScore,
		}
	} else {
		ret.Components = model.ComponentScores{
			Speed:       s.speedScore(seg),
			Brake:       s.brakeScore(seg),
			Throttle:    s.throttleScore(seg),
			Tire:        s.tireScore(seg),
			TurnEntry:   s.turnEntryScore(seg),
			Consistency: s.consistencyScore(seg),
		}
	}
	c := ret.Components
	total := c.Speed*s.weights.Speed +
		c.Brake*s.weights.Brake +
		c.Throttle*s.weights.Throttle +
		c.Tire*s.weights.Tire +
		c.TurnEntry*s.weights.TurnEntry +
		c.Consistency*s.weights.Consistency
	ret.TotalScore = clamp(total)
	ret.Grade, ret.Interpretation = gradeOf(ret.TotalScore)
	return ret
}

// speedScore rewards sustained speed relative to the class ceiling.
func (s *Scorer) speedScore(seg *model.LapSegment) float64 {
	if !seg.HasChannel(model.ChannelSpeed) || s.maxSpeed <= 0 {
		return neutralScore
	}
	avg := mean(seg.ChannelValues(model.ChannelSpeed))
	efficiency := avg / s.maxSpeed * 100.0
	return clamp(math.Min(efficiency*1.2, 100.0))
}

// brakeScore combines the braking-time fraction (optimal band 15-20% of
// the lap) with a pressure smoothness term.
func (s *Scorer) brakeScore(seg *model.LapSegment) float64 {
	if !seg.HasChannel(model.ChannelBrake) {
		return neutralScore
	}
	values := seg.ChannelValues(model.ChannelBrake)
	events := 0
	for _, v := range values {
		if !math.IsNaN(v) && v > brakeEventThreshold {
			events++
		}
	}
	brakeTimePct := float64(events) / float64(len(values)) * 100.0

	var efficiency float64
	switch {
	case brakeTimePct < 10:
		efficiency = 60 // too little braking, likely missing apexes
	case brakeTimePct < 20:
		efficiency = 100
	case brakeTimePct < 30:
		efficiency = 80
	default:
		efficiency = 50 // over-braking
	}
	smoothness := 100.0 - math.Min(meanAbsDiff(values)*2.0, 50.0)
	return clamp(efficiency*0.6 + smoothness*0.4)
}

// throttleScore averages a low-variance term with a usage reward.
func (s *Scorer) throttleScore(seg *model.LapSegment) float64 {
	if !seg.HasChannel(model.ChannelThrottle) {
		return neutralScore
	}
	values := seg.ChannelValues(model.ChannelThrottle)
	smoothness := 100.0 - math.Min(stddev(values), 40.0)
	usage := math.Min(mean(values)/throttleUsageRef*100.0, 100.0)
	return clamp(smoothness*0.5 + usage*0.5)
}

// tireScore penalizes the mean lateral-load proxy |steering|*(v/ref).
func (s *Scorer) tireScore(seg *model.LapSegment) float64 {
	if !seg.HasChannel(model.ChannelSteering) || !seg.HasChannel(model.ChannelSpeed) {
		return neutralScore
	}
	sum, n := 0.0, 0
	for i := range seg.Frames {
		steering, okS := seg.Frames[i].Channel(model.ChannelSteering)
		speed, okV := seg.Frames[i].Channel(model.ChannelSpeed)
		if !okS || !okV {
			continue
		}
		sum += math.Abs(steering) * (speed / lateralSpeedRef)
		n++
	}
	if n == 0 {
		return neutralScore
	}
	return clamp(100.0 - (sum/float64(n))*2.0)
}

// turnEntryScore penalizes the rate of large frame-to-frame steering
// changes (corrections).
func (s *Scorer) turnEntryScore(seg *model.LapSegment) float64 {
	if !seg.HasChannel(model.ChannelSteering) {
		return neutralScore
	}
	values := seg.ChannelValues(model.ChannelSteering)
	corrections := 0
	prev := math.NaN()
	for _, v := range values {
		if !math.IsNaN(prev) && !math.IsNaN(v) &&
			math.Abs(v-prev) > steeringCorrection {
			corrections++
		}
		if !math.IsNaN(v) {
			prev = v
		}
	}
	penalty := float64(corrections) / float64(len(values)) * 1000.0
	return clamp(100.0 - penalty)
}

// consistencyScore splits the lap into equal-distance sectors and
// penalizes the spread of their elapsed times. When not all sectors
// resolve, the fixed mid-range default applies (policy choice).
func (s *Scorer) consistencyScore(seg *model.LapSegment) float64 {
	maxDistance := seg.TotalDistance()
	if s.sectorCount < 2 || maxDistance <= 0 {
		return neutralScore
	}
	sectorLength := maxDistance / float64(s.sectorCount)
	times := make([]float64, 0, s.sectorCount)
	for i := 0; i < s.sectorCount; i++ {
		start := float64(i) * sectorLength
		end := start + sectorLength
		var first, last *model.Frame
		count := 0
		for j := range seg.Frames {
			d := seg.Frames[j].Distance
			inSector := d >= start && d < end
			// the lap's last frame sits exactly on the final boundary
			if i == s.sectorCount-1 && d == maxDistance {
				inSector = true
			}
			if inSector {
				if first == nil {
					first = &seg.Frames[j]
				}
				last = &seg.Frames[j]
				count++
			}
		}
		if count >= 2 {
			times = append(times, last.Timestamp.Sub(first.Timestamp).Seconds())
		}
	}
	if len(times) < s.sectorCount {
		return neutralScore
	}
	return clamp(100.0 - stddev(times)*10.0)
}

func gradeOf(score float64) (grade, interpretation string) {
	switch {
	case score >= 90:
		return "A", "Excellent - Near-perfect lap execution"
	case score >= 80:
		return "B", "Good - Solid performance, minor improvements possible"
	case score >= 70:
		return "C", "Average - Several areas need attention"
	case score >= 60:
		return "D", "Below Average - Significant issues detected"
	default:
		return "F", "Poor - Critical performance problems"
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}

// mean over the non-NaN entries, 0 when none remain
func mean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// population standard deviation over the non-NaN entries
func stddev(values []float64) float64 {
	m := mean(values)
	sum, n := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) {
			d := v - m
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// meanAbsDiff is the mean absolute frame-to-frame change.
func meanAbsDiff(values []float64) float64 {
	sum, n := 0.0, 0
	prev := math.NaN()
	for _, v := range values {
		if !math.IsNaN(prev) && !math.IsNaN(v) {
			sum += math.Abs(v - prev)
			n++
		}
		if !math.IsNaN(v) {
			prev = v
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
