package segment

import (
	"errors"
	"fmt"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
)

// ErrLapNotFound is returned when a caller asks for a lap number that is
// not present in the segmented collection. Unlike missing telemetry this
// is a contract violation of the invoking layer and surfaces as an error.
var ErrLapNotFound = errors.New("lap not found")

// Segmenter splits an enriched series into per-lap segments with a
// zero-based distance axis.
type Segmenter struct {
	minFrames int
}

type Option func(s *Segmenter)

// WithMinFrames sets the minimum frame count below which a segment is
// tagged unreliable. Default 10.
func WithMinFrames(n int) Option {
	return func(s *Segmenter) {
		s.minFrames = n
	}
}

func NewSegmenter(opts ...Option) *Segmenter {
	ret := &Segmenter{minFrames: 10}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Collection holds the lap segments of one session in session order.
type Collection struct {
	Segments []*model.LapSegment
}

// ByLap returns the first segment with the given lap number.
func (c *Collection) ByLap(lap int) (*model.LapSegment, error) {
	for _, seg := range c.Segments {
		if seg.Lap == lap {
			return seg, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrLapNotFound, lap)
}

// Reliable returns the segments with enough frames for analysis.
func (c *Collection) Reliable() []*model.LapSegment {
	ret := make([]*model.LapSegment, 0, len(c.Segments))
	for _, seg := range c.Segments {
		if !seg.Unreliable {
			ret = append(ret, seg)
		}
	}
	return ret
}

// Segment groups frames into contiguous runs of equal lap number and
// re-bases every run's distance to start at 0. A lap number reappearing
// after a counter reset starts a new segment instead of merging with the
// earlier one.
func (s *Segmenter) Segment(series *model.EnrichedSeries) *Collection {
	ret := &Collection{}
	if series.Empty() {
		return ret
	}
	var current *model.LapSegment
	for i := range series.Frames {
		frame := series.Frames[i]
		if current == nil || frame.Lap != current.Lap {
			s.finish(ret, current)
			current = &model.LapSegment{Lap: frame.Lap}
		}
		current.Frames = append(current.Frames, frame)
	}
	s.finish(ret, current)

	// re-base each segment so its first frame has distance 0
	for _, seg := range ret.Segments {
		base := seg.Frames[0].Distance
		for i := range seg.Frames {
			seg.Frames[i].Distance -= base
		}
	}
	return ret
}

func (s *Segmenter) finish(c *Collection, seg *model.LapSegment) {
	if seg == nil {
		return
	}
	seg.Unreliable = len(seg.Frames) < s.minFrames
	c.Segments = append(c.Segments, seg)
}
