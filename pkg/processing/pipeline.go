package processing

import (
	"github.com/damlalper/gr-pilot-engine-go/pkg/config"
	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing/assemble"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing/compare"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing/cpi"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing/reconstruct"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing/segment"
)

// Pipeline bundles the reconstruction and analysis components under one
// configuration. Every operation is synchronous, pure and stateless;
// concurrent callers may share a Pipeline as long as each call receives
// its own input data.
type Pipeline struct {
	params      config.Params
	assembler   *assemble.Assembler
	reconstruct *reconstruct.Reconstructor
	segmenter   *segment.Segmenter
	comparator  *compare.Comparator
	scorer      *cpi.Scorer
}

type PipelineOption func(p *Pipeline)

// WithParams replaces the default engine constants.
func WithParams(params config.Params) PipelineOption {
	return func(p *Pipeline) {
		p.params = params
	}
}

// WithVehicle restricts assembly to one vehicle id.
func WithVehicle(vehicleID string) PipelineOption {
	return func(p *Pipeline) {
		p.assembler = assemble.NewAssembler(assemble.WithVehicle(vehicleID))
	}
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	ret := &Pipeline{params: config.DefaultParams()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.assembler == nil {
		ret.assembler = assemble.NewAssembler()
	}
	ret.reconstruct = reconstruct.NewReconstructor(
		reconstruct.WithHeadingScale(ret.params.HeadingScale),
		reconstruct.WithProjection(ret.params.OriginLat, ret.params.OriginLon),
	)
	ret.segmenter = segment.NewSegmenter(
		segment.WithMinFrames(ret.params.MinLapFrames),
	)
	ret.comparator = compare.NewComparator(
		compare.WithThreshold(ret.params.SpeedDeltaThreshold),
		compare.WithZoneWidth(ret.params.ZoneWidth),
	)
	ret.scorer = cpi.NewScorer(
		cpi.WithMaxSpeed(ret.params.MaxSpeed),
		cpi.WithSectorCount(ret.params.SectorCount),
		cpi.WithWeights(ret.params.Weights),
	)
	return ret
}

// Reconstruct assembles the raw samples into a synchronized series and
// derives distance and dead-reckoned position.
func (p *Pipeline) Reconstruct(samples []model.RawSample) *model.EnrichedSeries {
	return p.reconstruct.Reconstruct(p.assembler.Assemble(samples))
}

// SegmentByLap splits the enriched series into per-lap segments.
func (p *Pipeline) SegmentByLap(series *model.EnrichedSeries) *segment.Collection {
	return p.segmenter.Segment(series)
}

// Compare aligns subject onto reference and flags anomalies.
func (p *Pipeline) Compare(subject, reference *model.LapSegment) *model.ComparisonResult {
	return p.comparator.Compare(subject, reference)
}

// Score computes the composite performance index of one lap segment.
func (p *Pipeline) Score(seg *model.LapSegment, weather *model.Weather) *model.CPIResult {
	return p.scorer.Score(seg, weather)
}
