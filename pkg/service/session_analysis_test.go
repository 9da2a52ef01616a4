package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing/segment"
)

func sampleAnalysis() *SessionAnalysis {
	base := time.Date(2024, 4, 12, 14, 0, 0, 0, time.UTC)
	lap := func(num, frames int) *model.LapSegment {
		ret := &model.LapSegment{Lap: num}
		for i := 0; i < frames; i++ {
			ret.Frames = append(ret.Frames, model.Frame{
				Timestamp: base.Add(time.Duration(i) * time.Second),
				Lap:       num,
			})
		}
		return ret
	}
	return &SessionAnalysis{
		Laps: []*model.LapSegment{lap(1, 5), lap(2, 10), lap(3, 8)},
	}
}

func TestSessionAnalysis_ByLap(t *testing.T) {
	analysis := sampleAnalysis()

	seg, err := analysis.ByLap(2)
	require.NoError(t, err)
	assert.Equal(t, 2, seg.Lap)

	_, err = analysis.ByLap(9)
	assert.ErrorIs(t, err, segment.ErrLapNotFound)
}
