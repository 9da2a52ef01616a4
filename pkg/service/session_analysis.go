package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/damlalper/gr-pilot-engine-go/log"
	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing/segment"
	"github.com/damlalper/gr-pilot-engine-go/pkg/repository"
	sampleRepo "github.com/damlalper/gr-pilot-engine-go/pkg/repository/sample"
	sessionRepo "github.com/damlalper/gr-pilot-engine-go/pkg/repository/session"
	weatherRepo "github.com/damlalper/gr-pilot-engine-go/pkg/repository/weather"
	"github.com/damlalper/gr-pilot-engine-go/pkg/utils/cache"
	"github.com/damlalper/gr-pilot-engine-go/pkg/utils/cache/loadercache"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoLaps signals a session without any reliable lap.
	ErrNoLaps = errors.New("no reliable laps in session")
)

// SessionAnalysis is the reconstructed view of one session: the enriched
// series plus its lap segments and ambient weather. Immutable once
// loaded; safe to share between concurrent readers.
type SessionAnalysis struct {
	Session *model.Session
	Series  *model.EnrichedSeries
	Laps    []*model.LapSegment
	Weather *model.Weather
}

// ByLap returns the first segment with the given lap number.
func (a *SessionAnalysis) ByLap(lap int) (*model.LapSegment, error) {
	for _, seg := range a.Laps {
		if seg.Lap == lap {
			return seg, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", segment.ErrLapNotFound, lap)
}

// SessionAnalysisService loads raw samples from the database, runs the
// reconstruction pipeline once per session and memoizes the result in an
// injectable cache.
type SessionAnalysisService struct {
	conn     repository.Querier
	pipeline *processing.Pipeline
	sessions cache.Cache[uuid.UUID, SessionAnalysis]
	l        *log.Logger
}

type Option func(s *SessionAnalysisService)

// WithPipeline replaces the default pipeline (custom engine params).
func WithPipeline(p *processing.Pipeline) Option {
	return func(s *SessionAnalysisService) {
		s.pipeline = p
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *SessionAnalysisService) {
		s.l = l
	}
}

func NewSessionAnalysisService(conn repository.Querier, opts ...Option) *SessionAnalysisService {
	ret := &SessionAnalysisService{
		conn: conn,
		l:    log.Default().Named("service.session"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.pipeline == nil {
		ret.pipeline = processing.NewPipeline()
	}
	ret.sessions = loadercache.New(
		loadercache.WithLoader[uuid.UUID, SessionAnalysis](ret.loadSession),
		loadercache.WithLogger[uuid.UUID, SessionAnalysis](ret.l),
	)
	return ret
}

// Analysis returns the reconstructed session, loading it on first use.
func (s *SessionAnalysisService) Analysis(
	ctx context.Context,
	sessionID uuid.UUID,
) (*SessionAnalysis, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Invalidate drops a memoized session, forcing a reload on next access.
func (s *SessionAnalysisService) Invalidate(ctx context.Context, sessionID uuid.UUID) {
	s.sessions.Invalidate(ctx, sessionID)
}

// CompareLaps compares the subject lap against the reference lap of one
// session. Unknown lap numbers surface as ErrLapNotFound.
func (s *SessionAnalysisService) CompareLaps(
	ctx context.Context,
	sessionID uuid.UUID,
	subjectLap, referenceLap int,
) (*model.ComparisonResult, error) {
	analysis, err := s.Analysis(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	subject, err := analysis.ByLap(subjectLap)
	if err != nil {
		return nil, err
	}
	reference, err := analysis.ByLap(referenceLap)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Compare(subject, reference), nil
}

// ScoreLap computes the CPI of one lap, attaching the session's weather
// record as read-only context.
func (s *SessionAnalysisService) ScoreLap(
	ctx context.Context,
	sessionID uuid.UUID,
	lap int,
) (*model.CPIResult, error) {
	analysis, err := s.Analysis(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	seg, err := analysis.ByLap(lap)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Score(seg, analysis.Weather), nil
}

// BestLap returns the reliable lap with the shortest elapsed time.
func (s *SessionAnalysisService) BestLap(
	ctx context.Context,
	sessionID uuid.UUID,
) (*model.LapSegment, error) {
	analysis, err := s.Analysis(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	reliable := lo.Filter(analysis.Laps, func(seg *model.LapSegment, _ int) bool {
		return !seg.Unreliable
	})
	if len(reliable) == 0 {
		return nil, ErrNoLaps
	}
	return lo.MinBy(reliable, func(a, b *model.LapSegment) bool {
		return a.Duration() < b.Duration()
	}), nil
}

func (s *SessionAnalysisService) loadSession(sessionID uuid.UUID) (*SessionAnalysis, error) {
	ctx := context.Background()
	sess, err := sessionRepo.LoadByID(ctx, s.conn, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}
	samples, err := sampleRepo.LoadBySessionID(ctx, s.conn, sessionID)
	if err != nil {
		return nil, err
	}
	weather, err := weatherRepo.LoadBySessionID(ctx, s.conn, sessionID)
	if err != nil {
		return nil, err
	}
	series := s.pipeline.Reconstruct(samples)
	laps := s.pipeline.SegmentByLap(series)
	s.l.Info("session loaded",
		log.String("session", sessionID.String()),
		log.Int("samples", len(samples)),
		log.Int("frames", len(series.Frames)),
		log.Int("laps", len(laps.Segments)))
	return &SessionAnalysis{
		Session: sess,
		Series:  series,
		Laps:    laps.Segments,
		Weather: weather,
	}, nil
}
