package analyze

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/damlalper/gr-pilot-engine-go/log"
	"github.com/damlalper/gr-pilot-engine-go/pkg/config"
	"github.com/damlalper/gr-pilot-engine-go/pkg/db/postgres"
	"github.com/damlalper/gr-pilot-engine-go/pkg/processing"
	"github.com/damlalper/gr-pilot-engine-go/pkg/service"
	"github.com/damlalper/gr-pilot-engine-go/pkg/utils"
)

var vehicleID string

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze sessionId",
		Short: "reconstructs a session and displays its lap overview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeSession(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&vehicleID, "vehicle", "",
		"restrict analysis to this vehicle id")
	return cmd
}

func analyzeSession(ctx context.Context, sessionArg string) error {
	logger := log.Default().Named("analyze")
	sessionID, err := uuid.FromString(sessionArg)
	if err != nil {
		return err
	}
	// wait for database
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		logger.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(postgresAddr, timeout); err != nil {
		logger.Fatal("database not ready", log.ErrorField(err))
	}
	var poolOpts []postgres.PoolConfigOption
	if logger.DebugEnabled() {
		poolOpts = append(poolOpts,
			postgres.WithTracer(log.Default().Named("db").Sugar()))
	}
	pool := postgres.InitWithURL(config.DB, poolOpts...)
	defer pool.Close()

	svc := service.NewSessionAnalysisService(pool,
		service.WithPipeline(buildPipeline()),
		service.WithLogger(logger))
	analysis, err := svc.Analysis(ctx, sessionID)
	if err != nil {
		return err
	}
	logger.Info("session",
		log.String("name", analysis.Session.Name),
		log.String("track", analysis.Session.Track),
		log.String("vehicle", analysis.Series.VehicleID),
		log.Int("frames", len(analysis.Series.Frames)),
		log.Bool("position", analysis.Series.HasPosition))
	for _, seg := range analysis.Laps {
		logger.Info("lap",
			log.Int("lap", seg.Lap),
			log.Int("frames", len(seg.Frames)),
			log.Duration("duration", seg.Duration()),
			log.Float64("distance", seg.TotalDistance()),
			log.Bool("unreliable", seg.Unreliable))
	}
	best, err := svc.BestLap(ctx, sessionID)
	switch {
	case errors.Is(err, service.ErrNoLaps):
		logger.Warn("no reliable laps in session")
	case err != nil:
		return err
	default:
		logger.Info("best lap",
			log.Int("lap", best.Lap),
			log.Duration("duration", best.Duration()))
	}
	return nil
}

func buildPipeline() *processing.Pipeline {
	params := config.DefaultParams()
	params.SpeedDeltaThreshold = config.SpeedDeltaThreshold
	params.MinLapFrames = config.MinLapFrames
	opts := []processing.PipelineOption{processing.WithParams(params)}
	if vehicleID != "" {
		opts = append(opts, processing.WithVehicle(vehicleID))
	}
	return processing.NewPipeline(opts...)
}
