package compare

import (
	"context"
	"strconv"
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

func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare sessionId subjectLap referenceLap",
		Short: "compares a subject lap against a reference lap",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareLaps(cmd.Context(), args[0], args[1], args[2])
		},
	}
	return cmd
}

//nolint:funlen // sequential command flow
func compareLaps(ctx context.Context, sessionArg, subjectArg, referenceArg string) error {
	logger := log.Default().Named("compare")
	sessionID, err := uuid.FromString(sessionArg)
	if err != nil {
		return err
	}
	subjectLap, err := strconv.Atoi(subjectArg)
	if err != nil {
		return err
	}
	referenceLap, err := strconv.Atoi(referenceArg)
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

	params := config.DefaultParams()
	params.SpeedDeltaThreshold = config.SpeedDeltaThreshold
	params.MinLapFrames = config.MinLapFrames
	svc := service.NewSessionAnalysisService(pool,
		service.WithPipeline(processing.NewPipeline(processing.WithParams(params))),
		service.WithLogger(logger))
	result, err := svc.CompareLaps(ctx, sessionID, subjectLap, referenceLap)
	if err != nil {
		return err
	}
	logger.Info("comparison",
		log.Int("subject", result.SubjectLap),
		log.Int("reference", result.ReferenceLap),
		log.Int("points", len(result.Points)),
		log.Int("anomalies", result.AnomalyCount))
	for _, zone := range result.Zones {
		logger.Info("zone",
			log.Float64("start", zone.Start),
			log.Float64("end", zone.End),
			log.Float64("meanDelta", zone.MeanDelta),
			log.Int("count", zone.Count),
			log.String("severity", string(zone.Severity)),
			log.String("hint", zone.Severity.Hint()))
	}
	if n := len(result.CumulativeTimeDelta); n > 0 {
		logger.Info("time delta",
			log.Float64("total", result.CumulativeTimeDelta[n-1]))
	}
	return nil
}
