package score

import (
	"context"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/damlalper/gr-pilot-engine-go/log"
	"github.com/damlalper/gr-pilot-engine-go/pkg/config"
	"github.com/damlalper/gr-pilot-engine-go/pkg/db/postgres"
	"github.com/damlalper/gr-pilot-engine-go/pkg/service"
	"github.com/damlalper/gr-pilot-engine-go/pkg/utils"
)

func NewScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score sessionId lap",
		Short: "computes the composite performance index of a lap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scoreLap(cmd.Context(), args[0], args[1])
		},
	}
	return cmd
}

func scoreLap(ctx context.Context, sessionArg, lapArg string) error {
	logger := log.Default().Named("score")
	sessionID, err := uuid.FromString(sessionArg)
	if err != nil {
		return err
	}
	lap, err := strconv.Atoi(lapArg)
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

	svc := service.NewSessionAnalysisService(pool, service.WithLogger(logger))
	result, err := svc.ScoreLap(ctx, sessionID, lap)
	if err != nil {
		return err
	}
	logger.Info("cpi",
		log.Int("lap", result.Lap),
		log.Float64("total", result.TotalScore),
		log.String("grade", result.Grade),
		log.String("interpretation", result.Interpretation))
	logger.Info("components",
		log.Float64("speed", result.Components.Speed),
		log.Float64("brake", result.Components.Brake),
		log.Float64("throttle", result.Components.Throttle),
		log.Float64("tire", result.Components.Tire),
		log.Float64("turnEntry", result.Components.TurnEntry),
		log.Float64("consistency", result.Components.Consistency))
	if result.Weather != nil {
		logger.Info("weather",
			log.Float64("airTemp", result.Weather.AirTemp),
			log.Float64("trackTemp", result.Weather.TrackTemp),
			log.Float64("humidity", result.Weather.Humidity),
			log.Float64("rain", result.Weather.Rain))
	}
	return nil
}
