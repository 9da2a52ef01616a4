package sessions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/damlalper/gr-pilot-engine-go/log"
	"github.com/damlalper/gr-pilot-engine-go/pkg/config"
	"github.com/damlalper/gr-pilot-engine-go/pkg/db/postgres"
	sampleRepo "github.com/damlalper/gr-pilot-engine-go/pkg/repository/sample"
	sessionRepo "github.com/damlalper/gr-pilot-engine-go/pkg/repository/session"
	"github.com/damlalper/gr-pilot-engine-go/pkg/utils"
)

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "lists the recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listSessions(cmd.Context())
		},
	}
	cmd.AddCommand(newDeleteCmd())
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete sessionId",
		Short: "deletes a session and its telemetry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteSession(cmd.Context(), args[0])
		},
	}
}

func listSessions(ctx context.Context) error {
	logger := log.Default().Named("sessions")
	pool := connect(logger)
	defer pool.Close()

	sessions, err := sessionRepo.LoadAll(ctx, pool)
	if err != nil {
		return err
	}
	for _, sess := range sessions {
		logger.Info("session",
			log.String("id", sess.ID.String()),
			log.String("name", sess.Name),
			log.String("track", sess.Track),
			log.String("vehicle", sess.VehicleID),
			log.Time("recorded", sess.RecordedAt))
	}
	logger.Info("done", log.Int("count", len(sessions)))
	return nil
}

func deleteSession(ctx context.Context, sessionArg string) error {
	logger := log.Default().Named("sessions")
	sessionID, err := uuid.FromString(sessionArg)
	if err != nil {
		return err
	}
	pool := connect(logger)
	defer pool.Close()

	samples, err := sampleRepo.DeleteBySessionID(ctx, pool, sessionID)
	if err != nil {
		return err
	}
	rows, err := sessionRepo.DeleteByID(ctx, pool, sessionID)
	if err != nil {
		return err
	}
	logger.Info("session deleted",
		log.String("id", sessionID.String()),
		log.Int("sessions", rows),
		log.Int("samples", samples))
	return nil
}

func connect(logger *log.Logger) *pgxpool.Pool {
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
	return postgres.InitWithURL(config.DB)
}
