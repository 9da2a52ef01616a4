package sample

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
	"github.com/damlalper/gr-pilot-engine-go/pkg/repository"
)

// CreateBulk inserts raw samples via pgx CopyFrom.
func CreateBulk(
	ctx context.Context,
	conn interface {
		CopyFrom(ctx context.Context, tableName pgx.Identifier,
			columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	},
	sessionID uuid.UUID,
	samples []model.RawSample,
) (int64, error) {
	rows := make([][]any, len(samples))
	for i, s := range samples {
		rows[i] = []any{sessionID, s.Timestamp, s.VehicleID, s.Channel, s.Value, s.Lap}
	}
	return conn.CopyFrom(ctx,
		pgx.Identifier{"telemetry_sample"},
		[]string{"session_id", "ts", "vehicle_id", "channel", "value", "lap"},
		pgx.CopyFromRows(rows))
}

// LoadBySessionID returns the raw samples of a session in time order.
// The long format (one row per channel observation) is kept as recorded;
// synchronization happens in the assembler.
func LoadBySessionID(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
) ([]model.RawSample, error) {
	rows, err := conn.Query(ctx,
		`select ts, vehicle_id, channel, value, lap
		 from telemetry_sample where session_id=$1 order by ts`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.RawSample, 0)
	for rows.Next() {
		var item model.RawSample
		if err := rows.Scan(&item.Timestamp, &item.VehicleID,
			&item.Channel, &item.Value, &item.Lap); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// LoadVehicleIDs returns the distinct vehicles of a session.
func LoadVehicleIDs(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
) ([]string, error) {
	rows, err := conn.Query(ctx,
		`select distinct vehicle_id from telemetry_sample
		 where session_id=$1 order by vehicle_id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ret = append(ret, id)
	}
	return ret, rows.Err()
}

// deletes the samples of a session, returns number of rows deleted.
func DeleteBySessionID(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from telemetry_sample where session_id=$1", sessionID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
