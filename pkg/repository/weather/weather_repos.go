package weather

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
	"github.com/damlalper/gr-pilot-engine-go/pkg/repository"
)

func Create(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
	w *model.Weather,
) error {
	_, err := conn.Exec(ctx,
		`insert into session_weather
		 (session_id, air_temp, track_temp, humidity, wind_speed,
		  wind_direction, rain, pressure)
		 values ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sessionID, w.AirTemp, w.TrackTemp, w.Humidity, w.WindSpeed,
		w.WindDirection, w.Rain, w.Pressure)
	return err
}

// LoadBySessionID returns the session's ambient record or nil when none
// was recorded. Missing weather is normal, not an error.
func LoadBySessionID(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
) (*model.Weather, error) {
	row := conn.QueryRow(ctx,
		`select air_temp, track_temp, humidity, wind_speed,
		        wind_direction, rain, pressure
		 from session_weather where session_id=$1`,
		sessionID)
	var item model.Weather
	err := row.Scan(&item.AirTemp, &item.TrackTemp, &item.Humidity,
		&item.WindSpeed, &item.WindDirection, &item.Rain, &item.Pressure)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
