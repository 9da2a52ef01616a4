package session

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/damlalper/gr-pilot-engine-go/pkg/model"
	"github.com/damlalper/gr-pilot-engine-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, sess *model.Session) error {
	_, err := conn.Exec(ctx,
		`insert into session (id, name, track, vehicle_id, recorded_at)
		 values ($1,$2,$3,$4,$5)`,
		sess.ID, sess.Name, sess.Track, sess.VehicleID, sess.RecordedAt)
	return err
}

func LoadByID(
	ctx context.Context,
	conn repository.Querier,
	id uuid.UUID,
) (*model.Session, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where id=$1", selector), id)
	var item model.Session
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadAll(
	ctx context.Context,
	conn repository.Querier,
) ([]*model.Session, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s order by recorded_at", selector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Session, 0)
	for rows.Next() {
		var item model.Session
		if err := rows.Scan(&item.ID, &item.Name, &item.Track,
			&item.VehicleID, &item.RecordedAt); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from session where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// little helper
const selector = string(`select id, name, track, vehicle_id, recorded_at from session`)

func scan(e *model.Session, row interface{ Scan(dest ...any) error }) error {
	return row.Scan(&e.ID, &e.Name, &e.Track, &e.VehicleID, &e.RecordedAt)
}
