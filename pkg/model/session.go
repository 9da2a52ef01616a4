package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Session is one recorded track session.
type Session struct {
	ID         uuid.UUID
	Name       string
	Track      string
	VehicleID  string
	RecordedAt time.Time
}
