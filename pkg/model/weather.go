package model

// Weather is the single ambient record of a session.
type Weather struct {
	AirTemp       float64
	TrackTemp     float64
	Humidity      float64
	WindSpeed     float64
	WindDirection float64
	Rain          float64
	Pressure      float64
}
