package config

// this holds the resolved configuration values from CLI
var (
	DB              string // connection string for the database
	WaitForServices string // duration to wait for other services to be ready
	LogLevel        string // sets the log level (zap log level values)
	LogFormat       string // text vs json
	LogConfig       string // path to log config file

	SpeedDeltaThreshold float64 // anomaly threshold for lap comparison (km/h)
	MinLapFrames        int     // laps with fewer frames are tagged unreliable
)

// Params holds the engine constants. The defaults are the empirically
// chosen values of the original GR Cup analysis; they are configuration,
// not derived physical quantities.
type Params struct {
	// HeadingScale is the empirical scale k applied when integrating
	// steering into heading. Tunable, no geometric derivation.
	HeadingScale float64
	// OriginLat/OriginLon anchor the flat lat/lon projection (COTA).
	OriginLat float64
	OriginLon float64
	// SpeedDeltaThreshold marks a comparison point as anomaly when the
	// reference is faster by more than this value (km/h).
	SpeedDeltaThreshold float64
	// ZoneWidth is the distance bucket size for anomaly aggregation (m).
	ZoneWidth float64
	// MinLapFrames is the minimum number of frames for a lap segment to
	// count as statistically reliable.
	MinLapFrames int
	// MaxSpeed is the assumed vehicle-class speed ceiling (km/h).
	MaxSpeed float64
	// SectorCount is the number of equal-distance sectors used for the
	// consistency sub-score.
	SectorCount int
	// Weights are the CPI component weights, expected to sum to 1.0.
	Weights Weights
}

// Weights holds the CPI component weights.
type Weights struct {
	Speed       float64
	Brake       float64
	Throttle    float64
	Tire        float64
	TurnEntry   float64
	Consistency float64
}

func (w Weights) Sum() float64 {
	return w.Speed + w.Brake + w.Throttle + w.Tire + w.TurnEntry + w.Consistency
}

func DefaultParams() Params {
	return Params{
		HeadingScale:        0.002,
		OriginLat:           30.1328,
		OriginLon:           -97.6411,
		SpeedDeltaThreshold: 15.0,
		ZoneWidth:           500.0,
		MinLapFrames:        10,
		MaxSpeed:            280.0,
		SectorCount:         3,
		Weights: Weights{
			Speed:       0.30,
			Brake:       0.20,
			Throttle:    0.15,
			Tire:        0.15,
			TurnEntry:   0.10,
			Consistency: 0.10,
		},
	}
}
