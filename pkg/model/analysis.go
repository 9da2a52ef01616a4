package model

// Severity classifies the magnitude of a speed deficit at one track
// location.
type Severity string

const (
	SeverityNone        Severity = ""
	SeverityMinor       Severity = "minor"
	SeveritySignificant Severity = "significant"
	SeverityCritical    Severity = "critical"
)

// Coaching hint per severity band.
func (s Severity) Hint() string {
	switch s {
	case SeverityCritical:
		return "Critical speed loss - possible missed apex or heavy braking"
	case SeveritySignificant:
		return "Significant speed loss - check braking point"
	case SeverityMinor:
		return "Minor speed loss - optimize racing line"
	default:
		return ""
	}
}

// DeltaPoint is one distance-aligned comparison sample. Distance and
// ReferenceValue come straight from the reference lap; SubjectValue is
// the subject's speed interpolated onto that distance.
type DeltaPoint struct {
	Distance       float64
	SubjectValue   float64
	ReferenceValue float64
	// Delta is reference minus subject: positive means the reference was
	// faster at this point.
	Delta     float64
	IsAnomaly bool
	Severity  Severity
}

// ComparisonZone aggregates the anomaly points of one fixed-width
// distance bucket.
type ComparisonZone struct {
	Start     float64
	End       float64
	MeanDelta float64
	Count     int
	Severity  Severity
}

// ComparisonResult is the outcome of comparing a subject lap against a
// reference lap. Its points cover exactly the reference lap's distance
// column. Ephemeral, recomputed per request.
type ComparisonResult struct {
	SubjectLap   int
	ReferenceLap int
	Points       []DeltaPoint
	// CumulativeTimeDelta approximates the accumulated time gained or
	// lost by the reference up to each point (seconds).
	CumulativeTimeDelta []float64
	Zones               []ComparisonZone
	AnomalyCount        int
}

func (r *ComparisonResult) Empty() bool { return len(r.Points) == 0 }

// ComponentScores holds the six CPI sub-scores, each in [0,100].
type ComponentScores struct {
	Speed       float64
	Brake       float64
	Throttle    float64
	Tire        float64
	TurnEntry   float64
	Consistency float64
}

// CPIResult is the composite performance index for one lap segment.
type CPIResult struct {
	Lap            int
	TotalScore     float64
	Components     ComponentScores
	Grade          string
	Interpretation string
	// Weather is the ambient context the score was computed under, when
	// one was supplied. Read-only, informational.
	Weather *Weather
}
