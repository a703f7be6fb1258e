package models

type AreaKind string

const (
	AreaLandslide  AreaKind = "landslide"
	AreaFlooding   AreaKind = "flooding"
	AreaInundation AreaKind = "inundation"
)

type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Area is a gazetteer entry. Only Name takes part in mention detection; the
// remaining fields describe the last known situation on the ground.
type Area struct {
	Name       string   `json:"name" yaml:"name"`
	Kind       AreaKind `json:"kind" yaml:"kind"`
	Severity   Severity `json:"severity" yaml:"severity"`
	Status     string   `json:"status" yaml:"status"`
	Victims    *int     `json:"victims,omitempty" yaml:"victims,omitempty"`
	RainfallMM *float64 `json:"rainfall_mm,omitempty" yaml:"rainfall_mm,omitempty"`
}
