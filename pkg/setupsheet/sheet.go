// Package setupsheet defines the normalized, strongly-typed setup sheet that
// every supported vendor dialect decodes into, together with a dotted-path
// accessor over its numeric fields.
package setupsheet

import "time"

// Sheet is the canonical representation of one vehicle tuning configuration.
// Numeric fields default to zero when a dialect does not provide them;
// the pointer-valued blocks are optional and stay nil until populated.
type Sheet struct {
	Vehicle     string `json:"vehicle"`
	Track       string `json:"track"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Suspension    SuspensionSettings `json:"suspension"`
	Dampers       DamperSettings     `json:"dampers"`
	TirePressures TirePressures      `json:"tirePressures"`
	Brakes        BrakeSettings      `json:"brakes"`

	Aero         *AeroSettings         `json:"aero,omitempty"`
	Differential *DifferentialSettings `json:"differential,omitempty"`
	Gears        *GearSettings         `json:"gears,omitempty"`

	// Additional carries vendor sections the codec does not understand,
	// keyed by section name. They are re-emitted verbatim on encode.
	Additional map[string]map[string]any `json:"additional,omitempty"`

	Meta *Metadata `json:"meta,omitempty"`
}

// SuspensionSettings groups the per-axle suspension geometry.
type SuspensionSettings struct {
	Front SuspensionAxle `json:"front"`
	Rear  SuspensionAxle `json:"rear"`
}

// SuspensionAxle holds the tunable suspension values for one axle.
// Spring rates are canonical N/mm; camber follows the convention that
// negative camber leans the tire top inward.
type SuspensionAxle struct {
	SpringRate  float64 `json:"springRate"`
	RideHeight  float64 `json:"rideHeight"`
	Camber      float64 `json:"camber"`
	Toe         float64 `json:"toe"`
	AntiRollBar float64 `json:"antiRollBar"`
}

// DamperSettings groups the per-axle damper clicks.
type DamperSettings struct {
	Front DamperAxle `json:"front"`
	Rear  DamperAxle `json:"rear"`
}

// DamperAxle holds bump and rebound for one axle.
type DamperAxle struct {
	Bump    float64 `json:"bump"`
	Rebound float64 `json:"rebound"`
}

// TirePressures holds the cold target pressure at each corner.
type TirePressures struct {
	FrontLeft  float64 `json:"frontLeft"`
	FrontRight float64 `json:"frontRight"`
	RearLeft   float64 `json:"rearLeft"`
	RearRight  float64 `json:"rearRight"`
}

// BrakeSettings holds the brake balance ratio (percent to the front axle).
type BrakeSettings struct {
	Bias float64 `json:"bias"`
}

// AeroSettings holds the aerodynamic trim points.
type AeroSettings struct {
	FrontSplitter float64 `json:"frontSplitter"`
	RearWing      float64 `json:"rearWing"`
}

// DifferentialSettings holds the differential preload and ramp angles.
type DifferentialSettings struct {
	Preload   float64 `json:"preload"`
	PowerRamp float64 `json:"powerRamp"`
	CoastRamp float64 `json:"coastRamp"`
}

// MaxGears bounds the gear-ratio list; no supported gearbox has more.
const MaxGears = 8

// GearSettings holds the final drive and the ordered gear-ratio list.
type GearSettings struct {
	FinalDrive float64   `json:"finalDrive"`
	Ratios     []float64 `json:"ratios"`
}

// Metadata carries optional bookkeeping about a sheet.
type Metadata struct {
	Created       time.Time `json:"created,omitempty"`
	Modified      time.Time `json:"modified,omitempty"`
	Author        string    `json:"author,omitempty"`
	SchemaVersion string    `json:"schemaVersion,omitempty"`
}

// New returns an empty sheet with all numeric fields at their zero defaults.
func New() *Sheet {
	return &Sheet{}
}

// AddSection records one raw vendor section the codec has no mapping for.
func (s *Sheet) AddSection(name string, values map[string]any) {
	if s.Additional == nil {
		s.Additional = make(map[string]map[string]any)
	}
	s.Additional[name] = values
}
