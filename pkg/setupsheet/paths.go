package setupsheet

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrInvalidPath reports a dotted path that does not address a numeric leaf
// field of the sheet schema. With dialect definitions validated at
// registration time this is a definition bug, not a runtime condition.
var ErrInvalidPath = errors.New("invalid field path")

// accessor is one entry in the closed path schema: a getter that reports
// presence and a setter that vivifies optional blocks on first write.
type accessor struct {
	get func(*Sheet) (float64, bool)
	set func(*Sheet, float64)
}

// fieldPaths is the closed schema of addressable numeric leaves, built once
// at package init. Canonical field names never contain dots, so paths need
// no escaping.
var fieldPaths = buildFieldPaths()

func buildFieldPaths() map[string]accessor {
	paths := make(map[string]accessor)

	axle := func(prefix string, pick func(*Sheet) *SuspensionAxle) {
		paths[prefix+".springRate"] = accessor{
			get: func(s *Sheet) (float64, bool) { return pick(s).SpringRate, true },
			set: func(s *Sheet, v float64) { pick(s).SpringRate = v },
		}
		paths[prefix+".rideHeight"] = accessor{
			get: func(s *Sheet) (float64, bool) { return pick(s).RideHeight, true },
			set: func(s *Sheet, v float64) { pick(s).RideHeight = v },
		}
		paths[prefix+".camber"] = accessor{
			get: func(s *Sheet) (float64, bool) { return pick(s).Camber, true },
			set: func(s *Sheet, v float64) { pick(s).Camber = v },
		}
		paths[prefix+".toe"] = accessor{
			get: func(s *Sheet) (float64, bool) { return pick(s).Toe, true },
			set: func(s *Sheet, v float64) { pick(s).Toe = v },
		}
		paths[prefix+".antiRollBar"] = accessor{
			get: func(s *Sheet) (float64, bool) { return pick(s).AntiRollBar, true },
			set: func(s *Sheet, v float64) { pick(s).AntiRollBar = v },
		}
	}
	axle("suspension.front", func(s *Sheet) *SuspensionAxle { return &s.Suspension.Front })
	axle("suspension.rear", func(s *Sheet) *SuspensionAxle { return &s.Suspension.Rear })

	damper := func(prefix string, pick func(*Sheet) *DamperAxle) {
		paths[prefix+".bump"] = accessor{
			get: func(s *Sheet) (float64, bool) { return pick(s).Bump, true },
			set: func(s *Sheet, v float64) { pick(s).Bump = v },
		}
		paths[prefix+".rebound"] = accessor{
			get: func(s *Sheet) (float64, bool) { return pick(s).Rebound, true },
			set: func(s *Sheet, v float64) { pick(s).Rebound = v },
		}
	}
	damper("dampers.front", func(s *Sheet) *DamperAxle { return &s.Dampers.Front })
	damper("dampers.rear", func(s *Sheet) *DamperAxle { return &s.Dampers.Rear })

	corner := func(path string, pick func(*Sheet) *float64) {
		paths[path] = accessor{
			get: func(s *Sheet) (float64, bool) { return *pick(s), true },
			set: func(s *Sheet, v float64) { *pick(s) = v },
		}
	}
	corner("tires.frontLeft", func(s *Sheet) *float64 { return &s.TirePressures.FrontLeft })
	corner("tires.frontRight", func(s *Sheet) *float64 { return &s.TirePressures.FrontRight })
	corner("tires.rearLeft", func(s *Sheet) *float64 { return &s.TirePressures.RearLeft })
	corner("tires.rearRight", func(s *Sheet) *float64 { return &s.TirePressures.RearRight })

	corner("brakes.bias", func(s *Sheet) *float64 { return &s.Brakes.Bias })

	// Aero and differential are optional: a get on an absent block reports
	// absence, a set allocates the block first.
	aero := func(path string, pick func(*AeroSettings) *float64) {
		paths[path] = accessor{
			get: func(s *Sheet) (float64, bool) {
				if s.Aero == nil {
					return 0, false
				}
				return *pick(s.Aero), true
			},
			set: func(s *Sheet, v float64) {
				if s.Aero == nil {
					s.Aero = &AeroSettings{}
				}
				*pick(s.Aero) = v
			},
		}
	}
	aero("aero.frontSplitter", func(a *AeroSettings) *float64 { return &a.FrontSplitter })
	aero("aero.rearWing", func(a *AeroSettings) *float64 { return &a.RearWing })

	diff := func(path string, pick func(*DifferentialSettings) *float64) {
		paths[path] = accessor{
			get: func(s *Sheet) (float64, bool) {
				if s.Differential == nil {
					return 0, false
				}
				return *pick(s.Differential), true
			},
			set: func(s *Sheet, v float64) {
				if s.Differential == nil {
					s.Differential = &DifferentialSettings{}
				}
				*pick(s.Differential) = v
			},
		}
	}
	diff("differential.preload", func(d *DifferentialSettings) *float64 { return &d.Preload })
	diff("differential.powerRamp", func(d *DifferentialSettings) *float64 { return &d.PowerRamp })
	diff("differential.coastRamp", func(d *DifferentialSettings) *float64 { return &d.CoastRamp })

	paths["gears.finalDrive"] = accessor{
		get: func(s *Sheet) (float64, bool) {
			if s.Gears == nil {
				return 0, false
			}
			return s.Gears.FinalDrive, true
		},
		set: func(s *Sheet, v float64) {
			if s.Gears == nil {
				s.Gears = &GearSettings{}
			}
			s.Gears.FinalDrive = v
		},
	}
	for n := 1; n <= MaxGears; n++ {
		idx := n - 1
		paths["gears."+strconv.Itoa(n)] = accessor{
			get: func(s *Sheet) (float64, bool) {
				if s.Gears == nil || idx >= len(s.Gears.Ratios) {
					return 0, false
				}
				return s.Gears.Ratios[idx], true
			},
			set: func(s *Sheet, v float64) {
				if s.Gears == nil {
					s.Gears = &GearSettings{}
				}
				for len(s.Gears.Ratios) <= idx {
					s.Gears.Ratios = append(s.Gears.Ratios, 0)
				}
				s.Gears.Ratios[idx] = v
			},
		}
	}

	return paths
}

// Get reads the numeric leaf addressed by path. The second return is false
// when the path addresses an absent optional block (or an unset gear slot);
// the error is non-nil only for a path outside the schema.
func Get(s *Sheet, path string) (float64, bool, error) {
	acc, ok := fieldPaths[path]
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	v, present := acc.get(s)
	return v, present, nil
}

// Set writes the numeric leaf addressed by path, allocating intermediate
// optional blocks as needed.
func Set(s *Sheet, path string, v float64) error {
	acc, ok := fieldPaths[path]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	acc.set(s, v)
	return nil
}

// ValidPath reports whether path addresses a numeric leaf of the schema.
func ValidPath(path string) bool {
	_, ok := fieldPaths[path]
	return ok
}

// KnownPaths returns every addressable field path, sorted. Dialect
// registration uses this to validate definitions up front.
func KnownPaths() []string {
	out := make([]string, 0, len(fieldPaths))
	for p := range fieldPaths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
