package dialect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twinfer/setupsheet-plugin/pkg/setupsheet"
	"github.com/twinfer/setupsheet-plugin/pkg/setuptext"
)

// probe is one generic-mapper entry: the canonical field path, the section
// names likely to carry it, and the raw key aliases tried in order. The
// first alias present wins on decode; the first section and key alias are
// what encode emits.
type probe struct {
	path     string
	sections []string
	keys     []string
}

var (
	tireSections = []string{"TIRES", "TYRES", "TIRE"}
	suspSections = []string{"SUSPENSION", "SUSP", "SPRINGS"}
	// Some dialects fold dampers into the suspension section, so the
	// damper probes fall through to it.
	damperSections = []string{"DAMPERS", "SHOCKS", "SUSPENSION"}
	aeroSections   = []string{"AERO", "AERODYNAMICS", "WINGS"}
	brakeSections  = []string{"BRAKES", "BRAKE"}
	diffSections   = []string{"DIFF", "DIFFERENTIAL"}
	gearSections   = []string{"GEARS", "GEARBOX", "TRANSMISSION"}
)

var genericProbes = []probe{
	{"tires.frontLeft", tireSections, []string{"PRESSURE_LF", "PRESSURE_FL", "TP_FL", "LF_PRESSURE"}},
	{"tires.frontRight", tireSections, []string{"PRESSURE_RF", "PRESSURE_FR", "TP_FR", "RF_PRESSURE"}},
	{"tires.rearLeft", tireSections, []string{"PRESSURE_LR", "PRESSURE_RL", "TP_RL", "LR_PRESSURE"}},
	{"tires.rearRight", tireSections, []string{"PRESSURE_RR", "TP_RR", "RR_PRESSURE"}},

	{"suspension.front.springRate", suspSections, []string{"SPRING_RATE_F", "SPRING_F", "FRONT_SPRING"}},
	{"suspension.rear.springRate", suspSections, []string{"SPRING_RATE_R", "SPRING_R", "REAR_SPRING"}},
	{"suspension.front.rideHeight", suspSections, []string{"RIDE_HEIGHT_F", "RH_F", "FRONT_RIDE_HEIGHT"}},
	{"suspension.rear.rideHeight", suspSections, []string{"RIDE_HEIGHT_R", "RH_R", "REAR_RIDE_HEIGHT"}},
	{"suspension.front.camber", suspSections, []string{"CAMBER_F", "CAMBER_LF", "FRONT_CAMBER"}},
	{"suspension.rear.camber", suspSections, []string{"CAMBER_R", "CAMBER_LR", "REAR_CAMBER"}},
	{"suspension.front.toe", suspSections, []string{"TOE_F", "TOE_LF", "FRONT_TOE"}},
	{"suspension.rear.toe", suspSections, []string{"TOE_R", "TOE_LR", "REAR_TOE"}},
	{"suspension.front.antiRollBar", suspSections, []string{"ARB_F", "ARB_FRONT", "FRONT_ARB"}},
	{"suspension.rear.antiRollBar", suspSections, []string{"ARB_R", "ARB_REAR", "REAR_ARB"}},

	{"dampers.front.bump", damperSections, []string{"BUMP_F", "DAMPER_BUMP_F", "FRONT_BUMP"}},
	{"dampers.front.rebound", damperSections, []string{"REBOUND_F", "DAMPER_REBOUND_F", "FRONT_REBOUND"}},
	{"dampers.rear.bump", damperSections, []string{"BUMP_R", "DAMPER_BUMP_R", "REAR_BUMP"}},
	{"dampers.rear.rebound", damperSections, []string{"REBOUND_R", "DAMPER_REBOUND_R", "REAR_REBOUND"}},

	{"aero.frontSplitter", aeroSections, []string{"SPLITTER", "FRONT_SPLITTER", "FRONT_WING"}},
	{"aero.rearWing", aeroSections, []string{"WING", "REAR_WING"}},

	{"brakes.bias", brakeSections, []string{"BRAKE_BALANCE", "BIAS", "BRAKE_BIAS"}},

	{"differential.preload", diffSections, []string{"PRELOAD", "DIFF_PRELOAD"}},
	{"differential.powerRamp", diffSections, []string{"RAMP_POWER", "POWER_RAMP", "RAMP_ACCEL"}},
	{"differential.coastRamp", diffSections, []string{"RAMP_COAST", "COAST_RAMP", "RAMP_DECEL"}},

	{"gears.finalDrive", gearSections, []string{"FINAL_DRIVE", "FINAL_RATIO", "FINAL"}},
}

// genericSections is the set of section names any probe may consume; raw
// sections outside it are passed through verbatim.
var genericSections = func() map[string]struct{} {
	out := make(map[string]struct{})
	for _, group := range [][]string{
		tireSections, suspSections, damperSections, aeroSections,
		brakeSections, diffSections, gearSections,
	} {
		for _, name := range group {
			out[name] = struct{}{}
		}
	}
	return out
}()

// GenericMapper is the dialect-independent best-effort mapping used when no
// registered dialect matches the input's vehicle id.
type GenericMapper struct {
	logger *slog.Logger
	strict bool
}

// NewGenericMapper creates the fallback mapper. A nil logger falls back to
// slog.Default().
func NewGenericMapper(logger *slog.Logger, strict bool) *GenericMapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenericMapper{logger: logger, strict: strict}
}

// Decode probes the raw table for each canonical field's known aliases.
// Unmatched fields keep their defaults, optional blocks materialize only
// when at least one of their keys was found, and the gear-ratio list stops
// at the first missing GEAR_<n> index.
func (g *GenericMapper) Decode(ctx context.Context, tbl *setuptext.Table) (*setupsheet.Sheet, error) {
	g.logger.DebugContext(ctx, "Decoding with generic fallback mapping")
	sheet := setupsheet.New()

	for _, p := range genericProbes {
		raw, found := probeTable(tbl, p)
		if !found {
			continue
		}
		value, numeric := raw.Float64()
		if !numeric {
			if g.strict {
				return nil, fmt.Errorf("non-numeric value %q for generic field %s", raw.String(), p.path)
			}
			value = 0
		}
		if err := setupsheet.Set(sheet, p.path, value); err != nil {
			return nil, err
		}
	}

	if section := firstSection(tbl, gearSections); section != nil {
		for n := 1; n <= setupsheet.MaxGears; n++ {
			raw, ok := section.Get(fmt.Sprintf("GEAR_%d", n))
			if !ok {
				// A hole in the numbering truncates the sequence.
				break
			}
			value, numeric := raw.Float64()
			if !numeric {
				if g.strict {
					return nil, fmt.Errorf("non-numeric value %q for GEAR_%d", raw.String(), n)
				}
				value = 0
			}
			if err := setupsheet.Set(sheet, fmt.Sprintf("gears.%d", n), value); err != nil {
				return nil, err
			}
		}
	}

	copyUnknownSections(tbl, sheet, func(name string) bool {
		_, ok := genericSections[name]
		return ok
	})
	return sheet, nil
}

// Encode mirrors Decode symmetrically: each present canonical field is
// emitted under the first section alias and first key alias of its probe.
func (g *GenericMapper) Encode(ctx context.Context, sheet *setupsheet.Sheet) (*setuptext.Table, error) {
	g.logger.DebugContext(ctx, "Encoding with generic fallback mapping")
	tbl := setuptext.NewTable()

	for _, p := range genericProbes {
		value, present, err := setupsheet.Get(sheet, p.path)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		tbl.EnsureSection(p.sections[0]).Set(p.keys[0], setuptext.NumberValue(value))
	}

	if sheet.Gears != nil {
		section := tbl.EnsureSection(gearSections[0])
		for i, ratio := range sheet.Gears.Ratios {
			section.Set(fmt.Sprintf("GEAR_%d", i+1), setuptext.NumberValue(ratio))
		}
	}

	emitAdditionalSections(tbl, sheet)
	return tbl, nil
}

// probeTable finds the first (section alias, key alias) pair present in the
// table for one probe.
func probeTable(tbl *setuptext.Table, p probe) (setuptext.Value, bool) {
	for _, sectionName := range p.sections {
		section := tbl.Section(sectionName)
		if section == nil {
			continue
		}
		for _, key := range p.keys {
			if v, ok := section.Get(key); ok {
				return v, true
			}
		}
	}
	return setuptext.Value{}, false
}

// firstSection returns the first of the named sections present in the table.
func firstSection(tbl *setuptext.Table, names []string) *setuptext.Section {
	for _, name := range names {
		if s := tbl.Section(name); s != nil {
			return s
		}
	}
	return nil
}
