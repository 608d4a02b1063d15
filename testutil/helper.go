// Package testutil carries fixtures and helpers shared by package tests.
package testutil

import "math"

// FerrariSampleText is a complete setup file in the Ferrari 488 GT3 dialect.
const FerrariSampleText = `VERSION = 1
VEHICLE = ferrari_488_gt3
TRACK = monza
SETUP_NAME = race_a

[TIRE]
PRESSURE_LF = 172
PRESSURE_RF = 172
PRESSURE_LR = 165
PRESSURE_RR = 165

[SUSPENSION]
SPRING_RATE_F = 158.0
SPRING_RATE_R = 184.0
RIDE_HEIGHT_F = 54.0
RIDE_HEIGHT_R = 64.0
CAMBER_LF = 3.0
CAMBER_LR = 2.5
TOE_LF = 0.1
TOE_LR = 0.25
ARB_F = 4
ARB_R = 2

[DAMPER]
BUMP_F = 8
REBOUND_F = 10
BUMP_R = 7
REBOUND_R = 9

[AERO]
SPLITTER = 2
WING = 6

[BRAKE]
BRAKE_BALANCE = 54.5

[DIFF]
PRELOAD = 80
RAMP_POWER = 45
RAMP_COAST = 60

[GEARBOX]
FINAL_DRIVE = 4.44
GEAR_1 = 2.92
GEAR_2 = 2.19
GEAR_3 = 1.79
GEAR_4 = 1.52
GEAR_5 = 1.30
GEAR_6 = 1.13
`

// PorscheSampleText is a setup file in the Porsche 911 GT3 R dialect: spring
// rates in N/m, brake bias as a 0..1 fraction.
const PorscheSampleText = `VERSION = 1
VEHICLE = porsche_911_gt3_r
TRACK = spa
SETUP_NAME = wet_race

[TYRES]
TP_FL = 158
TP_FR = 158
TP_RL = 152
TP_RR = 152

[SUSP]
SPRING_F = 125000
SPRING_R = 148000
RH_F = 58.0
RH_R = 71.0
CAMBER_F = -3.4
CAMBER_R = -2.9
TOE_F = 0.05
TOE_R = 0.2
ARB_FRONT = 3
ARB_REAR = 1

[BRAKES]
BIAS = 0.545
`

// UnknownVehicleSampleText uses a vehicle id no dialect is registered for,
// so it exercises the generic fallback mapping. The GEARS section skips
// GEAR_3 on purpose.
const UnknownVehicleSampleText = `VERSION = 1
VEHICLE = bmw_m4_gt3
TRACK = imola
SETUP_NAME = generic

[TIRES]
PRESSURE_LF = 160
PRESSURE_RF = 160
PRESSURE_LR = 158
PRESSURE_RR = 158

[SUSPENSION]
SPRING_RATE_F = 140.0
CAMBER_F = -3.1
BUMP_F = 6
REBOUND_F = 8

[BRAKES]
BRAKE_BALANCE = 52.0

[GEARS]
FINAL_DRIVE = 3.9
GEAR_1 = 3.18
GEAR_2 = 2.43
GEAR_4 = 1.56

[TELEMETRY_HINTS]
LOG_RATE = 50
CHANNEL = suspension
`

// AlmostEqual reports whether two floats agree within a tolerance loose
// enough to absorb transform round-trip error.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
