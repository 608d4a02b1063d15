package dialect

// Built-in dialect definitions for the two supported vendors. Both are
// plain data; the registry compiles and validates them like any loaded
// definition.

// Ferrari488GT3 is the factory dialect for the Ferrari 488 GT3 setup
// format. Spring rates already arrive in canonical N/mm. The vendor reports
// camber magnitudes as positive numbers, so both camber paths carry a sign
// flip to reach the canonical negative-camber convention.
func Ferrari488GT3() *Definition {
	return &Definition{
		Vehicle:     "ferrari_488_gt3",
		DisplayName: "Ferrari 488 GT3",
		Sections: map[string]map[string]string{
			"TIRE": {
				"tires.frontLeft":  "PRESSURE_LF",
				"tires.frontRight": "PRESSURE_RF",
				"tires.rearLeft":   "PRESSURE_LR",
				"tires.rearRight":  "PRESSURE_RR",
			},
			"SUSPENSION": {
				"suspension.front.springRate":  "SPRING_RATE_F",
				"suspension.rear.springRate":   "SPRING_RATE_R",
				"suspension.front.rideHeight":  "RIDE_HEIGHT_F",
				"suspension.rear.rideHeight":   "RIDE_HEIGHT_R",
				"suspension.front.camber":      "CAMBER_LF",
				"suspension.rear.camber":       "CAMBER_LR",
				"suspension.front.toe":         "TOE_LF",
				"suspension.rear.toe":          "TOE_LR",
				"suspension.front.antiRollBar": "ARB_F",
				"suspension.rear.antiRollBar":  "ARB_R",
			},
			"DAMPER": {
				"dampers.front.bump":    "BUMP_F",
				"dampers.front.rebound": "REBOUND_F",
				"dampers.rear.bump":     "BUMP_R",
				"dampers.rear.rebound":  "REBOUND_R",
			},
			"AERO": {
				"aero.frontSplitter": "SPLITTER",
				"aero.rearWing":      "WING",
			},
			"BRAKE": {
				"brakes.bias": "BRAKE_BALANCE",
			},
			"DIFF": {
				"differential.preload":   "PRELOAD",
				"differential.powerRamp": "RAMP_POWER",
				"differential.coastRamp": "RAMP_COAST",
			},
			"GEARBOX": {
				"gears.finalDrive": "FINAL_DRIVE",
				"gears.1":          "GEAR_1",
				"gears.2":          "GEAR_2",
				"gears.3":          "GEAR_3",
				"gears.4":          "GEAR_4",
				"gears.5":          "GEAR_5",
				"gears.6":          "GEAR_6",
			},
		},
		Transforms: map[string]TransformSpec{
			"suspension.front.camber": {Kind: TransformNegate},
			"suspension.rear.camber":  {Kind: TransformNegate},
		},
	}
}

// Porsche911GT3R is the factory dialect for the Porsche 911 GT3 R setup
// format. Spring rates arrive in N/m and are rescaled to canonical N/mm;
// brake bias arrives as a 0..1 fraction and is widened to canonical percent
// through an expression pair.
func Porsche911GT3R() *Definition {
	return &Definition{
		Vehicle:     "porsche_911_gt3_r",
		DisplayName: "Porsche 911 GT3 R",
		Sections: map[string]map[string]string{
			"TYRES": {
				"tires.frontLeft":  "TP_FL",
				"tires.frontRight": "TP_FR",
				"tires.rearLeft":   "TP_RL",
				"tires.rearRight":  "TP_RR",
			},
			"SUSP": {
				"suspension.front.springRate":  "SPRING_F",
				"suspension.rear.springRate":   "SPRING_R",
				"suspension.front.rideHeight":  "RH_F",
				"suspension.rear.rideHeight":   "RH_R",
				"suspension.front.camber":      "CAMBER_F",
				"suspension.rear.camber":       "CAMBER_R",
				"suspension.front.toe":         "TOE_F",
				"suspension.rear.toe":          "TOE_R",
				"suspension.front.antiRollBar": "ARB_FRONT",
				"suspension.rear.antiRollBar":  "ARB_REAR",
			},
			"SHOCKS": {
				"dampers.front.bump":    "DAMPER_BUMP_F",
				"dampers.front.rebound": "DAMPER_REBOUND_F",
				"dampers.rear.bump":     "DAMPER_BUMP_R",
				"dampers.rear.rebound":  "DAMPER_REBOUND_R",
			},
			"WINGS": {
				"aero.frontSplitter": "FRONT_SPLITTER",
				"aero.rearWing":      "REAR_WING",
			},
			"BRAKES": {
				"brakes.bias": "BIAS",
			},
			"DIFFERENTIAL": {
				"differential.preload":   "DIFF_PRELOAD",
				"differential.powerRamp": "RAMP_ACCEL",
				"differential.coastRamp": "RAMP_DECEL",
			},
			"TRANSMISSION": {
				"gears.finalDrive": "FINAL_RATIO",
				"gears.1":          "RATIO_1",
				"gears.2":          "RATIO_2",
				"gears.3":          "RATIO_3",
				"gears.4":          "RATIO_4",
				"gears.5":          "RATIO_5",
				"gears.6":          "RATIO_6",
			},
		},
		Transforms: map[string]TransformSpec{
			"suspension.front.springRate": {Kind: TransformScale, Factor: 0.001},
			"suspension.rear.springRate":  {Kind: TransformScale, Factor: 0.001},
			"brakes.bias":                 {Kind: TransformExpr, Decode: "x * 100.0", Encode: "x / 100.0"},
		},
	}
}

// Builtins returns the definitions shipped with the codec.
func Builtins() []*Definition {
	return []*Definition{Ferrari488GT3(), Porsche911GT3R()}
}
