package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalDefinition(vehicle string) *Definition {
	return &Definition{
		Vehicle: vehicle,
		Sections: map[string]map[string]string{
			"TIRE": {"tires.frontLeft": "PRESSURE_LF"},
		},
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(minimalDefinition("lotus_evora_gt4")))

	d, ok := reg.Lookup("lotus_evora_gt4")
	require.True(t, ok)
	assert.Equal(t, "lotus_evora_gt4", d.Vehicle())
	assert.True(t, d.ConsumesSection("TIRE"))
	assert.False(t, d.ConsumesSection("AERO"))

	_, ok = reg.Lookup("unknown_vehicle")
	assert.False(t, ok)
}

func TestRegistry_DuplicateVehicle(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(minimalDefinition("lotus_evora_gt4")))

	err := reg.Register(minimalDefinition("lotus_evora_gt4"))
	assert.ErrorIs(t, err, ErrDuplicateDialect)
}

func TestRegistry_RejectsUnknownFieldPath(t *testing.T) {
	reg := NewRegistry()
	def := &Definition{
		Vehicle: "lotus_evora_gt4",
		Sections: map[string]map[string]string{
			"TIRE": {"tires.centerLeft": "PRESSURE_CL"},
		},
	}
	err := reg.Register(def)
	assert.ErrorIs(t, err, ErrInvalidDialect)
}

func TestRegistry_RejectsTransformWithoutMapping(t *testing.T) {
	reg := NewRegistry()
	def := minimalDefinition("lotus_evora_gt4")
	def.Transforms = map[string]TransformSpec{
		"suspension.front.camber": {Kind: TransformNegate},
	}
	err := reg.Register(def)
	assert.ErrorIs(t, err, ErrInvalidDialect)
}

func TestRegistry_RejectsBadTransforms(t *testing.T) {
	cases := map[string]TransformSpec{
		"zero scale factor":   {Kind: TransformScale},
		"unknown kind":        {Kind: "logarithm"},
		"expr missing encode": {Kind: TransformExpr, Decode: "x * 2.0"},
		"expr bad syntax":     {Kind: TransformExpr, Decode: "x *", Encode: "x / 2.0"},
		"expr unknown var":    {Kind: TransformExpr, Decode: "raw * 2.0", Encode: "x / 2.0"},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry()
			def := minimalDefinition("lotus_evora_gt4")
			def.Transforms = map[string]TransformSpec{"tires.frontLeft": spec}
			assert.ErrorIs(t, reg.Register(def), ErrInvalidDialect)
		})
	}
}

func TestRegistry_TransformErrorStaysInChain(t *testing.T) {
	// The compile failure is wrapped alongside ErrInvalidDialect, so callers
	// can still unwrap the underlying cause.
	reg := NewRegistry()
	def := minimalDefinition("lotus_evora_gt4")
	def.Transforms = map[string]TransformSpec{
		"tires.frontLeft": {Kind: TransformExpr, Decode: "x *", Encode: "x / 2.0"},
	}

	err := reg.Register(def)
	require.ErrorIs(t, err, ErrInvalidDialect)

	multi, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "expected both sentinel and cause to be wrapped")
	require.Len(t, multi.Unwrap(), 2)
	assert.NotErrorIs(t, multi.Unwrap()[1], ErrInvalidDialect)
}

func TestRegistry_RejectsMissingVehicleID(t *testing.T) {
	reg := NewRegistry()
	assert.ErrorIs(t, reg.Register(minimalDefinition("")), ErrInvalidDialect)
}

func TestRegistry_BuiltinsRegisterCleanly(t *testing.T) {
	reg := NewRegistry()
	for _, def := range Builtins() {
		require.NoError(t, reg.Register(def))
	}
	assert.Equal(t, []string{"ferrari_488_gt3", "porsche_911_gt3_r"}, reg.Vehicles())
}

func TestDefinition_FromYAML(t *testing.T) {
	const doc = `
vehicle: audi_r8_lms
display_name: Audi R8 LMS
sections:
  TIRE:
    tires.frontLeft: PSI_FL
    tires.frontRight: PSI_FR
transforms:
  tires.frontLeft:
    kind: scale
    factor: 6.895
`
	def, err := FromYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "audi_r8_lms", def.Vehicle)
	assert.Equal(t, "PSI_FL", def.Sections["TIRE"]["tires.frontLeft"])
	assert.Equal(t, TransformScale, def.Transforms["tires.frontLeft"].Kind)

	reg := NewRegistry()
	require.NoError(t, reg.Register(def))
}
