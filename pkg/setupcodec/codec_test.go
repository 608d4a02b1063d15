package setupcodec

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twinfer/setupsheet-plugin/pkg/dialect"
	"github.com/twinfer/setupsheet-plugin/pkg/setuptext"
	"github.com/twinfer/setupsheet-plugin/testutil"
)

func newTestCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	codec, err := New(opts...)
	require.NoError(t, err)
	return codec
}

func TestCodec_DecodeFerrariEndToEnd(t *testing.T) {
	codec := newTestCodec(t)
	sheet, err := codec.Decode(context.Background(), testutil.FerrariSampleText)
	require.NoError(t, err)

	assert.Equal(t, "ferrari_488_gt3", sheet.Vehicle)
	assert.Equal(t, "monza", sheet.Track)
	assert.Equal(t, "race_a", sheet.Name)

	assert.Equal(t, 172.0, sheet.TirePressures.FrontLeft)
	assert.Equal(t, 172.0, sheet.TirePressures.FrontRight)
	assert.Equal(t, 165.0, sheet.TirePressures.RearLeft)
	assert.Equal(t, 165.0, sheet.TirePressures.RearRight)

	// Vendor-positive camber arrives in the canonical negative convention.
	assert.Equal(t, -3.0, sheet.Suspension.Front.Camber)
	assert.Equal(t, -2.5, sheet.Suspension.Rear.Camber)

	assert.Equal(t, 54.5, sheet.Brakes.Bias)
	require.NotNil(t, sheet.Aero)
	assert.Equal(t, 6.0, sheet.Aero.RearWing)
	require.NotNil(t, sheet.Gears)
	assert.Equal(t, 4.44, sheet.Gears.FinalDrive)
	assert.Len(t, sheet.Gears.Ratios, 6)
}

func TestCodec_TextRoundTripLaw(t *testing.T) {
	codec := newTestCodec(t)
	ctx := context.Background()

	// Ferrari's only transform is the camber negate and the generic
	// mapping has none at all, so both round-trip bit-exactly.
	for name, text := range map[string]string{
		"ferrari": testutil.FerrariSampleText,
		"unknown": testutil.UnknownVehicleSampleText,
	} {
		t.Run(name, func(t *testing.T) {
			first, err := codec.Decode(ctx, text)
			require.NoError(t, err)

			encoded, err := codec.Encode(ctx, first)
			require.NoError(t, err)

			second, err := codec.Decode(ctx, encoded)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}

	// The Porsche rescale transforms are equal only within their natural
	// precision; everything else must match exactly.
	t.Run("porsche", func(t *testing.T) {
		first, err := codec.Decode(ctx, testutil.PorscheSampleText)
		require.NoError(t, err)

		encoded, err := codec.Encode(ctx, first)
		require.NoError(t, err)

		second, err := codec.Decode(ctx, encoded)
		require.NoError(t, err)

		assert.InDelta(t, first.Suspension.Front.SpringRate, second.Suspension.Front.SpringRate, 1e-9)
		assert.InDelta(t, first.Suspension.Rear.SpringRate, second.Suspension.Rear.SpringRate, 1e-9)
		assert.InDelta(t, first.Brakes.Bias, second.Brakes.Bias, 1e-9)

		second.Suspension.Front.SpringRate = first.Suspension.Front.SpringRate
		second.Suspension.Rear.SpringRate = first.Suspension.Rear.SpringRate
		second.Brakes.Bias = first.Brakes.Bias
		assert.Equal(t, first, second)
	})
}

func TestCodec_EncodeUsesVendorDialect(t *testing.T) {
	codec := newTestCodec(t)
	ctx := context.Background()

	sheet, err := codec.Decode(ctx, testutil.PorscheSampleText)
	require.NoError(t, err)
	assert.InDelta(t, 125, sheet.Suspension.Front.SpringRate, 1e-9)
	assert.InDelta(t, 54.5, sheet.Brakes.Bias, 1e-9)

	text, err := codec.Encode(ctx, sheet)
	require.NoError(t, err)

	tbl, err := setuptext.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "porsche_911_gt3_r", tbl.Header.Vehicle)

	// Values leave in the vendor's own units and key names.
	v, ok := tbl.Section("SUSP").Get("SPRING_F")
	require.True(t, ok)
	f, _ := v.Float64()
	assert.InDelta(t, 125000, f, 1e-6)

	v, ok = tbl.Section("BRAKES").Get("BIAS")
	require.True(t, ok)
	f, _ = v.Float64()
	assert.InDelta(t, 0.545, f, 1e-12)
}

func TestCodec_UnknownVehicleFallsBack(t *testing.T) {
	codec := newTestCodec(t)
	sheet, err := codec.Decode(context.Background(), testutil.UnknownVehicleSampleText)
	require.NoError(t, err)

	assert.Equal(t, "bmw_m4_gt3", sheet.Vehicle)
	assert.Equal(t, 160.0, sheet.TirePressures.FrontLeft)
	assert.Equal(t, 140.0, sheet.Suspension.Front.SpringRate)
	assert.Equal(t, -3.1, sheet.Suspension.Front.Camber)
	assert.Equal(t, 6.0, sheet.Dampers.Front.Bump)
	assert.Equal(t, 52.0, sheet.Brakes.Bias)

	// GEAR_3 is missing, so the sequence truncates after two ratios.
	require.NotNil(t, sheet.Gears)
	assert.Equal(t, []float64{3.18, 2.43}, sheet.Gears.Ratios)

	// The telemetry section is not a known cluster and passes through.
	require.Contains(t, sheet.Additional, "TELEMETRY_HINTS")
	assert.Equal(t, int64(50), sheet.Additional["TELEMETRY_HINTS"]["LOG_RATE"])
}

func TestCodec_MalformedInput(t *testing.T) {
	codec := newTestCodec(t)
	_, err := codec.Decode(context.Background(), "[TIRE\nPRESSURE_LF = 172\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, setuptext.ErrMalformedInput)
}

func TestCodec_StrictNumbers(t *testing.T) {
	text := "VEHICLE = ferrari_488_gt3\n[TIRE]\nPRESSURE_LF = soft\n"

	lenient := newTestCodec(t)
	sheet, err := lenient.Decode(context.Background(), text)
	require.NoError(t, err)
	assert.Zero(t, sheet.TirePressures.FrontLeft)

	strict := newTestCodec(t, WithStrictNumbers())
	_, err = strict.Decode(context.Background(), text)
	require.Error(t, err)
}

func TestCodec_DuplicateDialectAtConstruction(t *testing.T) {
	_, err := New(WithDialects(dialect.Ferrari488GT3()))
	require.Error(t, err)
	assert.ErrorIs(t, err, dialect.ErrDuplicateDialect)
}

func TestCodec_RegisterDialect(t *testing.T) {
	codec := newTestCodec(t, WithoutBuiltinDialects())
	assert.Empty(t, codec.Dialects())

	require.NoError(t, codec.RegisterDialect(dialect.Ferrari488GT3()))
	assert.Equal(t, []string{"ferrari_488_gt3"}, codec.Dialects())

	sheet, err := codec.Decode(context.Background(), testutil.FerrariSampleText)
	require.NoError(t, err)
	assert.Equal(t, -3.0, sheet.Suspension.Front.Camber)
}

func TestCodec_WithDialectPaths(t *testing.T) {
	const doc = `
vehicle: audi_r8_lms
sections:
  TIRE:
    tires.frontLeft: PSI_FL
transforms:
  tires.frontLeft:
    kind: scale
    factor: 6.895
`
	path := filepath.Join(t.TempDir(), "audi_r8_lms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	codec := newTestCodec(t, WithDialectPaths(path))
	assert.Contains(t, codec.Dialects(), "audi_r8_lms")

	sheet, err := codec.Decode(context.Background(), "VEHICLE = audi_r8_lms\n[TIRE]\nPSI_FL = 25.0\n")
	require.NoError(t, err)
	assert.InDelta(t, 172.375, sheet.TirePressures.FrontLeft, 1e-9)
}

func TestCodec_TimestampHeaderRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	ctx := context.Background()

	text := "VEHICLE = ferrari_488_gt3\nTIMESTAMP = 2026-04-12T09:30:00Z\n[TIRE]\nPRESSURE_LF = 172\n"
	sheet, err := codec.Decode(ctx, text)
	require.NoError(t, err)
	require.NotNil(t, sheet.Meta)
	assert.Equal(t, time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC), sheet.Meta.Modified)

	encoded, err := codec.Encode(ctx, sheet)
	require.NoError(t, err)
	tbl, err := setuptext.Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-12T09:30:00Z", tbl.Header.Timestamp)
}
