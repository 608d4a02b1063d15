package main

import (
	"context"
	"testing"

	"github.com/redpanda-data/benthos/v4/public/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ferrariSetupText = `VERSION = 1
VEHICLE = ferrari_488_gt3
TRACK = monza
SETUP_NAME = race_a

[TIRE]
PRESSURE_LF = 172
PRESSURE_RF = 172
PRESSURE_LR = 165
PRESSURE_RR = 165

[SUSPENSION]
CAMBER_LF = 3.0
`

func newProcessor(t *testing.T, confYAML string) *SetupSheetProcessor {
	t.Helper()
	conf := setupSheetProcessorConfig()
	pConf, err := conf.ParseYAML(confYAML, nil)
	require.NoError(t, err)

	processor, err := newSetupSheetProcessorFromConfig(pConf, service.MockResources())
	require.NoError(t, err)
	return processor
}

func TestSetupSheetProcessor_Decode(t *testing.T) {
	processor := newProcessor(t, "is_decoder: true")

	batch, err := processor.Process(context.Background(), service.NewMessage([]byte(ferrariSetupText)))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Nil(t, batch[0].GetError())

	structured, err := batch[0].AsStructured()
	require.NoError(t, err)
	sheet, ok := structured.(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "ferrari_488_gt3", sheet["vehicle"])
	tires, ok := sheet["tirePressures"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 172.0, tires["frontLeft"])

	suspension := sheet["suspension"].(map[string]any)
	front := suspension["front"].(map[string]any)
	assert.Equal(t, -3.0, front["camber"], "camber sign flip applied")
}

func TestSetupSheetProcessor_DecodeErrorsStayOnMessage(t *testing.T) {
	processor := newProcessor(t, "is_decoder: true")

	batch, err := processor.Process(context.Background(), service.NewMessage([]byte("[TIRE\nbroken")))
	require.NoError(t, err, "processing errors are attached to the message")
	require.Len(t, batch, 1)
	assert.NotNil(t, batch[0].GetError())

	batch, err = processor.Process(context.Background(), service.NewMessage(nil))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.NotNil(t, batch[0].GetError(), "empty input is rejected")
}

func TestSetupSheetProcessor_EncodeRoundTrip(t *testing.T) {
	decoder := newProcessor(t, "is_decoder: true")
	encoder := newProcessor(t, "is_decoder: false")
	ctx := context.Background()

	decoded, err := decoder.Process(ctx, service.NewMessage([]byte(ferrariSetupText)))
	require.NoError(t, err)
	require.Nil(t, decoded[0].GetError())

	encoded, err := encoder.Process(ctx, decoded[0])
	require.NoError(t, err)
	require.Len(t, encoded, 1)
	require.Nil(t, encoded[0].GetError())

	text, err := encoded[0].AsBytes()
	require.NoError(t, err)
	assert.Contains(t, string(text), "VEHICLE = ferrari_488_gt3")
	assert.Contains(t, string(text), "[TIRE]")
	assert.Contains(t, string(text), "PRESSURE_LF = 172")
	assert.Contains(t, string(text), "CAMBER_LF = 3")
}

func TestSetupSheetProcessor_MetadataPreserved(t *testing.T) {
	processor := newProcessor(t, "is_decoder: true")

	inputMsg := service.NewMessage([]byte(ferrariSetupText))
	inputMsg.MetaSet("source_file", "race_a.svm")

	batch, err := processor.Process(context.Background(), inputMsg)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	value, ok := batch[0].MetaGet("source_file")
	require.True(t, ok)
	assert.Equal(t, "race_a.svm", value)
}

func TestSetupSheetProcessor_StrictNumbers(t *testing.T) {
	processor := newProcessor(t, "is_decoder: true\nstrict_numbers: true")

	text := "VEHICLE = ferrari_488_gt3\n[TIRE]\nPRESSURE_LF = soft\n"
	batch, err := processor.Process(context.Background(), service.NewMessage([]byte(text)))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.NotNil(t, batch[0].GetError())
}
