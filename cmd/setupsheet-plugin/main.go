package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redpanda-data/benthos/v4/public/service"
	"github.com/twinfer/setupsheet-plugin/pkg/setupcodec"
	"github.com/twinfer/setupsheet-plugin/pkg/setupsheet"
)

// SetupSheetProcessor is a Benthos processor that converts vehicle setup
// text into canonical setup-sheet JSON and back, using the dialect codec.
type SetupSheetProcessor struct {
	config   SetupSheetConfig
	codec    *setupcodec.Codec
	logger   *service.Logger
	mDecoded *service.MetricCounter
	mEncoded *service.MetricCounter
	mErrors  *service.MetricCounter
}

// SetupSheetConfig contains configuration parameters for the processor.
type SetupSheetConfig struct {
	IsDecoder     bool     `json:"is_decoder" yaml:"is_decoder"`
	DialectPaths  []string `json:"dialect_paths" yaml:"dialect_paths"`
	StrictNumbers bool     `json:"strict_numbers" yaml:"strict_numbers"`
}

func init() {
	// Register the processor with Benthos
	err := service.RegisterProcessor(
		"setup_sheet",
		setupSheetProcessorConfig(),
		func(conf *service.ParsedConfig, mgr *service.Resources) (service.Processor, error) {
			return newSetupSheetProcessorFromConfig(conf, mgr)
		},
	)
	if err != nil {
		panic(err)
	}
}

// setupSheetProcessorConfig returns a config spec for a setup_sheet processor.
func setupSheetProcessorConfig() *service.ConfigSpec {
	return service.NewConfigSpec().
		Summary("Converts vendor vehicle setup files to canonical setup-sheet JSON and back.").
		Description("This processor decodes section-delimited setup text into a normalized JSON record using the dialect registered for the file's vehicle id (or a generic fallback mapping), or serializes such a record back into the vendor's native text format.").
		Field(service.NewBoolField("is_decoder").
			Description("Whether this processor decodes setup text to JSON (true) or encodes JSON back to setup text (false).").
			Default(true)).
		Field(service.NewStringListField("dialect_paths").
			Description("Paths of additional dialect definition YAML files to register.").
			Default([]string{})).
		Field(service.NewBoolField("strict_numbers").
			Description("Fail on raw values that have no numeric reading instead of defaulting the field to zero.").
			Default(false)).
		Version("0.1.0")
}

// newSetupSheetProcessorFromConfig creates a new SetupSheetProcessor from a parsed config.
func newSetupSheetProcessorFromConfig(conf *service.ParsedConfig, mgr *service.Resources) (*SetupSheetProcessor, error) {
	isDecoder, err := conf.FieldBool("is_decoder")
	if err != nil {
		return nil, err
	}

	dialectPaths, err := conf.FieldStringList("dialect_paths")
	if err != nil {
		return nil, err
	}

	strictNumbers, err := conf.FieldBool("strict_numbers")
	if err != nil {
		return nil, err
	}

	opts := []setupcodec.Option{setupcodec.WithDialectPaths(dialectPaths...)}
	if strictNumbers {
		opts = append(opts, setupcodec.WithStrictNumbers())
	}
	codec, err := setupcodec.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("building setup codec: %w", err)
	}

	metrics := mgr.Metrics()

	return &SetupSheetProcessor{
		config: SetupSheetConfig{
			IsDecoder:     isDecoder,
			DialectPaths:  dialectPaths,
			StrictNumbers: strictNumbers,
		},
		codec:    codec,
		logger:   mgr.Logger(),
		mDecoded: metrics.NewCounter("setup_sheet_decoded_messages"),
		mEncoded: metrics.NewCounter("setup_sheet_encoded_messages"),
		mErrors:  metrics.NewCounter("setup_sheet_processing_errors"),
	}, nil
}

// Process applies setup decoding or encoding to a message.
func (p *SetupSheetProcessor) Process(ctx context.Context, msg *service.Message) (service.MessageBatch, error) {
	if p.config.IsDecoder {
		return p.decodeText(ctx, msg)
	}
	return p.encodeSheet(ctx, msg)
}

// decodeText decodes setup text into canonical setup-sheet JSON.
func (p *SetupSheetProcessor) decodeText(ctx context.Context, msg *service.Message) (service.MessageBatch, error) {
	p.logger.Debug("Decoding setup text to canonical sheet")

	raw, err := msg.AsBytes()
	if err != nil {
		p.logger.Errorf("Failed to get setup text from message: %v", err)
		p.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to get setup text from message: %w", err))
		return service.MessageBatch{msg}, nil
	}

	if len(raw) == 0 {
		p.logger.Warn("Empty setup text provided")
		p.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("empty setup text provided"))
		return service.MessageBatch{msg}, nil
	}

	sheet, err := p.codec.Decode(ctx, string(raw))
	if err != nil {
		p.logger.Errorf("Failed to decode setup text of %d bytes: %v", len(raw), err)
		p.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to decode setup text: %w", err))
		return service.MessageBatch{msg}, nil
	}

	structured, err := sheetToStructured(sheet)
	if err != nil {
		p.mErrors.Incr(1)
		msg.SetError(err)
		return service.MessageBatch{msg}, nil
	}

	p.logger.Debugf("Successfully decoded setup for vehicle %q", sheet.Vehicle)
	p.mDecoded.Incr(1)

	newMsg := service.NewMessage(nil)
	newMsg.SetStructured(structured)

	// Copy metadata from original message
	msg.MetaWalk(func(key, value string) error {
		newMsg.MetaSet(key, value)
		return nil
	})

	return service.MessageBatch{newMsg}, nil
}

// encodeSheet serializes canonical setup-sheet JSON back into setup text.
func (p *SetupSheetProcessor) encodeSheet(ctx context.Context, msg *service.Message) (service.MessageBatch, error) {
	p.logger.Debug("Encoding canonical sheet to setup text")

	structured, err := msg.AsStructured()
	if err != nil {
		p.logger.Errorf("Failed to get structured data from message: %v", err)
		p.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to get structured data from message: %w", err))
		return service.MessageBatch{msg}, nil
	}

	sheet, err := structuredToSheet(structured)
	if err != nil {
		p.logger.Errorf("Failed to read canonical sheet from message: %v", err)
		p.mErrors.Incr(1)
		msg.SetError(err)
		return service.MessageBatch{msg}, nil
	}

	text, err := p.codec.Encode(ctx, sheet)
	if err != nil {
		p.logger.Errorf("Failed to encode setup sheet: %v", err)
		p.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to encode setup sheet: %w", err))
		return service.MessageBatch{msg}, nil
	}

	p.logger.Debugf("Successfully encoded setup for vehicle %q to %d bytes", sheet.Vehicle, len(text))
	p.mEncoded.Incr(1)

	newMsg := service.NewMessage([]byte(text))

	// Copy metadata from original message
	msg.MetaWalk(func(key, value string) error {
		newMsg.MetaSet(key, value)
		return nil
	})

	return service.MessageBatch{newMsg}, nil
}

// Close releases processor resources.
func (p *SetupSheetProcessor) Close(ctx context.Context) error {
	return nil
}

// sheetToStructured converts a sheet into the generic structure Benthos
// messages carry.
func sheetToStructured(sheet *setupsheet.Sheet) (map[string]any, error) {
	data, err := json.Marshal(sheet)
	if err != nil {
		return nil, fmt.Errorf("marshaling setup sheet: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling setup sheet: %w", err)
	}
	return out, nil
}

// structuredToSheet converts a generic Benthos structure into a sheet.
func structuredToSheet(structured any) (*setupsheet.Sheet, error) {
	data, err := json.Marshal(structured)
	if err != nil {
		return nil, fmt.Errorf("marshaling structured data: %w", err)
	}
	var sheet setupsheet.Sheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("unmarshaling into setup sheet: %w", err)
	}
	return &sheet, nil
}

func main() {
	service.RunCLI(context.Background())
}
