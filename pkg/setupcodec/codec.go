// Package setupcodec provides the high-level API for converting vehicle
// setup text to and from canonical setup sheets.
//
// Basic usage:
//
//	codec, err := setupcodec.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sheet, err := codec.Decode(ctx, setupText)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sheet.TirePressures.FrontLeft = 173
//	text, err := codec.Encode(ctx, sheet)
//
// The codec owns its dialect registry: dialects are registered at
// construction (the two built-in vendors by default, more via options or
// RegisterDialect) and the registry is read-only once decoding starts, so a
// single Codec is safe for concurrent use.
package setupcodec

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twinfer/setupsheet-plugin/pkg/dialect"
	"github.com/twinfer/setupsheet-plugin/pkg/setupsheet"
	"github.com/twinfer/setupsheet-plugin/pkg/setuptext"
)

// Codec converts setup text to canonical sheets and back, picking the
// registered dialect named by the input's vehicle id and falling back to
// the generic mapping for unknown vehicles.
type Codec struct {
	registry *dialect.Registry
	logger   *slog.Logger
	strict   bool
}

// options holds configuration for the codec.
type options struct {
	logger       *slog.Logger
	strict       bool
	skipBuiltins bool
	definitions  []*dialect.Definition
	dialectPaths []string
}

// Option is a function that configures codec options.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrictNumbers makes decode fail on raw values that have no numeric
// reading instead of silently defaulting the field to zero.
func WithStrictNumbers() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithoutBuiltinDialects skips registration of the built-in vendor
// dialects.
func WithoutBuiltinDialects() Option {
	return func(o *options) {
		o.skipBuiltins = true
	}
}

// WithDialects registers additional dialect definitions at construction.
func WithDialects(defs ...*dialect.Definition) Option {
	return func(o *options) {
		o.definitions = append(o.definitions, defs...)
	}
}

// WithDialectPaths loads and registers dialect definition YAML files at
// construction.
func WithDialectPaths(paths ...string) Option {
	return func(o *options) {
		o.dialectPaths = append(o.dialectPaths, paths...)
	}
}

// New builds a codec. Registration errors (duplicate vehicle ids, invalid
// definitions, unreadable dialect files) surface here rather than at decode
// time.
func New(opts ...Option) (*Codec, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	registry := dialect.NewRegistry()
	if !o.skipBuiltins {
		for _, def := range dialect.Builtins() {
			if err := registry.Register(def); err != nil {
				return nil, fmt.Errorf("registering builtin dialect: %w", err)
			}
		}
	}
	for _, def := range o.definitions {
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}
	for _, path := range o.dialectPaths {
		def, err := dialect.FromYAMLFile(path)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(def); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return &Codec{registry: registry, logger: o.logger, strict: o.strict}, nil
}

// RegisterDialect adds a dialect to the codec's registry. It is meant for
// initialization time, before the codec is shared across goroutines.
func (c *Codec) RegisterDialect(def *dialect.Definition) error {
	return c.registry.Register(def)
}

// Dialects returns the registered vehicle ids, sorted.
func (c *Codec) Dialects() []string {
	return c.registry.Vehicles()
}

// Decode parses setup text and projects it onto a canonical sheet using the
// dialect registered for the text's vehicle id, or the generic fallback
// mapping when none is. It fails with an error wrapping
// setuptext.ErrMalformedInput when the text cannot be tokenized.
func (c *Codec) Decode(ctx context.Context, text string) (*setupsheet.Sheet, error) {
	tbl, err := setuptext.Parse(text)
	if err != nil {
		return nil, err
	}

	var sheet *setupsheet.Sheet
	if d, ok := c.registry.Lookup(tbl.Header.Vehicle); ok {
		sheet, err = dialect.NewMapper(d, c.logger, c.strict).Decode(ctx, tbl)
	} else {
		c.logger.DebugContext(ctx, "No dialect registered, using generic fallback", "vehicle", tbl.Header.Vehicle)
		sheet, err = dialect.NewGenericMapper(c.logger, c.strict).Decode(ctx, tbl)
	}
	if err != nil {
		return nil, err
	}

	sheet.Vehicle = tbl.Header.Vehicle
	sheet.Track = tbl.Header.Track
	sheet.Name = tbl.Header.SetupName
	applyHeaderMeta(sheet, tbl.Header)
	return sheet, nil
}

// Encode serializes a canonical sheet back into setup text, using the same
// dialect selection as Decode.
func (c *Codec) Encode(ctx context.Context, sheet *setupsheet.Sheet) (string, error) {
	var (
		tbl *setuptext.Table
		err error
	)
	if d, ok := c.registry.Lookup(sheet.Vehicle); ok {
		tbl, err = dialect.NewMapper(d, c.logger, c.strict).Encode(ctx, sheet)
	} else {
		tbl, err = dialect.NewGenericMapper(c.logger, c.strict).Encode(ctx, sheet)
	}
	if err != nil {
		return "", err
	}

	tbl.Header = setuptext.Header{
		Version:   setuptext.FormatVersion,
		Vehicle:   sheet.Vehicle,
		Track:     sheet.Track,
		SetupName: sheet.Name,
	}
	if sheet.Meta != nil && !sheet.Meta.Modified.IsZero() {
		tbl.Header.Timestamp = sheet.Meta.Modified.UTC().Format(time.RFC3339)
	}
	return setuptext.Serialize(tbl), nil
}

// applyHeaderMeta lifts a parseable header timestamp into the sheet
// metadata.
func applyHeaderMeta(sheet *setupsheet.Sheet, h setuptext.Header) {
	if h.Timestamp == "" {
		return
	}
	ts, err := time.Parse(time.RFC3339, h.Timestamp)
	if err != nil {
		return
	}
	if sheet.Meta == nil {
		sheet.Meta = &setupsheet.Metadata{}
	}
	sheet.Meta.Modified = ts
}
