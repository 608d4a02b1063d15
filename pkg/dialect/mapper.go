package dialect

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/twinfer/setupsheet-plugin/pkg/setupsheet"
	"github.com/twinfer/setupsheet-plugin/pkg/setuptext"
)

// Mapper projects raw tables onto canonical sheets and back for one
// registered dialect. Missing raw keys are skipped on decode, leaving the
// canonical field at its zero default; absent optional blocks are skipped on
// encode. Entries are applied in the dialect's compiled order and no
// field's transform depends on another field's value, so processing order
// never affects results.
type Mapper struct {
	dialect *Dialect
	logger  *slog.Logger
	strict  bool
}

// NewMapper creates a mapper for a compiled dialect. A nil logger falls
// back to slog.Default(). With strict enabled, a raw value that has no
// numeric reading fails the decode instead of defaulting the field to zero.
func NewMapper(d *Dialect, logger *slog.Logger, strict bool) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{dialect: d, logger: logger, strict: strict}
}

// Decode projects a raw table onto a fresh canonical sheet. Raw sections
// the dialect does not consume are preserved verbatim in the sheet's
// additional-settings bucket.
func (m *Mapper) Decode(ctx context.Context, tbl *setuptext.Table) (*setupsheet.Sheet, error) {
	m.logger.DebugContext(ctx, "Decoding with dialect", "vehicle", m.dialect.vehicle)
	sheet := setupsheet.New()

	for _, entry := range m.dialect.entries {
		section := tbl.Section(entry.Section)
		if section == nil {
			continue
		}
		raw, ok := section.Get(entry.RawKey)
		if !ok {
			continue
		}

		value, numeric := raw.Float64()
		if !numeric {
			if m.strict {
				return nil, fmt.Errorf("non-numeric value %q for %s/%s", raw.String(), entry.Section, entry.RawKey)
			}
			m.logger.DebugContext(ctx, "Defaulting non-numeric raw value to zero",
				"section", entry.Section, "key", entry.RawKey, "raw", raw.String())
			value = 0
		}
		if t, ok := m.dialect.transforms[entry.Path]; ok {
			transformed, err := t.Decode(value)
			if err != nil {
				return nil, fmt.Errorf("decode transform for %s: %w", entry.Path, err)
			}
			value = transformed
		}

		if err := setupsheet.Set(sheet, entry.Path, value); err != nil {
			return nil, err
		}
	}

	copyUnknownSections(tbl, sheet, m.dialect.ConsumesSection)
	return sheet, nil
}

// Encode projects a canonical sheet into a raw table, mirroring Decode:
// every mapping entry whose canonical field is present is written through
// the encode transform into its section and raw key. Additional-settings
// sections are re-emitted unchanged.
func (m *Mapper) Encode(ctx context.Context, sheet *setupsheet.Sheet) (*setuptext.Table, error) {
	m.logger.DebugContext(ctx, "Encoding with dialect", "vehicle", m.dialect.vehicle)
	tbl := setuptext.NewTable()

	for _, entry := range m.dialect.entries {
		value, present, err := setupsheet.Get(sheet, entry.Path)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		if t, ok := m.dialect.transforms[entry.Path]; ok {
			value, err = t.Encode(value)
			if err != nil {
				return nil, fmt.Errorf("encode transform for %s: %w", entry.Path, err)
			}
		}
		tbl.EnsureSection(entry.Section).Set(entry.RawKey, setuptext.NumberValue(value))
	}

	emitAdditionalSections(tbl, sheet)
	return tbl, nil
}

// copyUnknownSections moves every raw section not consumed by the mapping
// into the sheet's additional-settings bucket.
func copyUnknownSections(tbl *setuptext.Table, sheet *setupsheet.Sheet, consumed func(string) bool) {
	for _, section := range tbl.Sections() {
		if consumed(section.Name) {
			continue
		}
		values := make(map[string]any, section.Len())
		for _, key := range section.Keys() {
			v, _ := section.Get(key)
			values[key] = v.Interface()
		}
		sheet.AddSection(section.Name, values)
	}
}

// emitAdditionalSections appends the sheet's additional-settings buckets to
// the table as raw sections, in sorted order for stable output.
func emitAdditionalSections(tbl *setuptext.Table, sheet *setupsheet.Sheet) {
	names := make([]string, 0, len(sheet.Additional))
	for name := range sheet.Additional {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		section := tbl.EnsureSection(name)
		keys := make([]string, 0, len(sheet.Additional[name]))
		for key := range sheet.Additional[name] {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			section.Set(key, anyToValue(sheet.Additional[name][key]))
		}
	}
}

// anyToValue converts a passthrough scalar back into a raw value. JSON
// decoding may have widened integers to float64, so whole floats are
// narrowed back.
func anyToValue(v any) setuptext.Value {
	switch x := v.(type) {
	case bool:
		return setuptext.BoolValue(x)
	case int64:
		return setuptext.IntValue(x)
	case int:
		return setuptext.IntValue(int64(x))
	case float64:
		return setuptext.NumberValue(x)
	case string:
		return setuptext.StringValue(x)
	default:
		return setuptext.StringValue(fmt.Sprintf("%v", x))
	}
}
