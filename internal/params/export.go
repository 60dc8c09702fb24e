package params

import (
	"encoding/json"

	"golang.org/x/text/unicode/norm"
)

// LegacyRecords renders the registry in the shape of the old JSON parameter
// database: one object per distinct base key, in canonical order.
//
// whp_name, whp_unit, flag_w, data_type and field_width are always present
// (whp_unit and flag_w may be null); other fields appear only when set.
// Numeric range and precision fields are dropped for string parameters.
func (r *Registry) LegacyRecords() []map[string]any {
	seen := make(map[Key]struct{}, len(r.views))
	out := make([]map[string]any, 0, len(r.views))

	for _, v := range r.views {
		if _, dup := seen[v.Key()]; dup {
			continue
		}
		seen[v.Key()] = struct{}{}
		out = append(out, legacyRecord(v.rec))
	}
	return out
}

// LegacyJSON is LegacyRecords encoded as indented JSON with sorted keys.
func (r *Registry) LegacyJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r.LegacyRecords(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func legacyRecord(rec *Record) map[string]any {
	m := map[string]any{
		"whp_name":    nfc(rec.Name),
		"whp_unit":    nil,
		"flag_w":      nil,
		"data_type":   string(rec.Dtype),
		"field_width": rec.FieldWidth,
		"scope":       string(rec.Scope),
	}
	if rec.Unit != "" {
		m["whp_unit"] = nfc(rec.Unit)
	}
	if rec.FlagW != "" && rec.FlagW != FlagNone {
		m["flag_w"] = rec.FlagW
	}

	optionalString := map[string]string{
		"cf_name":         rec.CFName,
		"description":     rec.Description,
		"note":            rec.Note,
		"warning":         rec.Warning,
		"error_name":      rec.ErrorName,
		"cf_unit":         rec.CFUnit,
		"reference_scale": rec.ReferenceScale,
	}
	for k, val := range optionalString {
		if val != "" {
			m[k] = nfc(val)
		}
	}

	if rec.WHPNumber != nil {
		m["whp_number"] = *rec.WHPNumber
	}

	if rec.Dtype != DtypeString {
		if rec.NumericMin != nil {
			m["numeric_min"] = *rec.NumericMin
		}
		if rec.NumericMax != nil {
			m["numeric_max"] = *rec.NumericMax
		}
		if rec.NumericPrecision != nil {
			m["numeric_precision"] = *rec.NumericPrecision
		}
	}

	return m
}

func nfc(s string) string {
	return norm.NFC.String(s)
}
