package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/cchdo/params/internal/params"
)

// CompileTables converts a unified CUE tables value into params.Tables.
//
// The value is expected to carry the top level fields params, aliases,
// cf_names, cf_aliases and cf_version, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`params: [{whp_name: "EXPOCODE", ...}]`)
//	tables, err := CompileTables(v)
//
// Every field except params is optional.
func CompileTables(v cue.Value) (*params.Tables, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	t := &params.Tables{CFAliases: make(map[string]string)}

	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if !paramsVal.Exists() {
		return nil, &CompileError{
			Field:   "params",
			Message: "params list is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := paramsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		rec, err := CompileParam(iter.Value())
		if err != nil {
			return nil, err
		}
		t.Params = append(t.Params, rec)
	}

	t.Aliases, err = compileAliases(v)
	if err != nil {
		return nil, err
	}

	t.CFNames, err = compileCFNames(v)
	if err != nil {
		return nil, err
	}

	if aliasVal := v.LookupPath(cue.ParsePath("cf_aliases")); aliasVal.Exists() {
		fields, err := aliasVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for fields.Next() {
			canonical, err := fields.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			t.CFAliases[fields.Label()] = canonical
		}
	}

	if versionVal := v.LookupPath(cue.ParsePath("cf_version")); versionVal.Exists() {
		t.CFVersion, err = versionVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}

	return t, nil
}

// CompileParam parses a single parameter struct into a Record.
func CompileParam(v cue.Value) (params.Record, error) {
	var rec params.Record

	name, err := requiredString(v, "whp_name")
	if err != nil {
		return rec, err
	}
	rec.Name = name

	dtype, err := requiredString(v, "dtype")
	if err != nil {
		return rec, err
	}
	rec.Dtype = params.Dtype(dtype)

	scope, err := requiredString(v, "scope")
	if err != nil {
		return rec, err
	}
	rec.Scope = params.Scope(scope)

	rankVal := lookup(v, "rank")
	if !rankVal.Exists() {
		return rec, &CompileError{
			Field:   fmt.Sprintf("params.%s.rank", name),
			Message: "rank is required",
			Pos:     v.Pos(),
		}
	}
	if rec.Rank, err = rankVal.Float64(); err != nil {
		return rec, formatCUEError(err)
	}

	widthVal := lookup(v, "field_width")
	if !widthVal.Exists() {
		return rec, &CompileError{
			Field:   fmt.Sprintf("params.%s.field_width", name),
			Message: "field_width is required",
			Pos:     v.Pos(),
		}
	}
	width, err := widthVal.Int64()
	if err != nil {
		return rec, formatCUEError(err)
	}
	rec.FieldWidth = int(width)

	texts := []struct {
		field string
		dst   *string
	}{
		{"whp_unit", &rec.Unit},
		{"nc_name", &rec.NCName},
		{"nc_group", &rec.NCGroup},
		{"flag_w", &rec.FlagW},
		{"cf_name", &rec.CFName},
		{"cf_unit", &rec.CFUnit},
		{"error_name", &rec.ErrorName},
		{"reference_scale", &rec.ReferenceScale},
		{"description", &rec.Description},
		{"note", &rec.Note},
		{"warning", &rec.Warning},
		{"analytical_temperature_name", &rec.AnalyticalTemperatureName},
		{"analytical_temperature_units", &rec.AnalyticalTemperatureUnits},
	}
	for _, s := range texts {
		if *s.dst, err = optionalString(v, s.field); err != nil {
			return rec, err
		}
	}

	floats := []struct {
		field string
		dst   **float64
	}{
		{"numeric_min", &rec.NumericMin},
		{"numeric_max", &rec.NumericMax},
		{"radiation_wavelength", &rec.RadiationWavelength},
		{"scattering_angle", &rec.ScatteringAngle},
		{"excitation_wavelength", &rec.ExcitationWavelength},
		{"emission_wavelength", &rec.EmissionWavelength},
	}
	for _, f := range floats {
		if *f.dst, err = optionalFloat(v, f.field); err != nil {
			return rec, err
		}
	}

	if rec.NumericPrecision, err = optionalInt(v, "numeric_precision"); err != nil {
		return rec, err
	}
	if rec.WHPNumber, err = optionalInt(v, "whp_number"); err != nil {
		return rec, err
	}

	if erddap := lookup(v, "in_erddap"); erddap.Exists() {
		if rec.InERDDAP, err = erddap.Bool(); err != nil {
			return rec, formatCUEError(err)
		}
	}

	return rec, nil
}

// compileAliases parses the aliases list. Both sides are written in ODV
// form, e.g. {alias: "CTDPRS [DBARS]", canonical: "CTDPRS [DBAR]"}.
func compileAliases(v cue.Value) ([]params.AliasEntry, error) {
	var aliases []params.AliasEntry

	aliasVal := v.LookupPath(cue.ParsePath("aliases"))
	if !aliasVal.Exists() {
		return aliases, nil
	}

	iter, err := aliasVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		entry := iter.Value()
		alias, err := odvKey(entry, "alias")
		if err != nil {
			return nil, err
		}
		canonical, err := odvKey(entry, "canonical")
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, params.AliasEntry{Alias: alias, Canonical: canonical})
	}

	return aliases, nil
}

// compileCFNames parses the cf_names struct, keyed by standard name.
func compileCFNames(v cue.Value) ([]params.CFRecord, error) {
	var records []params.CFRecord

	namesVal := v.LookupPath(cue.ParsePath("cf_names"))
	if !namesVal.Exists() {
		return records, nil
	}

	iter, err := namesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		entry := iter.Value()
		rec := params.CFRecord{Name: iter.Label()}

		fields := []struct {
			field string
			dst   *string
		}{
			{"canonical_units", &rec.CanonicalUnits},
			{"grib", &rec.GRIB},
			{"amip", &rec.AMIP},
			{"description", &rec.Description},
		}
		for _, f := range fields {
			if *f.dst, err = optionalString(entry, f.field); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

func odvKey(v cue.Value, field string) (params.Key, error) {
	raw, err := requiredString(v, field)
	if err != nil {
		return params.Key{}, err
	}
	parts, err := params.ParseKey(raw)
	if err != nil {
		return params.Key{}, &CompileError{
			Field:   "aliases." + field,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	if parts.HasModifiers() {
		return params.Key{}, &CompileError{
			Field:   "aliases." + field,
			Message: fmt.Sprintf("%q must not carry flag or alternate modifiers", raw),
			Pos:     v.Pos(),
		}
	}
	return parts.Key(), nil
}

// lookup finds a regular field, treating non-concrete optional fields as
// absent.
func lookup(v cue.Value, field string) cue.Value {
	fv, _ := v.LookupPath(cue.ParsePath(field)).Default()
	if !fv.Exists() || !fv.IsConcrete() {
		return cue.Value{}
	}
	return fv
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := lookup(v, field)
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := lookup(v, field)
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalFloat(v cue.Value, field string) (*float64, error) {
	fv := lookup(v, field)
	if !fv.Exists() {
		return nil, nil
	}
	f, err := fv.Float64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return &f, nil
}

func optionalInt(v cue.Value, field string) (*int, error) {
	fv := lookup(v, field)
	if !fv.Exists() {
		return nil, nil
	}
	i, err := fv.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	n := int(i)
	return &n, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
