package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cchdo/params/internal/params"
)

func intp(i int) *int { return &i }

func floatp(f float64) *float64 { return &f }

func validTables() *params.Tables {
	return &params.Tables{
		Params: []params.Record{
			{Name: "EXPOCODE", Rank: 1, Dtype: params.DtypeString, FieldWidth: 14, Scope: params.ScopeProfile},
			{Name: "CTDPRS", Unit: "DBAR", Rank: 11, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(1), Scope: params.ScopeSample, CFName: "sea_water_pressure"},
			{Name: "CTDOXY", Unit: "UMOL/KG", Rank: 14, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(1), Scope: params.ScopeSample, ErrorName: "CTDOXY_ERROR", CFName: "oxygen"},
		},
		Aliases: []params.AliasEntry{
			{Alias: params.Key{Name: "CTDPRS", Unit: "DBARS"}, Canonical: params.Key{Name: "CTDPRS", Unit: "DBAR"}},
		},
		CFNames: []params.CFRecord{
			{Name: "sea_water_pressure", CanonicalUnits: "dbar"},
			{Name: "moles_of_oxygen_per_unit_mass_in_sea_water", CanonicalUnits: "mol kg-1"},
		},
		CFAliases: map[string]string{"oxygen": "moles_of_oxygen_per_unit_mass_in_sea_water"},
	}
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateValid(t *testing.T) {
	assert.Empty(t, Validate(validTables()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*params.Tables)
		want   []string
	}{
		{
			name:   "duplicate key",
			mutate: func(tb *params.Tables) { tb.Params = append(tb.Params, tb.Params[0]) },
			want:   []string{ErrDuplicateKey},
		},
		{
			name:   "bad dtype and scope",
			mutate: func(tb *params.Tables) { tb.Params[0].Dtype = "float"; tb.Params[0].Scope = "ship" },
			want:   []string{ErrInvalidDtype, ErrInvalidScope},
		},
		{
			name:   "zero width",
			mutate: func(tb *params.Tables) { tb.Params[0].FieldWidth = 0 },
			want:   []string{ErrInvalidFieldWidth},
		},
		{
			name:   "missing precision",
			mutate: func(tb *params.Tables) { tb.Params[1].NumericPrecision = nil },
			want:   []string{ErrMissingPrecision},
		},
		{
			name: "inverted range",
			mutate: func(tb *params.Tables) {
				tb.Params[1].NumericMin = floatp(10)
				tb.Params[1].NumericMax = floatp(0)
			},
			want: []string{ErrInvalidRange},
		},
		{
			name:   "unknown cf name",
			mutate: func(tb *params.Tables) { tb.Params[1].CFName = "sea_water_speed" },
			want:   []string{ErrUnknownCFName},
		},
		{
			name: "error name collision",
			mutate: func(tb *params.Tables) {
				tb.Params = append(tb.Params, params.Record{Name: "CTDOXY_ERROR", Unit: "UMOL/KG", Rank: 15, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(1), Scope: params.ScopeSample})
			},
			want: []string{ErrErrorNameCollision},
		},
		{
			name: "error name claimed twice",
			mutate: func(tb *params.Tables) {
				tb.Params = append(tb.Params, params.Record{Name: "OXYGEN", Unit: "UMOL/KG", Rank: 30, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(1), Scope: params.ScopeSample, ErrorName: "CTDOXY_ERROR"})
			},
			want: []string{ErrDuplicateErrorName},
		},
		{
			name: "alias shadows base",
			mutate: func(tb *params.Tables) {
				tb.Aliases = append(tb.Aliases, params.AliasEntry{Alias: params.Key{Name: "EXPOCODE"}, Canonical: params.Key{Name: "CTDPRS", Unit: "DBAR"}})
			},
			want: []string{ErrAliasShadowsBase},
		},
		{
			name: "alias unknown target",
			mutate: func(tb *params.Tables) {
				tb.Aliases = append(tb.Aliases, params.AliasEntry{Alias: params.Key{Name: "PRES"}, Canonical: params.Key{Name: "PRESSURE"}})
			},
			want: []string{ErrAliasUnknownTarget},
		},
		{
			name: "alias conflict",
			mutate: func(tb *params.Tables) {
				tb.Aliases = append(tb.Aliases, params.AliasEntry{Alias: params.Key{Name: "CTDPRS", Unit: "DBARS"}, Canonical: params.Key{Name: "EXPOCODE"}})
			},
			want: []string{ErrAliasConflict},
		},
		{
			name:   "cf alias dangling",
			mutate: func(tb *params.Tables) { tb.CFAliases["temp"] = "sea_water_temperature" },
			want:   []string{ErrCFAliasUnknown},
		},
		{
			name:   "cf alias shadows name",
			mutate: func(tb *params.Tables) { tb.CFAliases["sea_water_pressure"] = "moles_of_oxygen_per_unit_mass_in_sea_water" },
			want:   []string{ErrCFAliasShadowsName},
		},
		{
			name:   "duplicate cf name",
			mutate: func(tb *params.Tables) { tb.CFNames = append(tb.CFNames, tb.CFNames[0]) },
			want:   []string{ErrDuplicateCFName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := validTables()
			tt.mutate(tb)
			assert.Equal(t, tt.want, codes(Validate(tb)))
		})
	}
}

func TestValidateCollectsAll(t *testing.T) {
	tb := validTables()
	tb.Params[0].FieldWidth = -1
	tb.Params[1].NumericPrecision = nil
	tb.CFAliases["temp"] = "nowhere"

	errs := Validate(tb)
	assert.Equal(t, []string{ErrInvalidFieldWidth, ErrMissingPrecision, ErrCFAliasUnknown}, codes(errs))
	assert.Equal(t, "[E104] params.EXPOCODE.field_width: field_width must be positive", errs[0].Error())
}

func TestValidateWithoutCFTable(t *testing.T) {
	tb := validTables()
	tb.CFNames = nil
	tb.CFAliases = nil

	assert.Empty(t, Validate(tb), "cf_name is unchecked without a CF table")
}
