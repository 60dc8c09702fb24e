package tables

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cchdo/params/internal/compiler"
	"github.com/cchdo/params/internal/params"
)

func load(t *testing.T) *params.Tables {
	t.Helper()
	tables, err := Load()
	require.NoError(t, err)
	return tables
}

func registry(t *testing.T) *params.Registry {
	t.Helper()
	r, err := params.FromTables(load(t))
	require.NoError(t, err)
	return r
}

func TestLoad(t *testing.T) {
	tables := load(t)

	assert.Greater(t, len(tables.Params), 1)
	assert.Greater(t, len(tables.CFNames), 1)
	assert.Equal(t, "84", tables.CFVersion)
}

func TestLoadReturnsCopies(t *testing.T) {
	a := load(t)
	a.Params[0].Name = "CHANGED"
	a.CFAliases["x"] = "y"

	b := load(t)
	assert.NotEqual(t, "CHANGED", b.Params[0].Name)
	assert.NotContains(t, b.CFAliases, "x")
}

func TestTablesValidate(t *testing.T) {
	assert.Empty(t, compiler.Validate(load(t)))
}

func TestCFStandardNames(t *testing.T) {
	r := registry(t)
	cf := r.CF()

	tests := []struct {
		name string
		unit string
	}{
		{"sea_water_practical_salinity", "1"},
		{"sea_water_pressure", "dbar"},
		{"moles_of_oxygen_per_unit_mass_in_sea_water", "mol kg-1"},
	}
	for _, tt := range tests {
		rec, ok := cf.Get(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.unit, rec.CanonicalUnits)
	}
}

func TestCFAliases(t *testing.T) {
	cf := registry(t).CF()

	for alias, canonical := range map[string]string{
		"sea_floor_depth": "sea_floor_depth_below_geoid",
		"moles_per_unit_mass_of_cfc11_in_sea_water": "moles_of_cfc11_per_unit_mass_in_sea_water",
	} {
		viaAlias, ok := cf.Get(alias)
		require.True(t, ok, alias)
		direct, ok := cf.Get(canonical)
		require.True(t, ok, canonical)
		assert.Equal(t, direct, viaAlias)
	}
}

var ncNameRE = regexp.MustCompile(`^[a-z0-9_]+$`)

func TestEveryParam(t *testing.T) {
	r := registry(t)

	for _, v := range r.Views() {
		t.Run(v.ODVKey(), func(t *testing.T) {
			assert.Regexp(t, ncNameRE, v.NCName())

			if v.CFName() != "" {
				_, ok := v.CF()
				assert.True(t, ok, "cf_name %q is in the CF table", v.CFName())
			}

			if v.Unit() == "" {
				byName, err := r.Lookup(v.Name())
				require.NoError(t, err)
				byTuple, err := r.Lookup([]string{v.Name()})
				require.NoError(t, err)
				assert.True(t, byName.Equal(v))
				assert.True(t, byTuple.Equal(v))
			}

			assert.Equal(t, "whp_name", v.NCAttrs(false)[0].Name)
		})
	}
}

func TestErrorColumns(t *testing.T) {
	r := registry(t)

	for errKey, base := range r.ErrorColumns() {
		v, err := r.Lookup(errKey)
		require.NoError(t, err)
		assert.True(t, v.IsError())
		assert.Equal(t, base, v.Key())
	}
	assert.NotEmpty(t, r.ErrorColumns())
}

func TestHistoricOrdering(t *testing.T) {
	r := registry(t)
	get := func(key string) params.View {
		v, err := r.Lookup(key)
		require.NoError(t, err)
		return v
	}

	assert.True(t, get("EXPOCODE").Less(get("CTDPRS [DBAR]")))
	assert.True(t, get("CTDSAL [PSS-78]").Less(get("SALNTY [PSS-78]")))
	assert.True(t, get("CTDTMP [IPTS-68]").Less(get("CTDTMP [ITS-90]")))
}

func TestAliases(t *testing.T) {
	r := registry(t)

	v, err := r.Lookup("CTDPRS_FLAG_W [DBARS]")
	require.NoError(t, err)
	assert.Equal(t, "CTDPRS [DBAR]", v.ODVKey())
	assert.True(t, v.IsFlag())

	v, err = r.Lookup("PH_TOT [TOTAL]")
	require.NoError(t, err)
	assert.Equal(t, "PH_TOT", v.ODVKey())
}

func TestLegacyJSON(t *testing.T) {
	data, err := registry(t).LegacyJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"whp_name": "EXPOCODE"`)
}
