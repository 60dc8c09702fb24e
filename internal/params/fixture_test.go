package params

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intp(i int) *int { return &i }

func floatp(f float64) *float64 { return &f }

// testTables is a small but representative slice of the parameter tables.
func testTables() *Tables {
	return &Tables{
		Params: []Record{
			{Name: "EXPOCODE", NCName: "expocode", Rank: 1, Dtype: DtypeString, FieldWidth: 14, FlagW: FlagNone, Scope: ScopeProfile, Description: "expedition code"},
			{Name: "STNNBR", NCName: "station", Rank: 3, Dtype: DtypeString, FieldWidth: 6, FlagW: FlagNone, Scope: ScopeProfile},
			{Name: "CASTNO", NCName: "cast", Rank: 4, Dtype: DtypeInteger, FieldWidth: 3, FlagW: FlagNone, Scope: ScopeProfile},
			{Name: "DATE", NCName: "date", Rank: 7, Dtype: DtypeString, FieldWidth: 8, FlagW: FlagNone, Scope: ScopeProfile},
			{Name: "TIME", NCName: "time", Rank: 8, Dtype: DtypeString, FieldWidth: 4, FlagW: FlagNone, Scope: ScopeProfile},
			{Name: "DEPTH", Unit: "METERS", NCName: "btm_depth", Rank: 10, Dtype: DtypeInteger, FieldWidth: 5, FlagW: FlagNone, Scope: ScopeProfile, CFName: "sea_floor_depth", CFUnit: "m"},
			{Name: "CTDPRS", Unit: "DBAR", NCName: "pressure", Rank: 11, Dtype: DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(1), NumericMin: floatp(0), NumericMax: floatp(12000), FlagW: FlagWOCECTD, Scope: ScopeSample, CFName: "sea_water_pressure", CFUnit: "dbar"},
			{Name: "CTDTMP", Unit: "ITS-90", NCName: "ctd_temperature", Rank: 12, Dtype: DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(4), FlagW: FlagWOCECTD, Scope: ScopeSample, CFName: "sea_water_temperature", CFUnit: "degC", ReferenceScale: "ITS-90"},
			{Name: "CTDTMP", Unit: "IPTS-68", NCName: "ctd_temperature_68", Rank: 12, Dtype: DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(4), FlagW: FlagWOCECTD, Scope: ScopeSample, CFName: "sea_water_temperature", CFUnit: "degC", ReferenceScale: "IPTS-68"},
			{Name: "CTDSAL", Unit: "PSS-78", NCName: "ctd_salinity", Rank: 13, Dtype: DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(4), FlagW: FlagWOCECTD, Scope: ScopeSample, CFName: "sea_water_practical_salinity", CFUnit: "1", ReferenceScale: "PSS-78"},
			{Name: "CTDOXY", Unit: "UMOL/KG", NCName: "ctd_oxygen", Rank: 14, Dtype: DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(1), FlagW: FlagWOCECTD, Scope: ScopeSample, CFName: "moles_of_oxygen_per_unit_mass_in_sea_water", CFUnit: "umol/kg", ErrorName: "CTDOXY_ERROR"},
			{Name: "BTLNBR", NCName: "bottle_number", Rank: 16, Dtype: DtypeString, FieldWidth: 7, FlagW: FlagWOCEBottle, Scope: ScopeSample},
			{Name: "SALNTY", Unit: "PSS-78", NCName: "bottle_salinity", Rank: 20, Dtype: DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(4), FlagW: FlagWOCEBottle, Scope: ScopeSample, CFName: "sea_water_practical_salinity", CFUnit: "1", ReferenceScale: "PSS-78", WHPNumber: intp(2)},
			{Name: "DELC14", Unit: "/MILLE", NCName: "del_carbon_14_dic", Rank: 40, Dtype: DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(1), FlagW: FlagWOCEDiscrete, Scope: ScopeSample, ErrorName: "C14ERR"},
		},
		Aliases: []AliasEntry{
			{Alias: Key{Name: "CTDPRS", Unit: "DBARS"}, Canonical: Key{Name: "CTDPRS", Unit: "DBAR"}},
		},
		CFNames: []CFRecord{
			{Name: "sea_water_pressure", CanonicalUnits: "dbar"},
			{Name: "sea_water_temperature", CanonicalUnits: "K"},
			{Name: "sea_water_practical_salinity", CanonicalUnits: "1"},
			{Name: "moles_of_oxygen_per_unit_mass_in_sea_water", CanonicalUnits: "mol kg-1"},
			{Name: "sea_floor_depth_below_geoid", CanonicalUnits: "m"},
		},
		CFAliases: map[string]string{
			"sea_floor_depth": "sea_floor_depth_below_geoid",
		},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := FromTables(testTables())
	require.NoError(t, err)
	return r
}

func mustLookup(t *testing.T, r *Registry, key any) View {
	t.Helper()
	v, err := r.Lookup(key)
	require.NoError(t, err, "lookup %v", key)
	return v
}
