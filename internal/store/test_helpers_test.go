package store

import (
	"path/filepath"
	"testing"

	"github.com/cchdo/params/internal/params"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intp(i int) *int { return &i }

func floatp(f float64) *float64 { return &f }

// createTestTables returns a small table set touching every column, in
// the order LoadTables reads it back.
func createTestTables() *params.Tables {
	return &params.Tables{
		Params: []params.Record{
			{Name: "EXPOCODE", NCName: "expocode", Rank: 1, Dtype: params.DtypeString, FieldWidth: 14, FlagW: params.FlagNone, Scope: params.ScopeProfile, InERDDAP: true, Description: "expedition code"},
			{Name: "CTDTMP", Unit: "IPTS-68", NCName: "ctd_temperature_68", Rank: 12, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(4), FlagW: params.FlagWOCECTD, Scope: params.ScopeSample, Warning: "convert to ITS-90"},
			{Name: "CTDTMP", Unit: "ITS-90", NCName: "ctd_temperature", Rank: 12, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(4), NumericMin: floatp(-2.5), NumericMax: floatp(40), FlagW: params.FlagWOCECTD, Scope: params.ScopeSample, CFName: "sea_water_temperature", CFUnit: "degC", ReferenceScale: "ITS-90"},
			{Name: "PH_TOT", NCName: "ph_total_h_scale", NCGroup: "carbon", Rank: 42, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(4), FlagW: params.FlagWOCEDiscrete, Scope: params.ScopeSample, AnalyticalTemperatureName: "PH_TMP", AnalyticalTemperatureUnits: "ITS-90", WHPNumber: intp(26), Note: "total scale"},
			{Name: "DELC14", Unit: "/MILLE", NCName: "del_carbon_14_dic", Rank: 50, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(1), FlagW: params.FlagWOCEDiscrete, Scope: params.ScopeSample, ErrorName: "C14ERR"},
			{Name: "CDOM325", Unit: "/METER", NCName: "cdom_325", Rank: 70, Dtype: params.DtypeDecimal, FieldWidth: 9, NumericPrecision: intp(4), FlagW: params.FlagWOCEDiscrete, Scope: params.ScopeSample, RadiationWavelength: floatp(325), ScatteringAngle: floatp(90), ExcitationWavelength: floatp(350), EmissionWavelength: floatp(450)},
		},
		Aliases: []params.AliasEntry{
			{Alias: params.Key{Name: "CTDTMP", Unit: "ITS-68"}, Canonical: params.Key{Name: "CTDTMP", Unit: "IPTS-68"}},
			{Alias: params.Key{Name: "PH_TOT", Unit: "TOTAL"}, Canonical: params.Key{Name: "PH_TOT"}},
		},
		CFNames: []params.CFRecord{
			{Name: "sea_water_temperature", CanonicalUnits: "K"},
			{Name: "sea_floor_depth_below_geoid", CanonicalUnits: "m", AMIP: "zfloor", GRIB: "", Description: "depth of the sea floor"},
		},
		CFAliases: map[string]string{"sea_floor_depth": "sea_floor_depth_below_geoid"},
		CFVersion: "84",
	}
}
