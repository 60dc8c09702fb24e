package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCFRegistry(t *testing.T) {
	tb := testTables()
	cf, err := NewCFRegistry(tb.CFNames, tb.CFAliases)
	require.NoError(t, err)

	assert.Equal(t, 5, cf.Len())
	assert.Equal(t, "moles_of_oxygen_per_unit_mass_in_sea_water", cf.Names()[0])

	rec, ok := cf.Get("sea_water_pressure")
	require.True(t, ok)
	assert.Equal(t, "dbar", rec.CanonicalUnits)

	rec, ok = cf.Get("sea_floor_depth")
	require.True(t, ok)
	assert.Equal(t, "sea_floor_depth_below_geoid", rec.Name)

	assert.True(t, cf.Contains("sea_floor_depth"))
	assert.False(t, cf.Contains("sea_water_speed"))
}

func TestCFRegistryValidation(t *testing.T) {
	tests := []struct {
		name    string
		records []CFRecord
		aliases map[string]string
		want    error
	}{
		{"empty name", []CFRecord{{Name: ""}}, nil, ErrInvalidRecord},
		{"duplicate", []CFRecord{{Name: "a"}, {Name: "a"}}, nil, ErrDuplicateKey},
		{"alias shadows name", []CFRecord{{Name: "a"}, {Name: "b"}}, map[string]string{"a": "b"}, ErrDuplicateAlias},
		{"alias dangling", []CFRecord{{Name: "a"}}, map[string]string{"x": "y"}, ErrInvalidAliasTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCFRegistry(tt.records, tt.aliases)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCFRegistryNil(t *testing.T) {
	var cf *CFRegistry
	_, ok := cf.Get("sea_water_pressure")
	assert.False(t, ok)
	assert.Zero(t, cf.Len())
	assert.Nil(t, cf.Names())
}

func TestCFRecordCopy(t *testing.T) {
	cf, err := NewCFRegistry([]CFRecord{{Name: "a", CanonicalUnits: "m"}}, nil)
	require.NoError(t, err)

	rec, _ := cf.Get("a")
	rec.CanonicalUnits = "km"

	again, _ := cf.Get("a")
	assert.Equal(t, "m", again.CanonicalUnits)
}

func TestViewCF(t *testing.T) {
	r := newTestRegistry(t)

	rec, ok := mustLookup(t, r, "CTDSAL [PSS-78]").CF()
	require.True(t, ok)
	assert.Equal(t, "1", rec.CanonicalUnits)

	_, ok = mustLookup(t, r, "BTLNBR").CF()
	assert.False(t, ok)
	assert.Same(t, r.CF(), r.CF())
}
