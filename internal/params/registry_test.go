package params

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEveryBaseKey(t *testing.T) {
	r := newTestRegistry(t)

	for _, rec := range testTables().Params {
		t.Run(rec.ODVKey(), func(t *testing.T) {
			v := mustLookup(t, r, rec.Key())
			assert.Equal(t, rec.Key(), v.Key())
			assert.Equal(t, 0, v.AltDepth())
			assert.False(t, v.IsFlag())
			assert.False(t, v.IsError())
			_, aliased := v.AliasOrigin()
			assert.False(t, aliased)

			// ODV round trip
			odv := mustLookup(t, r, ToODV(rec.Key()))
			assert.True(t, odv.Equal(v))
		})
	}
}

func TestLookupUnitlessForms(t *testing.T) {
	r := newTestRegistry(t)

	base := mustLookup(t, r, "EXPOCODE")
	for _, key := range []any{"EXPOCODE []", "EXPOCODE [nan]", []string{"EXPOCODE"}, Key{Name: "EXPOCODE"}} {
		v := mustLookup(t, r, key)
		assert.True(t, v.Equal(base), "%v", key)
		assert.Equal(t, base.Record(), v.Record())
	}

	groups := r.Groups()
	assert.True(t, groups.Profile.Has(base))
	assert.False(t, groups.Cruise.Has(base))
	assert.False(t, groups.Sample.Has(base))
}

func TestLookupErrorColumns(t *testing.T) {
	r := newTestRegistry(t)

	for _, rec := range testTables().Params {
		if rec.ErrorName == "" {
			continue
		}
		t.Run(rec.ErrorName, func(t *testing.T) {
			v := mustLookup(t, r, Key{Name: rec.ErrorName, Unit: rec.Unit})
			assert.True(t, v.IsError())
			assert.False(t, v.IsFlag())
			assert.True(t, v.Equal(mustLookup(t, r, rec.Key())))
			assert.Equal(t, rec.ErrorName, v.FullName())
		})
	}
}

func TestErrorColumnsIndex(t *testing.T) {
	r := newTestRegistry(t)

	cols := r.ErrorColumns()
	assert.Equal(t, Key{Name: "DELC14", Unit: "/MILLE"}, cols[Key{Name: "C14ERR", Unit: "/MILLE"}])
	assert.Len(t, cols, 2)

	// the copy is detached from the registry
	delete(cols, Key{Name: "C14ERR", Unit: "/MILLE"})
	assert.Len(t, r.ErrorColumns(), 2)
}

func TestLookupFlagAndAlt(t *testing.T) {
	r := newTestRegistry(t)

	flag := mustLookup(t, r, "CTDSAL_FLAG_W [PSS-78]")
	assert.True(t, flag.IsFlag())
	assert.Equal(t, "CTDSAL_FLAG_W", flag.FullName())
	assert.Equal(t, "ctd_salinity_qc", flag.FullNCName())
	assert.True(t, flag.Equal(mustLookup(t, r, "CTDSAL [PSS-78]")))

	alt := mustLookup(t, r, "CTDTMP_ALT_3 [ITS-90]")
	assert.Equal(t, 3, alt.AltDepth())
	assert.Equal(t, "CTDTMP", alt.Name())
	assert.Equal(t, "CTDTMP_ALT_3", alt.FullName())
	assert.Equal(t, "ctd_temperature_alt_3", alt.FullNCName())
	assert.False(t, alt.Equal(mustLookup(t, r, "CTDTMP [ITS-90]")))

	altFlag := mustLookup(t, r, "CTDTMP_ALT_2_FLAG_W [ITS-90]")
	assert.Equal(t, "CTDTMP_ALT_2_FLAG_W", altFlag.FullName())
	assert.Equal(t, "CTDTMP_ALT_2_FLAG_W [ITS-90]", altFlag.String())

	altErr := mustLookup(t, r, "C14ERR_ALT_2 [/MILLE]")
	assert.True(t, altErr.IsError())
	assert.Equal(t, "C14ERR_ALT_2", altErr.FullName())
	assert.Equal(t, "del_carbon_14_dic_alt_2_error", altErr.FullNCName())

	_, err := r.Lookup("CTDTMP_ALT_abc [ITS-90]")
	assert.ErrorIs(t, err, ErrParse)
}

func TestLookupFlagOnErrorColumn(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Lookup("C14ERR_FLAG_W [/MILLE]")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidModifier)
	assert.Contains(t, err.Error(), "flag columns cannot have errors")
}

func TestAsFlagOnErrorView(t *testing.T) {
	r := newTestRegistry(t)

	errView := mustLookup(t, r, "C14ERR [/MILLE]")
	_, err := errView.AsFlag()
	assert.ErrorIs(t, err, ErrInvalidModifier)
	assert.Contains(t, err.Error(), "error columns cannot have flags")
}

func TestLookupNotFound(t *testing.T) {
	r := newTestRegistry(t)

	for _, key := range []any{"NOPE", "CTDPRS", "CTDPRS [PSI]", Key{Name: "SALNTY"}} {
		_, err := r.Lookup(key)
		assert.ErrorIs(t, err, ErrNotFound, "%v", key)
		assert.True(t, IsNotFound(err))
	}
}

func TestLookupAlias(t *testing.T) {
	r := newTestRegistry(t)

	v := mustLookup(t, r, "CTDPRS [DBARS]")
	assert.True(t, v.Equal(mustLookup(t, r, "CTDPRS [DBAR]")))
	origin, ok := v.AliasOrigin()
	require.True(t, ok)
	assert.Equal(t, Key{Name: "CTDPRS", Unit: "DBARS"}, origin)
	assert.Equal(t, "DBAR", v.Unit())
}

func TestAddAlias(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.AddAlias(Key{Name: "test"}, Key{Name: "EXPOCODE"}))
	v := mustLookup(t, r, "test")
	assert.True(t, v.Equal(mustLookup(t, r, "EXPOCODE")))
	origin, ok := v.AliasOrigin()
	require.True(t, ok)
	assert.Equal(t, "test", origin.Name)
	assert.Empty(t, origin.Unit)

	// identical re-add is a no-op
	require.NoError(t, r.AddAlias("test", "EXPOCODE"))

	err := r.AddAlias("test", "STNNBR")
	assert.ErrorIs(t, err, ErrDuplicateAlias)

	err = r.AddAlias("EXPOCODE", "STNNBR")
	assert.ErrorIs(t, err, ErrDuplicateAlias)
	assert.Contains(t, err.Error(), "cannot override base parameter names")

	err = r.AddAlias("other", "dummy")
	assert.ErrorIs(t, err, ErrInvalidAliasTarget)

	err = r.AddAlias("other", "CTDSAL_FLAG_W [PSS-78]")
	assert.ErrorIs(t, err, ErrInvalidAliasTarget)

	err = r.AddAlias("other_FLAG_W", "EXPOCODE")
	assert.ErrorIs(t, err, ErrParse)

	assert.Len(t, r.Aliases(), 2)
}

func TestAliasCanCarryModifiersAtLookup(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.AddAlias("NITRATE [UMOL/KG]", "CTDOXY [UMOL/KG]"))

	flag := mustLookup(t, r, "NITRATE_FLAG_W [UMOL/KG]")
	assert.True(t, flag.IsFlag())
	assert.Equal(t, "CTDOXY", flag.Name())

	alt := mustLookup(t, r, "NITRATE_ALT_2 [UMOL/KG]")
	assert.Equal(t, 2, alt.AltDepth())
	origin, ok := alt.AliasOrigin()
	require.True(t, ok)
	assert.Equal(t, "NITRATE", origin.Name)
}

func TestAliasWarnsOnReAdd(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	tables := testTables()
	r, err := FromTables(tables, WithLogger(logger))
	require.NoError(t, err)

	require.NoError(t, r.AddAlias("CTDPRS [DBARS]", "CTDPRS [DBAR]"))
	assert.Contains(t, buf.String(), "alias already registered")
}

func TestContains(t *testing.T) {
	r := newTestRegistry(t)

	assert.True(t, r.Contains("EXPOCODE"))
	assert.True(t, r.Contains("EXPOCODE [nan]"))
	assert.True(t, r.Contains(Key{Name: "CTDPRS", Unit: "DBAR"}))
	assert.True(t, r.Contains("CTDPRS [DBAR]"))

	assert.False(t, r.Contains("CTDPRS [DBARS]"), "aliases are not base keys")
	assert.False(t, r.Contains("C14ERR [/MILLE]"), "error columns are not base keys")
	assert.False(t, r.Contains("CTDSAL_FLAG_W [PSS-78]"))
	assert.False(t, r.Contains("CTDPRS [DBAR"))
	assert.False(t, r.Contains(12))
}

func TestGroupsPartition(t *testing.T) {
	r := newTestRegistry(t)
	g := r.Groups()

	assert.Equal(t, 0, g.Cruise.Len())
	assert.Equal(t, r.Len(), g.Cruise.Len()+g.Profile.Len()+g.Sample.Len())

	for _, v := range r.Views() {
		group, ok := g.ForScope(v.Scope())
		require.True(t, ok)
		assert.True(t, group.Has(v))
	}

	assert.True(t, g.Sample.Has(mustLookup(t, r, "CTDSAL_FLAG_W [PSS-78]")))
	assert.False(t, g.Sample.Has(mustLookup(t, r, "CTDTMP_ALT_2 [ITS-90]")))

	_, ok := g.ForScope("ship")
	assert.False(t, ok)
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
		want   error
	}{
		{"duplicate key", func(tb *Tables) {
			tb.Params = append(tb.Params, tb.Params[0])
		}, ErrDuplicateKey},
		{"bad dtype", func(tb *Tables) {
			tb.Params[0].Dtype = "float"
		}, ErrInvalidRecord},
		{"bad scope", func(tb *Tables) {
			tb.Params[0].Scope = "ship"
		}, ErrInvalidRecord},
		{"zero width", func(tb *Tables) {
			tb.Params[0].FieldWidth = 0
		}, ErrInvalidRecord},
		{"error name shadows base", func(tb *Tables) {
			tb.Params[0].ErrorName = "STNNBR"
		}, ErrDuplicateKey},
		{"alias shadows base", func(tb *Tables) {
			tb.Aliases = append(tb.Aliases, AliasEntry{Alias: Key{Name: "EXPOCODE"}, Canonical: Key{Name: "STNNBR"}})
		}, ErrDuplicateAlias},
		{"alias target missing", func(tb *Tables) {
			tb.Aliases = append(tb.Aliases, AliasEntry{Alias: Key{Name: "X"}, Canonical: Key{Name: "Y"}})
		}, ErrInvalidAliasTarget},
		{"cf alias target missing", func(tb *Tables) {
			tb.CFAliases["x"] = "y"
		}, ErrInvalidAliasTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := testTables()
			tt.mutate(tables)
			_, err := FromTables(tables)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewRegistryCopiesRecords(t *testing.T) {
	tables := testTables()
	r, err := FromTables(tables)
	require.NoError(t, err)

	tables.Params[0].FieldWidth = 99
	v := mustLookup(t, r, "EXPOCODE")
	assert.Equal(t, 14, v.FieldWidth())

	rec := v.Record()
	rec.FieldWidth = 1
	assert.Equal(t, 14, mustLookup(t, r, "EXPOCODE").FieldWidth())
}

func TestODVNames(t *testing.T) {
	r := newTestRegistry(t)

	names := r.ODVNames()
	assert.Len(t, names, r.Len())
	assert.Equal(t, Key{Name: "CTDPRS", Unit: "DBAR"}, names["CTDPRS [DBAR]"].Key())
	assert.Contains(t, names, "EXPOCODE")
}

func TestConcurrentLookups(t *testing.T) {
	r := newTestRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				v, err := r.Lookup("CTDPRS [DBARS]")
				if err != nil || v.Name() != "CTDPRS" {
					t.Errorf("lookup failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
