package params

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
)

// View is a resolved parameter: a base Record plus lookup modifiers.
//
// Views are small immutable values. The As* methods return modified copies
// and never touch the underlying Record. The zero View is not usable; obtain
// views from Registry.Lookup.
type View struct {
	rec *Record
	cf  *CFRegistry

	altDepth    int
	isFlag      bool
	isError     bool
	aliasOrigin *Key
}

func newView(rec *Record, cf *CFRegistry) View {
	return View{rec: rec, cf: cf}
}

// Record returns a copy of the base record.
func (v View) Record() Record {
	return *v.rec
}

// Key returns the resolved (name, unit) of the base record.
func (v View) Key() Key {
	return v.rec.Key()
}

func (v View) Name() string           { return v.rec.Name }
func (v View) Unit() string           { return v.rec.Unit }
func (v View) Rank() float64          { return v.rec.Rank }
func (v View) Dtype() Dtype           { return v.rec.Dtype }
func (v View) FieldWidth() int        { return v.rec.FieldWidth }
func (v View) Scope() Scope           { return v.rec.Scope }
func (v View) NCName() string         { return v.rec.NCName }
func (v View) CFName() string         { return v.rec.CFName }
func (v View) ErrorName() string      { return v.rec.ErrorName }
func (v View) ODVKey() string         { return v.rec.ODVKey() }
func (v View) NumericPrecision() *int { return v.rec.NumericPrecision }

// AltDepth is the alternate measurement number, 0 for the primary column.
func (v View) AltDepth() int { return v.altDepth }

// IsFlag reports whether the view addresses the flag column.
func (v View) IsFlag() bool { return v.isFlag }

// IsError reports whether the view addresses the error column.
func (v View) IsError() bool { return v.isError }

// AliasOrigin returns the alias key the lookup went through, if any.
func (v View) AliasOrigin() (Key, bool) {
	if v.aliasOrigin == nil {
		return Key{}, false
	}
	return *v.aliasOrigin, true
}

// CF returns the CF standard name record for this parameter, if one exists.
func (v View) CF() (CFRecord, bool) {
	if v.rec.CFName == "" || v.cf == nil {
		return CFRecord{}, false
	}
	return v.cf.Get(v.rec.CFName)
}

// AsFlag returns a copy tagged as the flag column.
func (v View) AsFlag() (View, error) {
	if v.isError {
		return View{}, keyError("as_flag", v.FullName(), fmt.Errorf("%w: error columns cannot have flags", ErrInvalidModifier))
	}
	v.isFlag = true
	return v, nil
}

// AsError returns a copy tagged as the error column.
func (v View) AsError() (View, error) {
	if v.isFlag {
		return View{}, keyError("as_error", v.FullName(), fmt.Errorf("%w: flag columns cannot have errors", ErrInvalidModifier))
	}
	v.isError = true
	return v, nil
}

// AsDepth returns a copy for the given alternate number.
func (v View) AsDepth(depth int) View {
	v.altDepth = depth
	return v
}

// AsAlias returns a copy remembering the alias key it was looked up by.
func (v View) AsAlias(alias Key) View {
	v.aliasOrigin = &alias
	return v
}

// Equal compares resolved name, unit and alt depth only.
func (v View) Equal(o View) bool {
	return v.Key() == o.Key() && v.altDepth == o.altDepth
}

// Less reports whether v sorts before o in historic column order.
func (v View) Less(o View) bool {
	return v.Compare(o) < 0
}

// Compare orders views by rank. Equal ranks fall back to alt depth for
// variants of the same key, otherwise to the unit string, where a missing
// unit compares as "None".
func (v View) Compare(o View) int {
	if c := cmp.Compare(v.rec.Rank, o.rec.Rank); c != 0 {
		return c
	}
	if v.Key() == o.Key() {
		return cmp.Compare(v.altDepth, o.altDepth)
	}
	if c := strings.Compare(v.sortUnit(), o.sortUnit()); c != 0 {
		return c
	}
	if c := strings.Compare(v.rec.Name, o.rec.Name); c != 0 {
		return c
	}
	return cmp.Compare(v.altDepth, o.altDepth)
}

func (v View) sortUnit() string {
	if v.rec.Unit == "" {
		return "None"
	}
	return v.rec.Unit
}

// DepthName is the WHP name with the alternate suffix, e.g. "CTDTMP_ALT_2".
func (v View) DepthName() string {
	return withAlt(v.rec.Name, v.altDepth, altMarker)
}

// FullErrorName is the depth-suffixed error column name. It reports false
// when the parameter has no error column.
func (v View) FullErrorName() (string, bool) {
	if v.rec.ErrorName == "" {
		return "", false
	}
	return withAlt(v.rec.ErrorName, v.altDepth, altMarker), true
}

// FullName is the column name as it appears in an exchange file header.
func (v View) FullName() string {
	switch {
	case v.isFlag:
		return v.DepthName() + flagSuffix
	case v.isError:
		if name, ok := v.FullErrorName(); ok {
			return name
		}
	}
	return v.DepthName()
}

// FullNCName is the netCDF variable name including alternate, flag and
// error suffixes.
func (v View) FullNCName() string {
	name := withAlt(v.rec.NCName, v.altDepth, "_alt_")
	switch {
	case v.isFlag:
		return name + "_qc"
	case v.isError:
		return name + "_error"
	}
	return name
}

// String renders the full name with its unit, e.g. "CTDSAL_FLAG_W [PSS-78]".
func (v View) String() string {
	return ToODV(Key{Name: v.FullName(), Unit: v.rec.Unit})
}

func withAlt(name string, depth int, marker string) string {
	if depth <= 0 {
		return name
	}
	return fmt.Sprintf("%s%s%d", name, marker, depth)
}

// SortViews sorts views in place into historic column order.
func SortViews(views []View) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Less(views[j])
	})
}

type viewID struct {
	key   Key
	depth int
}

func (v View) id() viewID {
	return viewID{key: v.Key(), depth: v.altDepth}
}
