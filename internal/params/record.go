package params

import (
	"fmt"
	"math"
)

// Dtype is the storage type of a parameter's values.
type Dtype string

const (
	DtypeString  Dtype = "string"
	DtypeDecimal Dtype = "decimal"
	DtypeInteger Dtype = "integer"
)

// Valid reports whether d is one of the known dtypes.
func (d Dtype) Valid() bool {
	switch d {
	case DtypeString, DtypeDecimal, DtypeInteger:
		return true
	}
	return false
}

// Scope says whether a parameter applies to a cruise, a profile, or a single
// sample record.
type Scope string

const (
	ScopeCruise  Scope = "cruise"
	ScopeProfile Scope = "profile"
	ScopeSample  Scope = "sample"
)

// Valid reports whether s is one of the known scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeCruise, ScopeProfile, ScopeSample:
		return true
	}
	return false
}

// Flag definition sets.
const (
	FlagWOCEBottle   = "woce_bottle"
	FlagWOCECTD      = "woce_ctd"
	FlagWOCEDiscrete = "woce_discrete"
	FlagNone         = "no_flags"
)

// Record is a single base (name, unit) parameter. Records are owned by the
// Registry and never mutated after construction.
//
// Optional text fields use the empty string for "unset"; optional numbers use
// pointers.
type Record struct {
	Name string // WOCE mnemonic, e.g. "SALNTY"
	Unit string // "" for unitless

	NCName   string
	NCGroup  string
	Rank     float64 // historic column order, lower first
	Dtype    Dtype
	InERDDAP bool

	FieldWidth       int
	NumericPrecision *int
	NumericMin       *float64
	NumericMax       *float64

	FlagW          string
	CFName         string
	CFUnit         string
	ErrorName      string
	ReferenceScale string
	WHPNumber      *int
	Scope          Scope

	Description string
	Note        string
	Warning     string

	AnalyticalTemperatureName  string
	AnalyticalTemperatureUnits string

	RadiationWavelength  *float64
	ScatteringAngle      *float64
	ExcitationWavelength *float64
	EmissionWavelength   *float64
}

// Key returns the record's identity.
func (r *Record) Key() Key {
	return Key{Name: r.Name, Unit: r.Unit}
}

// ODVKey renders the record key in "NAME [UNIT]" form.
func (r *Record) ODVKey() string {
	return ToODV(r.Key())
}

// NCNameFlag is the netCDF variable name of the flag ancillary variable.
func (r *Record) NCNameFlag() string {
	return r.NCName + "_qc"
}

// NCNameError is the netCDF variable name of the uncertainty variable.
func (r *Record) NCNameError() string {
	return r.NCName + "_error"
}

func (r *Record) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: empty whp_name", ErrInvalidRecord)
	}
	if !r.Dtype.Valid() {
		return fmt.Errorf("%w: %s: unknown dtype %q", ErrInvalidRecord, r.ODVKey(), r.Dtype)
	}
	if !r.Scope.Valid() {
		return fmt.Errorf("%w: %s: unknown scope %q", ErrInvalidRecord, r.ODVKey(), r.Scope)
	}
	if r.FieldWidth <= 0 {
		return fmt.Errorf("%w: %s: field_width must be positive", ErrInvalidRecord, r.ODVKey())
	}
	if math.IsNaN(r.Rank) {
		return fmt.Errorf("%w: %s: rank is NaN", ErrInvalidRecord, r.ODVKey())
	}
	return nil
}

// AliasEntry maps an alternate (name, unit) onto a canonical base key.
type AliasEntry struct {
	Alias     Key
	Canonical Key
}

// CFRecord is one entry of the CF standard name table.
type CFRecord struct {
	Name           string `json:"name"`
	CanonicalUnits string `json:"canonical_units,omitempty"`
	GRIB           string `json:"grib,omitempty"`
	AMIP           string `json:"amip,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Tables is everything a loader hands to the registry constructors.
type Tables struct {
	Params    []Record
	Aliases   []AliasEntry
	CFNames   []CFRecord
	CFAliases map[string]string // alias -> canonical standard name
	CFVersion string
}
