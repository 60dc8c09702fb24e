package params

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	flagSuffix = "_FLAG_W"
	altMarker  = "_ALT_"
)

// Key identifies a base record. An empty Unit means the parameter is unitless.
type Key struct {
	Name string `json:"whp_name"`
	Unit string `json:"whp_unit,omitempty"`
}

// HasUnit reports whether the key carries a unit.
func (k Key) HasUnit() bool {
	return k.Unit != ""
}

// String renders the key in ODV style.
func (k Key) String() string {
	return ToODV(k)
}

// ToODV renders a key as "NAME [UNIT]", or just "NAME" when unitless.
// It does not check that the key exists.
func ToODV(k Key) string {
	if k.Unit == "" {
		return k.Name
	}
	return fmt.Sprintf("%s [%s]", k.Name, k.Unit)
}

// KeyParts is the normalized form of a raw lookup key.
type KeyParts struct {
	Name     string
	Unit     string
	IsFlag   bool
	AltDepth int
}

// Key returns the (name, unit) pair of the parts, without modifiers.
func (p KeyParts) Key() Key {
	return Key{Name: p.Name, Unit: p.Unit}
}

// HasModifiers reports whether the parts carry a flag or alternate suffix.
func (p KeyParts) HasModifiers() bool {
	return p.IsFlag || p.AltDepth > 0
}

// ParseKey normalizes a raw lookup key.
//
// Accepted shapes are a string ("NAME", "NAME [UNIT]", with optional
// "_FLAG_W" and "_ALT_<n>" suffixes), a Key, a []string of length 1 or 2, and
// the arrays [1]string and [2]string. Anything else fails with ErrInvalidKey.
func ParseKey(raw any) (KeyParts, error) {
	var (
		parts    KeyParts
		name     string
		unit     string
		flagSeen bool
	)

	switch k := raw.(type) {
	case string:
		s := norm.NFC.String(k)
		s, flagSeen = stripFlag(s)
		var err error
		name, unit, err = splitUnit(s)
		if err != nil {
			return parts, keyError("parse", k, err)
		}
	case Key:
		name, unit = k.Name, k.Unit
	case *Key:
		if k == nil {
			return parts, keyError("parse", "", ErrInvalidKey)
		}
		name, unit = k.Name, k.Unit
	case []string:
		switch len(k) {
		case 1:
			name = k[0]
		case 2:
			name, unit = k[0], k[1]
		default:
			return parts, keyError("parse", fmt.Sprint(k), ErrInvalidKey)
		}
	case [1]string:
		name = k[0]
	case [2]string:
		name, unit = k[0], k[1]
	default:
		return parts, keyError("parse", fmt.Sprintf("%v", raw), ErrInvalidKey)
	}

	if !flagSeen {
		name, flagSeen = stripFlag(name)
	}

	name, depth, err := splitAltDepth(name)
	if err != nil {
		return parts, keyError("parse", name, err)
	}

	parts.Name = name
	parts.Unit = unit
	parts.IsFlag = flagSeen
	parts.AltDepth = depth
	return parts, nil
}

// NormalizeODV returns the canonical "NAME [UNIT]" spelling of an ODV key,
// trimming whitespace and dropping empty/none/nan units.
func NormalizeODV(s string) (string, error) {
	name, unit, err := splitUnit(norm.NFC.String(s))
	if err != nil {
		return "", keyError("parse", s, err)
	}
	return ToODV(Key{Name: name, Unit: unit}), nil
}

func stripFlag(s string) (string, bool) {
	if strings.HasSuffix(s, flagSuffix) {
		return strings.TrimSuffix(s, flagSuffix), true
	}
	return s, false
}

// splitUnit separates "NAME [UNIT]" into its parts. The unit spans from the
// first "[" to the last "]".
func splitUnit(s string) (string, string, error) {
	if !strings.ContainsAny(s, "[]") {
		return strings.TrimSpace(s), "", nil
	}
	if strings.Count(s, "[") != strings.Count(s, "]") {
		return "", "", fmt.Errorf("%w: unbalanced unit brackets", ErrParse)
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if end < start {
		return "", "", fmt.Errorf("%w: unbalanced unit brackets", ErrParse)
	}

	name := strings.TrimSpace(s[:start])
	unit := strings.TrimSpace(s[start+1 : end])
	switch strings.ToLower(unit) {
	case "", "none", "nan":
		unit = ""
	}
	return name, unit, nil
}

func splitAltDepth(name string) (string, int, error) {
	base, suffix, found := strings.Cut(name, altMarker)
	if !found {
		return name, 0, nil
	}
	if suffix == "" || strings.TrimLeft(suffix, "0123456789") != "" {
		return "", 0, fmt.Errorf("%w: could not parse alternate number", ErrParse)
	}
	depth, err := strconv.Atoi(suffix)
	if err != nil {
		return "", 0, fmt.Errorf("%w: could not parse alternate number", ErrParse)
	}
	return base, depth, nil
}
