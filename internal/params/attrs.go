package params

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attr is a single netCDF variable attribute.
type Attr struct {
	Name  string
	Value string
}

// Attrs is an insertion-ordered attribute mapping. Setting an existing name
// replaces its value in place.
type Attrs []Attr

// Get returns the value for name.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Has reports whether name is set.
func (a Attrs) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Names returns the attribute names in order.
func (a Attrs) Names() []string {
	names := make([]string, len(a))
	for i, attr := range a {
		names[i] = attr.Name
	}
	return names
}

func (a *Attrs) set(name, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Name: name, Value: value})
}

// MarshalJSON writes a JSON object preserving attribute order.
func (a Attrs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, attr.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, attr.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONString encodes s without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// NCAttrs derives the CF/netCDF variable attributes for this parameter.
// whp_name is the depth-suffixed name without "_FLAG_W": flag columns carry
// the attributes of the data column they qualify. With errorCol set,
// whp_name is the error column name and standard_name gains the
// " standard_error" modifier.
func (v View) NCAttrs(errorCol bool) Attrs {
	var attrs Attrs

	name := v.DepthName()
	if errorCol {
		if errName, ok := v.FullErrorName(); ok {
			name = errName
		}
	}
	attrs.set("whp_name", name)

	if v.rec.Unit != "" {
		attrs.set("whp_unit", v.rec.Unit)
	}

	if cf, ok := v.CF(); ok {
		standardName := cf.Name
		if errorCol {
			standardName += " standard_error"
		}
		attrs.set("standard_name", standardName)
		if cf.CanonicalUnits != "" {
			attrs.set("units", cf.CanonicalUnits)
		}
	}

	if v.rec.CFUnit != "" {
		attrs.set("units", v.rec.CFUnit)
	}

	if v.rec.ReferenceScale != "" {
		attrs.set("reference_scale", v.rec.ReferenceScale)
	}

	if v.rec.FieldWidth > 0 && v.rec.NumericPrecision != nil {
		attrs.set("C_format", fmt.Sprintf("%%%d.%df", v.rec.FieldWidth, *v.rec.NumericPrecision))
		attrs.set("C_format_source", "database")
	}

	return attrs
}
