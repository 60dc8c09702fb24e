package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cchdo/params/internal/params"
)

// AliasFile is the YAML document read from a session alias file:
//
//	aliases:
//	  - alias: "CTDPRS [DBARS]"
//	    canonical: "CTDPRS [DBAR]"
type AliasFile struct {
	Aliases []AliasSpec `yaml:"aliases"`
}

// AliasSpec is one alias entry, both sides in "NAME [UNIT]" form.
type AliasSpec struct {
	Alias     string `yaml:"alias"`
	Canonical string `yaml:"canonical"`
}

// ReadAliasFile parses the alias file at path.
func ReadAliasFile(path string) (*AliasFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var f AliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	for i, a := range f.Aliases {
		if a.Alias == "" || a.Canonical == "" {
			return nil, fmt.Errorf("alias file %s: entry %d needs both alias and canonical", path, i)
		}
	}
	return &f, nil
}

// Apply adds every alias in f to r, stopping at the first failure.
func (f *AliasFile) Apply(r *params.Registry) error {
	for _, a := range f.Aliases {
		if err := r.AddAlias(a.Alias, a.Canonical); err != nil {
			return err
		}
	}
	return nil
}
