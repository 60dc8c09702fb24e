package params

import (
	"fmt"
	"sort"
)

// CFRegistry maps CF standard names, and their aliases, to CFRecords.
// It is immutable after construction.
type CFRegistry struct {
	names   map[string]*CFRecord
	aliases map[string]string
}

// NewCFRegistry builds a CF registry. Aliases are flattened at construction:
// every alias must point at a standard name present in records.
func NewCFRegistry(records []CFRecord, aliases map[string]string) (*CFRegistry, error) {
	r := &CFRegistry{
		names:   make(map[string]*CFRecord, len(records)),
		aliases: make(map[string]string, len(aliases)),
	}

	for i := range records {
		rec := records[i]
		if rec.Name == "" {
			return nil, fmt.Errorf("%w: cf standard name with empty name", ErrInvalidRecord)
		}
		if _, dup := r.names[rec.Name]; dup {
			return nil, fmt.Errorf("%w: cf standard name %q", ErrDuplicateKey, rec.Name)
		}
		r.names[rec.Name] = &rec
	}

	for alias, canonical := range aliases {
		if _, ok := r.names[alias]; ok {
			return nil, fmt.Errorf("%w: cf alias %q shadows a standard name", ErrDuplicateAlias, alias)
		}
		if _, ok := r.names[canonical]; !ok {
			return nil, fmt.Errorf("%w: cf alias %q -> %q", ErrInvalidAliasTarget, alias, canonical)
		}
		r.aliases[alias] = canonical
	}

	return r, nil
}

// Get returns the record for a standard name or one of its aliases.
func (r *CFRegistry) Get(name string) (CFRecord, bool) {
	if r == nil {
		return CFRecord{}, false
	}
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	rec, ok := r.names[name]
	if !ok {
		return CFRecord{}, false
	}
	return *rec, true
}

// Contains reports whether name is a standard name or an alias of one.
func (r *CFRegistry) Contains(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Len is the number of canonical standard names.
func (r *CFRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Names returns the canonical standard names, sorted.
func (r *CFRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
