package params

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Registry maps (name, unit) keys to base records and resolves composite
// lookup keys into Views.
//
// Everything except the alias table is built eagerly in NewRegistry and never
// changes. Aliases added with AddAlias are session scoped; they live only in
// this Registry value and are never persisted.
type Registry struct {
	records   []Record // owned backing storage, canonical order
	byKey     map[Key]*Record
	odv       map[string]*Record
	errorCols map[Key]Key
	views     []View
	groups    Groups
	cf        *CFRegistry
	log       zerolog.Logger

	mu      sync.RWMutex
	aliases map[Key]Key
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for alias bookkeeping. Lookups never log.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = logger
	}
}

// WithCF attaches the CF standard name registry used by View.NCAttrs.
func WithCF(cf *CFRegistry) Option {
	return func(r *Registry) {
		r.cf = cf
	}
}

// NewRegistry validates records, builds the derived indexes and applies the
// initial aliases. The records slice is copied.
func NewRegistry(records []Record, aliases []AliasEntry, opts ...Option) (*Registry, error) {
	r := &Registry{
		records:   make([]Record, len(records)),
		byKey:     make(map[Key]*Record, len(records)),
		odv:       make(map[string]*Record, len(records)),
		errorCols: make(map[Key]Key),
		aliases:   make(map[Key]Key, len(aliases)),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	copy(r.records, records)
	sort.SliceStable(r.records, func(i, j int) bool {
		return newView(&r.records[i], nil).Less(newView(&r.records[j], nil))
	})

	for i := range r.records {
		rec := &r.records[i]
		if err := rec.validate(); err != nil {
			return nil, err
		}
		key := rec.Key()
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, ToODV(key))
		}
		r.byKey[key] = rec
		r.odv[ToODV(key)] = rec
	}

	for i := range r.records {
		rec := &r.records[i]
		if rec.ErrorName == "" {
			continue
		}
		errKey := Key{Name: rec.ErrorName, Unit: rec.Unit}
		if _, clash := r.byKey[errKey]; clash {
			return nil, fmt.Errorf("%w: error column %s of %s is also a base key", ErrDuplicateKey, ToODV(errKey), rec.ODVKey())
		}
		if other, dup := r.errorCols[errKey]; dup {
			return nil, fmt.Errorf("%w: error column %s claimed by %s and %s", ErrDuplicateKey, ToODV(errKey), ToODV(other), rec.ODVKey())
		}
		r.errorCols[errKey] = rec.Key()
	}

	r.views = make([]View, len(r.records))
	for i := range r.records {
		r.views[i] = newView(&r.records[i], r.cf)
	}
	r.groups = buildGroups(r.views)

	for _, a := range aliases {
		if err := r.AddAlias(a.Alias, a.Canonical); err != nil {
			return nil, err
		}
	}

	r.log.Debug().
		Int("params", len(r.records)).
		Int("aliases", len(r.aliases)).
		Int("error_columns", len(r.errorCols)).
		Msg("parameter registry built")

	return r, nil
}

// FromTables builds the CF registry and the parameter registry from a
// loader's tables.
func FromTables(t *Tables, opts ...Option) (*Registry, error) {
	cf, err := NewCFRegistry(t.CFNames, t.CFAliases)
	if err != nil {
		return nil, fmt.Errorf("build cf registry: %w", err)
	}
	opts = append([]Option{WithCF(cf)}, opts...)
	return NewRegistry(t.Params, t.Aliases, opts...)
}

// Lookup resolves a raw key into a View. See ParseKey for accepted shapes.
func (r *Registry) Lookup(raw any) (View, error) {
	parts, err := ParseKey(raw)
	if err != nil {
		return View{}, err
	}
	v, err := r.resolve(parts)
	if err != nil {
		return View{}, keyError("lookup", renderKey(raw), err)
	}
	return v, nil
}

// Contains reports whether raw names a base record directly, without alias,
// error, flag or alternate resolution.
func (r *Registry) Contains(raw any) bool {
	parts, err := ParseKey(raw)
	if err != nil || parts.HasModifiers() {
		return false
	}
	_, ok := r.byKey[parts.Key()]
	return ok
}

// AddAlias maps alias onto the base key canonical for the rest of the
// session. It fails if alias already names a base record, if alias is bound
// to a different target, or if canonical is not a plain base key.
// Re-adding an identical alias is a no-op.
func (r *Registry) AddAlias(alias, canonical any) error {
	aParts, err := ParseKey(alias)
	if err != nil {
		return err
	}
	if aParts.HasModifiers() {
		return keyError("add_alias", renderKey(alias), fmt.Errorf("%w: alias keys cannot carry flag or alternate suffixes", ErrParse))
	}
	aliasKey := aParts.Key()
	if _, ok := r.byKey[aliasKey]; ok {
		return keyError("add_alias", ToODV(aliasKey), fmt.Errorf("%w: cannot override base parameter names", ErrDuplicateAlias))
	}

	cParts, err := ParseKey(canonical)
	if err != nil {
		return err
	}
	canonKey := cParts.Key()
	if _, ok := r.byKey[canonKey]; !ok || cParts.HasModifiers() {
		return keyError("add_alias", ToODV(aliasKey), fmt.Errorf("%w: %s is not a base parameter", ErrInvalidAliasTarget, renderKey(canonical)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.aliases[aliasKey]; ok {
		if existing == canonKey {
			r.log.Warn().Str("alias", ToODV(aliasKey)).Str("canonical", ToODV(canonKey)).Msg("alias already registered")
			return nil
		}
		return keyError("add_alias", ToODV(aliasKey), fmt.Errorf("%w: already bound to %s", ErrDuplicateAlias, ToODV(existing)))
	}

	r.aliases[aliasKey] = canonKey
	r.log.Debug().Str("alias", ToODV(aliasKey)).Str("canonical", ToODV(canonKey)).Msg("alias added")
	return nil
}

// Aliases returns the current alias table sorted by alias key.
func (r *Registry) Aliases() []AliasEntry {
	r.mu.RLock()
	entries := make([]AliasEntry, 0, len(r.aliases))
	for alias, canonical := range r.aliases {
		entries = append(entries, AliasEntry{Alias: alias, Canonical: canonical})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return ToODV(entries[i].Alias) < ToODV(entries[j].Alias)
	})
	return entries
}

// ErrorColumns returns a copy of the error-name index:
// (error_name, unit) -> (name, unit).
func (r *Registry) ErrorColumns() map[Key]Key {
	out := make(map[Key]Key, len(r.errorCols))
	for k, v := range r.errorCols {
		out[k] = v
	}
	return out
}

// ODVNames returns every base record keyed by its ODV string.
func (r *Registry) ODVNames() map[string]View {
	out := make(map[string]View, len(r.odv))
	for name, rec := range r.odv {
		out[name] = newView(rec, r.cf)
	}
	return out
}

// Views returns a view of every base record in canonical order.
func (r *Registry) Views() []View {
	out := make([]View, len(r.views))
	copy(out, r.views)
	return out
}

// Len is the number of base records.
func (r *Registry) Len() int {
	return len(r.records)
}

// Groups partitions the base records by scope.
func (r *Registry) Groups() Groups {
	return r.groups
}

// CF returns the CF standard name registry, which may be nil.
func (r *Registry) CF() *CFRegistry {
	return r.cf
}

func renderKey(raw any) string {
	switch k := raw.(type) {
	case string:
		return k
	case Key:
		return ToODV(k)
	case *Key:
		if k != nil {
			return ToODV(*k)
		}
	}
	return fmt.Sprintf("%v", raw)
}
