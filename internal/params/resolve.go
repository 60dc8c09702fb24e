package params

import "fmt"

// resolve turns normalized key parts into a View. The steps run in a fixed
// order and each one sees the key as rewritten by the previous steps:
//
//  1. alias substitution
//  2. error-column substitution
//  3. base lookup
//  4. alt-depth tagging
//  5. flag tagging
//  6. error tagging
//  7. alias provenance tagging
func (r *Registry) resolve(parts KeyParts) (View, error) {
	key := parts.Key()

	var origin *Key
	r.mu.RLock()
	if canonical, ok := r.aliases[key]; ok {
		aliasKey := key
		origin = &aliasKey
		key = canonical
	}
	r.mu.RUnlock()

	isError := false
	if base, ok := r.errorCols[key]; ok {
		key = base
		isError = true
	}

	rec, ok := r.byKey[key]
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrNotFound, ToODV(key))
	}

	v := newView(rec, r.cf)

	if parts.AltDepth > 0 {
		v = v.AsDepth(parts.AltDepth)
	}

	var err error
	if parts.IsFlag {
		if v, err = v.AsFlag(); err != nil {
			return View{}, err
		}
	}
	if isError {
		if v, err = v.AsError(); err != nil {
			return View{}, err
		}
	}

	if origin != nil {
		v = v.AsAlias(*origin)
	}
	return v, nil
}
