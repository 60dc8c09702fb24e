package params

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure returned by this package wraps one of these.
var (
	// ErrParse indicates a malformed key: unbalanced unit brackets, a bad
	// alternate number, or an unsupported key shape.
	ErrParse = errors.New("parse error")

	// ErrInvalidKey indicates a key value that is neither a string nor a
	// one/two element tuple. It also matches ErrParse.
	ErrInvalidKey = fmt.Errorf("%w: key must be a name string or a 1/2-element tuple", ErrParse)

	// ErrNotFound indicates the key did not resolve after the full
	// substitution chain.
	ErrNotFound = errors.New("parameter not found")

	// ErrDuplicateAlias indicates an alias that would shadow a base key or
	// rebind an existing alias.
	ErrDuplicateAlias = errors.New("duplicate alias")

	// ErrInvalidAliasTarget indicates an alias whose canonical key does not
	// resolve to a plain base record.
	ErrInvalidAliasTarget = errors.New("invalid alias target")

	// ErrInvalidModifier indicates a flag and error tag on the same view.
	ErrInvalidModifier = errors.New("invalid modifier combination")

	// ErrDuplicateKey indicates two base records with the same (name, unit).
	ErrDuplicateKey = errors.New("duplicate parameter key")

	// ErrInvalidRecord indicates a base record that fails validation.
	ErrInvalidRecord = errors.New("invalid parameter record")

	// ErrFormat indicates a value Strfex cannot format for the view.
	ErrFormat = errors.New("format error")
)

// KeyError attaches the operation and offending key to a sentinel error.
type KeyError struct {
	Op  string // "lookup", "add_alias", "parse", ...
	Key string // the key as given, rendered for humans
	Err error  // one of the sentinels above, possibly wrapped
}

func (e *KeyError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func keyError(op, key string, err error) *KeyError {
	return &KeyError{Op: op, Key: key, Err: err}
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
