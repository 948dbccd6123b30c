package lazylink

import (
	"errors"
)

// Probe open the library of id with l and look up every symbol, without binding or caching anything.
// It reports every missing symbol, not only the first one. Library handles opened here are not closed.
func Probe(l Loader, id Identity, symbols ...string) error {
	if l == nil {
		l = System
	}
	name, err := id.Resolve()
	if err != nil {
		return &BindError{Kind: KindConfig, Group: id, Err: err}
	}
	lib, err := l.Open(name)
	if err != nil {
		return &BindError{Kind: KindLoad, Group: id, Library: name, Err: err}
	}
	var errs []error
	for _, s := range symbols {
		p, err := lib.Lookup(s)
		if err == nil && p == 0 {
			err = ErrMissingSymbol
		}
		if err != nil {
			errs = append(errs, &BindError{Kind: KindSymbol, Group: id, Library: name, Symbol: s, Err: err})
		}
	}
	return errors.Join(errs...)
}
