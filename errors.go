package lazylink

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolved occurs when a group has no library identity.
	ErrUnresolved = errors.New("library identity unresolved")
	// ErrLoad occurs when the dynamic library can not be opened.
	ErrLoad = errors.New("load library failed")
	// ErrMissingSymbol occurs when can't found a symbol.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrSealed occurs when declaring into a group after its first use.
	ErrSealed = errors.New("group already sealed")
	// ErrAlreadyExists occurs when registering a group or function twice.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFunc occurs when a declared type is not a func type.
	ErrNotFunc = errors.New("declared type is not a func")
	// ErrVariadic occurs when a declared func type is variadic.
	ErrVariadic = errors.New("variadic func not supported")
	// ErrUnsupported occurs when the platform has no dynamic loader.
	ErrUnsupported = errors.New("dynamic loading unsupported on this platform")
)

// ErrorKind classify a BindError.
type ErrorKind uint8

const (
	KindConfig ErrorKind = iota // detected before any loader call
	KindLoad                    // library can not be opened
	KindSymbol                  // library opened but a symbol can not be resolved or bound
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindSymbol:
		return "symbol"
	default:
		return "config"
	}
}

// BindError is the cached failure of a group initialization.
// All callers of a failed group observe the same *BindError.
type BindError struct {
	Kind    ErrorKind
	Group   Identity
	Library string // the resolved loader string, empty for KindConfig
	Symbol  string // the failed symbol, only for KindSymbol
	Err     error
}

func (e *BindError) Error() string {
	switch e.Kind {
	case KindLoad:
		return fmt.Sprintf("lazylink: load %s: %v", e.Library, e.Err)
	case KindSymbol:
		return fmt.Sprintf("lazylink: resolve %s in %s: %v", e.Symbol, e.Library, e.Err)
	default:
		return fmt.Sprintf("lazylink: group %s: %v", e.Group, e.Err)
	}
}

func (e *BindError) Unwrap() []error {
	var s error
	switch e.Kind {
	case KindLoad:
		s = ErrLoad
	case KindSymbol:
		s = ErrMissingSymbol
	}
	if s == nil || errors.Is(e.Err, s) {
		return []error{e.Err}
	}
	return []error{s, e.Err}
}
