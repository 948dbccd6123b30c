package lazylink

import (
	"fmt"
	"reflect"
)

type (
	// Library is an opened dynamic library.
	//
	// A Library handed to a group is owned by that group's cell for the life of the process,
	// it is never closed since any forwarding func may still call into it.
	Library interface {
		Name() string                          //the loader string the library was opened with
		Lookup(symbol string) (uintptr, error) //address of the symbol, ErrMissingSymbol when absent
	}
	// Resolver is an optional Library extension which produces typed callables itself,
	// instead of binding a raw address with the native calling convention.
	Resolver interface {
		Resolve(symbol string, typ reflect.Type) (reflect.Value, error)
	}
	// Loader opens dynamic libraries.
	Loader interface {
		Open(name string) (Library, error)
	}
	// LoaderFunc adapts a func to Loader.
	LoaderFunc func(name string) (Library, error)

	systemLoader struct{}
)

func (f LoaderFunc) Open(name string) (Library, error) {
	return f(name)
}

// System is the host operating system loader, dlopen on unix and LoadLibrary on windows.
var System Loader = systemLoader{}

// resolve the symbol of lib into a callable of typ.
func resolve(lib Library, symbol string, typ reflect.Type) (v reflect.Value, err error) {
	if r, ok := lib.(Resolver); ok {
		if v, err = r.Resolve(symbol, typ); err != nil {
			return
		}
		if !v.IsValid() {
			return reflect.Value{}, ErrMissingSymbol
		}
		if v.Type() != typ {
			if !v.Type().ConvertibleTo(typ) {
				return reflect.Value{}, fmt.Errorf("%s is %s, want %s", symbol, v.Type(), typ)
			}
			v = v.Convert(typ)
		}
		return
	}
	var addr uintptr
	if addr, err = lib.Lookup(symbol); err != nil {
		return
	}
	if addr == 0 {
		err = ErrMissingSymbol
		return
	}
	return nativeBind(addr, typ)
}
