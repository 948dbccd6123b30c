//go:build !(darwin || freebsd || linux || windows)

package lazylink

import "reflect"

func (systemLoader) Open(name string) (Library, error) {
	return nil, ErrUnsupported
}

func nativeBind(addr uintptr, typ reflect.Type) (reflect.Value, error) {
	return reflect.Value{}, ErrUnsupported
}
