//go:build darwin || freebsd || linux || windows

package lazylink

import (
	"fmt"
	"reflect"

	"github.com/ebitengine/purego"
)

// nativeBind turns a C function address into a Go func of typ, following the C calling convention.
func nativeBind(addr uintptr, typ reflect.Type) (v reflect.Value, err error) {
	fp := reflect.New(typ)
	defer func() {
		switch x := recover().(type) {
		case nil:
		case error:
			err = fmt.Errorf("bind %s: %w", typ, x)
		default:
			err = fmt.Errorf("bind %s: %v", typ, x)
		}
	}()
	purego.RegisterFunc(fp.Interface(), addr)
	return fp.Elem(), nil
}
