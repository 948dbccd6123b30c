package lazylink

import (
	"fmt"
	"reflect"
	"strings"
)

// Bind fill the func fields of the struct pointed by ptr with forwarding funcs of one group.
//
// The field name is the function name, the tag `lazylink:"symbol"` overrides the resolved symbol,
// `lazylink:"-"` skips the field. Any other exported field is an error.
// The group is opened in the global registry, the namespace defaults to the struct type path.
//
//	var libc struct {
//		Strlen func(s *byte) uintptr `lazylink:"strlen"`
//	}
//	g, err := lazylink.Bind(&libc, lazylink.FullName("libc.so.6"))
func Bind(ptr any, id Identity, opts ...Option) (*Group, error) {
	return global.Bind(ptr, id, opts...)
}

// Bind is Bind with r as the registry.
func (r *Registry) Bind(ptr any, id Identity, opts ...Option) (g *Group, err error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind %T: want pointer to struct", ptr)
	}
	v = v.Elem()
	t := v.Type()
	ns := t.PkgPath() + "." + t.Name()
	if t.Name() == "" {
		ns = t.String()
	}
	if g, err = r.Open(id, append([]Option{WithNamespace(ns)}, opts...)...); err != nil {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("lazylink")
		if tag == "-" {
			continue
		}
		if f.Type.Kind() != reflect.Func {
			return nil, fmt.Errorf("bind %s.%s: %w", t, f.Name, ErrNotFunc)
		}
		sym := ""
		if ok {
			sym = strings.TrimSpace(tag)
		}
		var fv reflect.Value
		if fv, err = g.Declare(f.Name, sym, f.Type); err != nil {
			return nil, fmt.Errorf("bind %s.%s: %w", t, f.Name, err)
		}
		v.Field(i).Set(fv)
	}
	return
}
