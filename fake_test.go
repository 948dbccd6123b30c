package lazylink

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"time"
)

// fakeLoader serves Go funcs as library symbols and counts every open and resolve.
type fakeLoader struct {
	libs    map[string]map[string]any
	delay   time.Duration
	opens   atomic.Int32
	lookups atomic.Int32
}

type fakeLibrary struct {
	name   string
	funcs  map[string]any
	loader *fakeLoader
}

func newFakeLoader(libs map[string]map[string]any) *fakeLoader {
	return &fakeLoader{libs: libs}
}

func (l *fakeLoader) Open(name string) (Library, error) {
	l.opens.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	fs, ok := l.libs[name]
	if !ok {
		return nil, fmt.Errorf("%s: cannot open shared object file: No such file or directory", name)
	}
	return &fakeLibrary{name: name, funcs: fs, loader: l}, nil
}

func (f *fakeLibrary) Name() string {
	return f.name
}

func (f *fakeLibrary) Lookup(symbol string) (uintptr, error) {
	if _, ok := f.funcs[symbol]; ok {
		return 1, nil
	}
	return 0, ErrMissingSymbol
}

func (f *fakeLibrary) Resolve(symbol string, typ reflect.Type) (reflect.Value, error) {
	f.loader.lookups.Add(1)
	fn, ok := f.funcs[symbol]
	if !ok {
		return reflect.Value{}, ErrMissingSymbol
	}
	return reflect.ValueOf(fn), nil
}

var fakeMath = map[string]any{
	"add": func(a, b int32) int32 { return a + b },
	"neg": func(a int32) int32 { return -a },
	"nop": func() {},
}
