//go:build darwin || freebsd || linux

package lazylink

import (
	"fmt"

	"github.com/ebitengine/purego"
)

type sharedLibrary struct {
	name   string
	handle uintptr
}

func (systemLoader) Open(name string) (Library, error) {
	h, err := purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return &sharedLibrary{name: name, handle: h}, nil
}

func (s *sharedLibrary) Name() string {
	return s.name
}

func (s *sharedLibrary) Lookup(symbol string) (uintptr, error) {
	p, err := purego.Dlsym(s.handle, symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMissingSymbol, err)
	}
	return p, nil
}
