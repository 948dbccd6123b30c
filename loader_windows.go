//go:build windows

package lazylink

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type sharedLibrary struct {
	name   string
	handle windows.Handle
}

func (systemLoader) Open(name string) (Library, error) {
	h, err := windows.LoadLibrary(name)
	if err != nil {
		return nil, err
	}
	return &sharedLibrary{name: name, handle: h}, nil
}

func (s *sharedLibrary) Name() string {
	return s.name
}

func (s *sharedLibrary) Lookup(symbol string) (uintptr, error) {
	p, err := windows.GetProcAddress(s.handle, symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMissingSymbol, err)
	}
	return p, nil
}
