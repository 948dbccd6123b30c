package lazylink

import (
	"fmt"
	"runtime"
)

// Kind of Identity.
type Kind uint8

const (
	// Unresolved identity is not known yet, it must never reach a loader.
	Unresolved Kind = iota
	// Short is a platform independent name like "z", mapped by LibraryFilename.
	Short
	// Full is a file name or path passed to the loader verbatim.
	Full
)

func (k Kind) String() string {
	switch k {
	case Short:
		return "name"
	case Full:
		return "fullname"
	default:
		return "unresolved"
	}
}

// Identity of a dynamic library. It is comparable and used as part of the group key.
type Identity struct {
	Kind Kind
	Name string
}

// ShortName create a Short identity, e.g. "z" for libz.so.
func ShortName(name string) Identity {
	return Identity{Kind: Short, Name: name}
}

// FullName create a Full identity, e.g. "libc.so.6".
func FullName(name string) Identity {
	return Identity{Kind: Full, Name: name}
}

// IsResolved reports whether the identity can be passed to Resolve.
func (i Identity) IsResolved() bool {
	return i.Kind != Unresolved && i.Name != ""
}

// Resolve the identity into the string passed to the loader.
func (i Identity) Resolve() (string, error) {
	switch i.Kind {
	case Short:
		if i.Name == "" {
			return "", ErrUnresolved
		}
		return LibraryFilename(i.Name), nil
	case Full:
		if i.Name == "" {
			return "", ErrUnresolved
		}
		return i.Name, nil
	default:
		return "", ErrUnresolved
	}
}

// String is the normalized form, also the hashed part of a group key.
func (i Identity) String() string {
	if i.Kind == Unresolved {
		return "unresolved"
	}
	return fmt.Sprintf("%s=%q", i.Kind, i.Name)
}

// LibraryFilename map a short library name to the canonical shared library file name of the host platform.
//
//	"z" => libz.so (linux, freebsd ...), libz.dylib (darwin), z.dll (windows)
func LibraryFilename(name string) string {
	return libraryFilename(runtime.GOOS, name)
}

func libraryFilename(goos, name string) string {
	switch goos {
	case "windows":
		return name + ".dll"
	case "darwin", "ios":
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}
