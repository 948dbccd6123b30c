package decl

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xyproto/env/v2"
)

// Paths are the base directories of includes.
type Paths struct {
	Root   string //base of include
	OutDir string //base of include_outdir
}

// DefaultPaths use LAZYLINK_ROOT and LAZYLINK_OUTDIR, the root falls back to the
// nearest directory holding go.mod above file.
func DefaultPaths(file string) Paths {
	p := Paths{
		Root:   env.Str("LAZYLINK_ROOT"),
		OutDir: env.Str("LAZYLINK_OUTDIR"),
	}
	if p.Root == "" {
		p.Root = FindRoot(filepath.Dir(file))
	}
	return p
}

// FindRoot walks up from dir to the directory containing go.mod, empty when none.
func FindRoot(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		if _, err = os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Resolve the file path of an include.
func (p Paths) Resolve(in Include) (string, error) {
	switch in.Kind {
	case IncludeRoot:
		if p.Root == "" {
			return "", ErrNoRoot
		}
		return filepath.Join(p.Root, in.Path), nil
	case IncludeOutdir:
		if p.OutDir == "" {
			return "", ErrNoOutDir
		}
		return filepath.Join(p.OutDir, in.Path), nil
	default:
		return "", fmt.Errorf("no include")
	}
}

// Expand substitute the body of m by its include, once. A module without include is returned as is.
func Expand(m *Module, p Paths) (*Module, error) {
	in := m.Options.Include
	if in.Kind == IncludeNone {
		return m, nil
	}
	if len(m.Blocks) > 0 {
		return nil, errorf(pos(m.File), "package "+m.Package, ErrIncludeWithBody)
	}
	file, err := p.Resolve(in)
	if err != nil {
		return nil, errorf(pos(m.File), in.Kind.String(), err)
	}
	x, err := ParseFile(file)
	if err != nil {
		return nil, err
	}
	if x.Options.Include.Kind != IncludeNone {
		return nil, errorf(pos(file), in.Kind.String(), ErrNestedInclude)
	}
	if x.Options.Identity.IsResolved() && m.Options.Identity.IsResolved() {
		return nil, errorf(pos(file), "package "+x.Package, ErrIdentityTwice)
	}
	out := *m
	out.Options.Include = Include{}
	if !m.Options.Identity.IsResolved() {
		out.Options.Identity = x.Options.Identity
	}
	out.Blocks = x.Blocks
	out.Decls = append(append([]Decl(nil), m.Decls...), x.Decls...)
	out.Imports = make(map[string]string, len(m.Imports)+len(x.Imports))
	for k, v := range m.Imports {
		out.Imports[k] = v
	}
	for k, v := range x.Imports {
		out.Imports[k] = v
	}
	return &out, nil
}
