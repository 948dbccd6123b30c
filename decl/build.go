package decl

import (
	"go/build/constraint"
	"runtime"
)

var unixOS = map[string]bool{
	"aix": true, "android": true, "darwin": true, "dragonfly": true, "freebsd": true, "hurd": true, "illumos": true,
	"ios": true, "linux": true, "netbsd": true, "openbsd": true, "solaris": true,
}

// Matches reports whether the build constraint of s is satisfied by goos and goarch.
// Tags other than goos, goarch and unix are false.
func (s Signature) Matches(goos, goarch string) bool {
	if s.Build == "" {
		return true
	}
	x, err := constraint.Parse("//go:build " + s.Build)
	if err != nil {
		return false
	}
	return x.Eval(func(tag string) bool {
		return tag == goos || tag == goarch || (tag == "unix" && unixOS[goos])
	})
}

// Host filter functions of g matching the running platform.
func (g *Group) Host() []Signature {
	out := make([]Signature, 0, len(g.Functions))
	for _, s := range g.Functions {
		if s.Matches(runtime.GOOS, runtime.GOARCH) {
			out = append(out, s)
		}
	}
	return out
}
