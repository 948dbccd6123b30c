package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/ZenLiuCN/lazylink"
	"github.com/ZenLiuCN/lazylink/decl"
)

const libcSource = `//lazylink:bind fullname = "libc.so.6"
package libc

import "unsafe"

// CString is a NUL terminated string.
type CString = *byte

const Max int32 = 1 << 20

// libc is the C library.
type libc interface {
	// Puts writes s and a newline to stdout.
	//lazylink:symbol puts
	Puts(s CString) int32
	Abs(n int32) int32
	//lazylink:build linux && amd64
	Memset(p unsafe.Pointer, c int32, n uintptr) (q unsafe.Pointer)
}

//lazylink:bind "z"
type zlib interface {
	//lazylink:symbol zlibVersion
	ZlibVersion() CString
	//lazylink:symbol deflateEnd
	DeflateEnd(strm unsafe.Pointer)
}
`

// lazylinkStub mirrors the exported API used by generated code.
const lazylinkStub = `package lazylink

type (
	Identity struct{ Name string }
	Policy   uint8
	Group    struct{}
	Option   func(g *Group)
)

const PolicyFatal Policy = 1

func ShortName(name string) Identity                              { return Identity{Name: name} }
func FullName(name string) Identity                               { return Identity{Name: name} }
func WithNamespace(ns string) Option                              { return nil }
func WithSequence(seq int) Option                                 { return nil }
func WithPolicy(p Policy) Option                                  { return nil }
func MustOpen(id Identity, opts ...Option) *Group                 { return nil }
func MustDeclare[T any](g *Group, name string, symbol ...string) (x T) { return }
`

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) {
	return f(path)
}

// typeCheck the generated files as one package, the lazylink import is served by lazylinkStub.
func typeCheck(t *testing.T, files []File) {
	t.Helper()
	fset := token.NewFileSet()
	stub := fn.Panic1(parser.ParseFile(fset, "lazylink.go", lazylinkStub, 0))
	lazy := fn.Panic1((&types.Config{}).Check(pkgLazylink, fset, []*ast.File{stub}, nil))
	var fs []*ast.File
	for i, f := range files {
		fs = append(fs, fn.Panic1(parser.ParseFile(fset, fmt.Sprintf("gen%d.go", i), f.Source, 0)))
	}
	conf := types.Config{Importer: importerFunc(func(path string) (*types.Package, error) {
		switch path {
		case "unsafe":
			return types.Unsafe, nil
		case pkgLazylink:
			return lazy, nil
		}
		return nil, fmt.Errorf("unknown import %s", path)
	})}
	if _, err := conf.Check(fs[0].Name.Name, fset, fs, nil); err != nil {
		for _, f := range files {
			t.Logf("%s", f.Source)
		}
		t.Fatalf("generated code does not type check: %v", err)
	}
}

func generate(t *testing.T, cfg Config) []File {
	t.Helper()
	m := fn.Panic1(decl.ParseSource("libc.go", []byte(libcSource)))
	m.Namespace = "example.com/libc"
	gs := fn.Panic1(decl.Organize(m))
	files := fn.Panic1(Generate(m, gs, cfg))
	for _, f := range files {
		if _, err := parser.ParseFile(token.NewFileSet(), "gen.go", f.Source, parser.ParseComments); err != nil {
			t.Fatalf("generated file %q does not parse: %v\n%s", f.Name, err, f.Source)
		}
	}
	return files
}

func TestGenerate(t *testing.T) {
	files := generate(t, Config{})
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	typeCheck(t, files)
	code := string(files[0].Source)
	if files[0].Name != "" || files[0].Build != "" {
		t.Errorf("main file %q %q", files[0].Name, files[0].Build)
	}
	if !strings.Contains(code, "package libc") {
		t.Error("expected package libc")
	}
	if !strings.Contains(code, "Code generated by lazylink. DO NOT EDIT.") {
		t.Error("expected generated header")
	}
	if !strings.Contains(code, `"github.com/ZenLiuCN/lazylink"`) {
		t.Error("expected lazylink import")
	}
	if !strings.Contains(code, "type CString = *byte") {
		t.Error("expected passthrough alias")
	}
	if !strings.Contains(code, "const Max int32 = 1 << 20") {
		t.Error("expected passthrough const")
	}
	if !strings.Contains(code, `lazyGroup0 = lazylink.MustOpen(lazylink.FullName("libc.so.6"), lazylink.WithNamespace("example.com/libc"), lazylink.WithSequence(0))`) {
		t.Error("expected libc group")
	}
	if !strings.Contains(code, `lazyGroup1 = lazylink.MustOpen(lazylink.ShortName("z"), lazylink.WithNamespace("example.com/libc"), lazylink.WithSequence(1))`) {
		t.Error("expected zlib group")
	}
	if !strings.Contains(code, `lazyPuts = lazylink.MustDeclare[func(s CString) int32](lazyGroup0, "Puts", "puts")`) {
		t.Error("expected puts declaration")
	}
	if !strings.Contains(code, "// libc is the C library.\n//\n// Puts writes s and a newline to stdout.\nfunc Puts(s CString) int32 {\n\treturn lazyPuts(s)\n}") {
		t.Error("expected puts wrapper documented by block and method")
	}
	if !strings.Contains(code, "// libc is the C library.\nfunc Abs(n int32) int32 {") {
		t.Error("expected abs wrapper documented by block")
	}
	key := lazylink.GroupKey("example.com/libc", 0, lazylink.FullName("libc.so.6"))
	if !strings.Contains(code, fmt.Sprintf("lazyGroup0 is group %x of libc.", key)) {
		t.Error("expected runtime group key in comment")
	}
	if !strings.Contains(code, `lazyDeflateEnd = lazylink.MustDeclare[func(strm unsafe.Pointer)](lazyGroup1, "DeflateEnd", "deflateEnd")`) {
		t.Error("expected deflateEnd declaration")
	}
	if !strings.Contains(code, "func DeflateEnd(strm unsafe.Pointer) {\n\tlazyDeflateEnd(strm)\n}") {
		t.Error("expected deflateEnd wrapper without return")
	}
	if !strings.Contains(code, `"unsafe"`) {
		t.Error("expected unsafe import")
	}
	if strings.Contains(code, "Memset") {
		t.Error("constrained function in main file")
	}
	if strings.Contains(code, "PolicyFatal") {
		t.Error("unexpected fatal policy")
	}

	code = string(files[1].Source)
	if files[1].Name != "1" || files[1].Build != "linux && amd64" {
		t.Errorf("constrained file %q %q", files[1].Name, files[1].Build)
	}
	if !strings.HasPrefix(code, "//go:build linux && amd64\n") {
		t.Error("expected build constraint header")
	}
	if !strings.Contains(code, `lazyMemset = lazylink.MustDeclare[func(p unsafe.Pointer, c int32, n uintptr) (q unsafe.Pointer)](lazyGroup0, "Memset", "Memset")`) {
		t.Error("expected memset declaration")
	}
	if !strings.Contains(code, "func Memset(p unsafe.Pointer, c int32, n uintptr) (q unsafe.Pointer) {") {
		t.Error("expected memset wrapper")
	}
	if strings.Contains(code, "MustOpen") || strings.Contains(code, "type CString") {
		t.Error("constrained file repeats module declarations")
	}
}

func TestGenerateConfig(t *testing.T) {
	files := generate(t, Config{Package: "clib", Namespace: "example.com/clib", Policy: lazylink.PolicyFatal})
	code := string(files[0].Source)
	if !strings.Contains(code, "package clib") {
		t.Error("expected package clib")
	}
	if !strings.Contains(code, `lazylink.WithNamespace("example.com/clib"), lazylink.WithSequence(0), lazylink.WithPolicy(lazylink.PolicyFatal))`) {
		t.Error("expected fatal policy option")
	}
	key := lazylink.GroupKey("example.com/clib", 0, lazylink.FullName("libc.so.6"))
	if !strings.Contains(code, fmt.Sprintf("lazyGroup0 is group %x of libc.", key)) {
		t.Error("expected group key of the configured namespace")
	}
	typeCheck(t, files)
}

func TestGenerateDefaultNamespace(t *testing.T) {
	m := fn.Panic1(decl.ParseSource("x.go", []byte("//lazylink:bind fullname = \"libc.so.6\"\npackage x\ntype a interface{ F() }\n")))
	gs := fn.Panic1(decl.Organize(m))
	code := string(fn.Panic1(Generate(m, gs, Config{}))[0].Source)
	if !strings.Contains(code, fmt.Sprintf("group %x of a.", gs[0].Key)) || !strings.Contains(code, `lazylink.WithNamespace("x")`) {
		t.Errorf("organized key and runtime namespace disagree\n%s", code)
	}
}

func TestGenerateBlankParams(t *testing.T) {
	m := fn.Panic1(decl.ParseSource("x.go", []byte(`//lazylink:bind fullname = "libc.so.6"
package x

type libc interface {
	//lazylink:symbol memset
	Memset(p *byte, _ int32, n uintptr) *byte
	Pair(_, _ int32, p0 int32)
}
`)))
	gs := fn.Panic1(decl.Organize(m))
	files := fn.Panic1(Generate(m, gs, Config{}))
	typeCheck(t, files)
	code := string(files[0].Source)
	if !strings.Contains(code, "func Memset(p *byte, p1 int32, n uintptr) *byte {\n\treturn lazyMemset(p, p1, n)\n}") {
		t.Error("expected named blank parameter of memset")
	}
	if !strings.Contains(code, "func Pair(p0_ int32, p1 int32, p0 int32) {\n\tlazyPair(p0_, p1, p0)\n}") {
		t.Error("expected distinct names of pair")
	}
}

func TestGenerateTypes(t *testing.T) {
	m := fn.Panic1(decl.ParseSource("x.go", []byte(`//lazylink:bind "x"
package x

import c "example.com/ctypes"

type Point struct {
	X, Y int32
}

type x interface {
	Call(cb func(a int32) int32, buf *[4]byte, p *c.Handle) (n int32, err int32)
}
`)))
	gs := fn.Panic1(decl.Organize(m))
	files := fn.Panic1(Generate(m, gs, Config{}))
	code := string(files[0].Source)
	if !strings.Contains(code, `c "example.com/ctypes"`) {
		t.Error("expected aliased import")
	}
	if !strings.Contains(code, "func Call(cb func(a int32) int32, buf *[4]byte, p *c.Handle) (n int32, err int32) {") {
		t.Errorf("expected call wrapper\n%s", code)
	}
	if !strings.Contains(code, "X, Y int32") && !strings.Contains(code, "X int32") {
		t.Error("expected point struct")
	}

	m = fn.Panic1(decl.ParseSource("x.go", []byte("//lazylink:bind \"x\"\npackage x\ntype x interface{ F(p *os.File) }\n")))
	gs = fn.Panic1(decl.Organize(m))
	if _, err := Generate(m, gs, Config{}); err == nil {
		t.Error("unknown package accepted")
	}
}
