// Package decl is the declaration model of lazylink: blocks of external function signatures
// bound to library identities, parsed from Go syntax declaration files.
//
// A declaration file is Go source. Each interface type is one block, its methods are the declared functions.
//
//	//lazylink:bind fullname = "libc.so.6"
//	package libc
//
//	type CString = *byte
//
//	type libc interface {
//		// Puts writes s and a newline to stdout.
//		//lazylink:symbol puts
//		Puts(s CString) int32
//	}
//
//	//lazylink:link name = "z"
//	type zlib interface {
//		//lazylink:symbol zlibVersion
//		ZlibVersion() CString
//	}
//
// Directives:
//
//	//lazylink:bind <options>     on the package clause (module level) or a block (override)
//	//lazylink:link name = "z"    ambient library hint of a block, used when no identity option is given
//	//lazylink:symbol <name>      symbol resolved for a method, default is the method name
//	//lazylink:build <expr>       build constraint of a block or a method
//
// Options are a leading bare string (short name) and comma separated pairs of
// name, fullname, include and include_outdir.
package decl

import (
	"go/token"

	"github.com/ZenLiuCN/lazylink"
)

type (
	// IncludeKind tells which directory an include path is relative to.
	IncludeKind uint8
	// Include substitute the module body with the blocks of another declaration file.
	Include struct {
		Kind IncludeKind
		Path string
	}
	// Options of a module or a block.
	Options struct {
		Identity lazylink.Identity
		Include  Include
	}
	// Hint is the ambient library name of a block given by //lazylink:link.
	Hint struct {
		Name string
		Kind string
	}
	// Param is a named and typed parameter or a result.
	Param struct {
		Name string
		Type string //Go type expression
	}
	// Signature of one declared function.
	Signature struct {
		Name    string //name of the generated wrapper
		Symbol  string //symbol resolved in library, empty means Name
		Params  []Param
		Results []Param
		Doc     string
		Build   string //build constraint expression, empty means always
		Pos     token.Position
	}
	// Block is one interface of declarations.
	Block struct {
		Name      string
		Options   Options
		Hint      Hint
		Doc       string
		Build     string
		Functions []Signature
		Pos       token.Position
	}
	// Decl is a top level type or const declaration copied into generated code.
	Decl struct {
		Tok   token.Token //token.TYPE or token.CONST
		Name  string
		Alias bool
		Type  string
		Value string
		Doc   string
	}
	// Module is a parsed declaration file.
	Module struct {
		File      string
		Package   string
		Namespace string            //key namespace, the import path of the generated package when known
		Options   Options           //module level options
		Imports   map[string]string //import name to import path
		Decls     []Decl
		Blocks    []Block
	}
)

const (
	IncludeNone IncludeKind = iota
	IncludeRoot             //relative to the project root
	IncludeOutdir           //relative to the output directory
)

func (k IncludeKind) String() string {
	switch k {
	case IncludeRoot:
		return "include"
	case IncludeOutdir:
		return "include_outdir"
	default:
		return ""
	}
}

// KeyNamespace is the namespace of group keys, the package name when no namespace is given.
func (m *Module) KeyNamespace() string {
	if m.Namespace == "" {
		return m.Package
	}
	return m.Namespace
}

// SymbolName is the name resolved in the library.
func (s Signature) SymbolName() string {
	if s.Symbol == "" {
		return s.Name
	}
	return s.Symbol
}

// Usable reports whether the hint names a dynamic library.
func (h Hint) Usable() bool {
	return h.Name != "" && (h.Kind == "" || h.Kind == "dylib")
}
