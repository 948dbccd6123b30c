// Package gen generates Go wrappers for lazylink declarations.
//
// Every group becomes a package variable opened from the global registry, every declared function
// a forwarding variable declared into the group plus a wrapper func with the declared signature.
// Functions with a build constraint go into their own file together with their forwarding variable,
// so compiled wrappers and the declared group members never disagree.
package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"unicode"

	"github.com/ZenLiuCN/lazylink"
	"github.com/ZenLiuCN/lazylink/decl"
	"github.com/dave/jennifer/jen"
)

const pkgLazylink = "github.com/ZenLiuCN/lazylink"

// File is one generated source file.
type File struct {
	Name   string //file name suffix, empty for the main file
	Build  string
	Source []byte
}

// Config of generation.
type Config struct {
	Package   string //package name, default is the declaration package
	Namespace string //group key namespace, default is the module namespace or package name
	Policy    lazylink.Policy
}

type generator struct {
	cfg     Config
	module  *decl.Module
	groups  []*decl.Group
	vars    map[string]bool
	files   map[string]*jen.File
	builds  []string
	grpVars map[uint64]string
}

// Generate wrappers of the organized groups of m.
func Generate(m *decl.Module, groups []*decl.Group, cfg Config) (out []File, err error) {
	if cfg.Package == "" {
		cfg.Package = m.Package
	}
	if cfg.Namespace == "" {
		cfg.Namespace = m.KeyNamespace()
	}
	g := &generator{
		cfg:     cfg,
		module:  m,
		groups:  groups,
		vars:    make(map[string]bool),
		files:   make(map[string]*jen.File),
		grpVars: make(map[uint64]string),
	}
	if err = g.generate(); err != nil {
		return
	}
	for i, b := range g.builds {
		var buf bytes.Buffer
		if err = g.files[b].Render(&buf); err != nil {
			return nil, fmt.Errorf("render %s: %w", cfg.Package, err)
		}
		name := ""
		if i > 0 {
			name = fmt.Sprintf("%d", i)
		}
		out = append(out, File{Name: name, Build: b, Source: buf.Bytes()})
	}
	return
}

func (g *generator) file(build string) *jen.File {
	if f, ok := g.files[build]; ok {
		return f
	}
	f := jen.NewFile(g.cfg.Package)
	if build != "" {
		f.HeaderComment("//go:build " + build)
	}
	f.HeaderComment("Code generated by lazylink. DO NOT EDIT.")
	f.ImportName(pkgLazylink, "lazylink")
	for name, path := range g.module.Imports {
		if name == path[strings.LastIndexByte(path, '/')+1:] {
			f.ImportName(path, name)
		} else {
			f.ImportAlias(path, name)
		}
	}
	g.files[build] = f
	g.builds = append(g.builds, build)
	return f
}

func (g *generator) generate() (err error) {
	mf := g.file("")
	for _, d := range g.module.Decls {
		if err = g.decl(mf, d); err != nil {
			return
		}
	}
	for _, grp := range g.groups {
		v := g.unique("lazyGroup" + fmt.Sprint(grp.Seq))
		g.grpVars[grp.Key] = v
		mf.Commentf("%s is group %x of %s.", v, lazylink.GroupKey(g.cfg.Namespace, grp.Seq, grp.Identity), strings.Join(grp.Blocks, ", "))
		mf.Var().Id(v).Op("=").Qual(pkgLazylink, "MustOpen").CallFunc(func(c *jen.Group) {
			c.Add(identity(grp.Identity))
			c.Qual(pkgLazylink, "WithNamespace").Call(jen.Lit(g.cfg.Namespace))
			c.Qual(pkgLazylink, "WithSequence").Call(jen.Lit(grp.Seq))
			if g.cfg.Policy == lazylink.PolicyFatal {
				c.Qual(pkgLazylink, "WithPolicy").Call(jen.Qual(pkgLazylink, "PolicyFatal"))
			}
		})
	}
	for _, grp := range g.groups {
		for _, s := range grp.Functions {
			if err = g.function(g.file(s.Build), grp, s); err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
		}
	}
	return
}

func (g *generator) decl(f *jen.File, d decl.Decl) error {
	comment(f, d.Doc)
	switch d.Tok {
	case token.TYPE:
		t, err := g.typeCode(d.Type)
		if err != nil {
			return fmt.Errorf("type %s: %w", d.Name, err)
		}
		if d.Alias {
			f.Type().Id(d.Name).Op("=").Add(t)
		} else {
			f.Type().Id(d.Name).Add(t)
		}
	case token.CONST:
		s := f.Const().Id(d.Name)
		if d.Type != "" {
			t, err := g.typeCode(d.Type)
			if err != nil {
				return fmt.Errorf("const %s: %w", d.Name, err)
			}
			s.Add(t)
		}
		if d.Value != "" {
			s.Op("=").Id(d.Value)
		}
	}
	return nil
}

func (g *generator) function(f *jen.File, grp *decl.Group, s decl.Signature) (err error) {
	params := make([]jen.Code, 0, len(s.Params))
	args := make([]jen.Code, 0, len(s.Params))
	for i, name := range paramNames(s.Params) {
		var t jen.Code
		if t, err = g.typeCode(s.Params[i].Type); err != nil {
			return
		}
		params = append(params, jen.Id(name).Add(t))
		args = append(args, jen.Id(name))
	}
	var results []jen.Code
	named := false
	for _, r := range s.Results {
		var t jen.Code
		if t, err = g.typeCode(r.Type); err != nil {
			return
		}
		if r.Name != "" {
			named = true
			results = append(results, jen.Id(r.Name).Add(t))
		} else {
			results = append(results, t)
		}
	}
	sig := func(st *jen.Statement) *jen.Statement {
		st = st.Params(params...)
		switch {
		case len(results) == 1 && !named:
			st = st.Add(results[0])
		case len(results) > 0:
			st = st.Parens(jen.List(results...))
		}
		return st
	}
	v := g.unique("lazy" + upperFirst(s.Name))
	f.Var().Id(v).Op("=").Qual(pkgLazylink, "MustDeclare").
		Types(sig(jen.Func())).
		Call(jen.Id(g.grpVars[grp.Key]), jen.Lit(s.Name), jen.Lit(s.SymbolName()))
	comment(f, s.Doc)
	call := jen.Id(v).Call(args...)
	if len(results) == 0 {
		f.Add(sig(jen.Func().Id(s.Name)).Block(call))
	} else {
		f.Add(sig(jen.Func().Id(s.Name)).Block(jen.Return(call)))
	}
	return
}

// typeCode convert a Go type expression into jen code, qualifying imported packages.
func (g *generator) typeCode(expr string) (jen.Code, error) {
	e, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}
	return g.code(e)
}

func (g *generator) code(e ast.Expr) (c *jen.Statement, err error) {
	switch x := e.(type) {
	case *ast.Ident:
		return jen.Id(x.Name), nil
	case *ast.SelectorExpr:
		if id, ok := x.X.(*ast.Ident); ok {
			if p, ok := g.module.Imports[id.Name]; ok {
				return jen.Qual(p, x.Sel.Name), nil
			}
		}
		return nil, fmt.Errorf("unknown package of %s", x.Sel.Name)
	case *ast.StarExpr:
		if c, err = g.code(x.X); err != nil {
			return
		}
		return jen.Op("*").Add(c), nil
	case *ast.ParenExpr:
		if c, err = g.code(x.X); err != nil {
			return
		}
		return jen.Parens(c), nil
	case *ast.ArrayType:
		if c, err = g.code(x.Elt); err != nil {
			return
		}
		if x.Len == nil {
			return jen.Index().Add(c), nil
		}
		l, ok := x.Len.(*ast.BasicLit)
		if !ok {
			return nil, fmt.Errorf("array length must be a literal")
		}
		return jen.Index(jen.Id(l.Value)).Add(c), nil
	case *ast.MapType:
		var k *jen.Statement
		if k, err = g.code(x.Key); err != nil {
			return
		}
		if c, err = g.code(x.Value); err != nil {
			return
		}
		return jen.Map(k).Add(c), nil
	case *ast.InterfaceType:
		if x.Methods != nil && len(x.Methods.List) > 0 {
			return nil, fmt.Errorf("non empty interface type")
		}
		return jen.Interface(), nil
	case *ast.StructType:
		var fields []jen.Code
		for _, f := range x.Fields.List {
			if c, err = g.code(f.Type); err != nil {
				return
			}
			if len(f.Names) == 0 {
				fields = append(fields, c)
			}
			for _, n := range f.Names {
				fields = append(fields, jen.Id(n.Name).Add(c))
			}
		}
		return jen.Struct(fields...), nil
	case *ast.FuncType:
		var ps, rs []jen.Code
		for _, f := range x.Params.List {
			if c, err = g.code(f.Type); err != nil {
				return
			}
			ps = append(ps, fieldCodes(f, c)...)
		}
		if x.Results != nil {
			for _, f := range x.Results.List {
				if c, err = g.code(f.Type); err != nil {
					return
				}
				rs = append(rs, fieldCodes(f, c)...)
			}
		}
		st := jen.Func().Params(ps...)
		switch {
		case len(rs) == 1 && x.Results.List[0].Names == nil:
			st = st.Add(rs[0])
		case len(rs) > 0:
			st = st.Parens(jen.List(rs...))
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported type expression %T", e)
	}
}

// paramNames replace blank parameter names with p<index>, they are forwarded as arguments.
func paramNames(ps []decl.Param) []string {
	used := make(map[string]bool, len(ps))
	for _, p := range ps {
		used[p.Name] = true
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
		if p.Name != "_" && p.Name != "" {
			continue
		}
		n := fmt.Sprintf("p%d", i)
		for used[n] {
			n += "_"
		}
		used[n] = true
		out[i] = n
	}
	return out
}

func fieldCodes(f *ast.Field, c *jen.Statement) []jen.Code {
	if len(f.Names) == 0 {
		return []jen.Code{c}
	}
	out := make([]jen.Code, 0, len(f.Names))
	for _, n := range f.Names {
		out = append(out, jen.Id(n.Name).Add(c.Clone()))
	}
	return out
}

func identity(id lazylink.Identity) jen.Code {
	if id.Kind == lazylink.Full {
		return jen.Qual(pkgLazylink, "FullName").Call(jen.Lit(id.Name))
	}
	return jen.Qual(pkgLazylink, "ShortName").Call(jen.Lit(id.Name))
}

func comment(f *jen.File, doc string) {
	doc = strings.TrimRight(doc, "\n")
	if doc == "" {
		return
	}
	for _, l := range strings.Split(doc, "\n") {
		if l == "" {
			f.Comment("//")
			continue
		}
		f.Comment(l)
	}
}

func (g *generator) unique(name string) string {
	n := name
	for i := 1; g.vars[n]; i++ {
		n = fmt.Sprintf("%s%d", name, i)
	}
	g.vars[n] = true
	return n
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
