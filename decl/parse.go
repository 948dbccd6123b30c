package decl

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"strconv"
	"strings"
)

const directivePrefix = "//lazylink:"

type directive struct {
	name string
	args string
	pos  token.Position
}

// ParseFile parse a declaration file.
func ParseFile(file string) (*Module, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read declarations %s: %w", file, err)
	}
	return ParseSource(file, src)
}

// ParseSource parse declarations from src, file is used for positions.
func ParseSource(file string, src []byte) (m *Module, err error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	m = &Module{
		File:    file,
		Package: f.Name.Name,
		Imports: make(map[string]string),
	}
	for _, d := range directives(fset, f.Doc) {
		switch d.name {
		case "bind":
			if m.Options, err = ParseOptions(d.args); err != nil {
				return nil, errorf(d.pos, "package "+m.Package, err)
			}
		default:
			return nil, errorf(d.pos, "package "+m.Package, fmt.Errorf("%w: %s", ErrDirective, d.name))
		}
	}
	for _, spec := range f.Imports {
		p, _ := strconv.Unquote(spec.Path.Value)
		name := p[strings.LastIndexByte(p, '/')+1:]
		if spec.Name != nil {
			name = spec.Name.Name
		}
		m.Imports[name] = p
	}
	for _, d := range f.Decls {
		g, ok := d.(*ast.GenDecl)
		if !ok {
			fd := d.(*ast.FuncDecl)
			return nil, errorf(fset.Position(fd.Pos()), "func "+fd.Name.Name, ErrNotFunc)
		}
		switch g.Tok {
		case token.IMPORT:
		case token.CONST:
			for _, s := range g.Specs {
				vs := s.(*ast.ValueSpec)
				for i, n := range vs.Names {
					x := Decl{Tok: token.CONST, Name: n.Name, Doc: docOf(g, vs.Doc)}
					if vs.Type != nil {
						x.Type = types.ExprString(vs.Type)
					}
					if i < len(vs.Values) {
						x.Value = types.ExprString(vs.Values[i])
					}
					m.Decls = append(m.Decls, x)
				}
			}
		case token.TYPE:
			for _, s := range g.Specs {
				ts := s.(*ast.TypeSpec)
				it, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					m.Decls = append(m.Decls, Decl{
						Tok:   token.TYPE,
						Name:  ts.Name.Name,
						Alias: ts.Assign.IsValid(),
						Type:  types.ExprString(ts.Type),
						Doc:   docOf(g, ts.Doc),
					})
					continue
				}
				doc := ts.Doc
				if doc == nil && len(g.Specs) == 1 {
					doc = g.Doc
				}
				var b Block
				if b, err = parseBlock(fset, ts, it, doc); err != nil {
					return nil, err
				}
				m.Blocks = append(m.Blocks, b)
			}
		default:
			return nil, errorf(fset.Position(g.Pos()), g.Tok.String(), ErrNotFunc)
		}
	}
	if m.Options.Include.Kind != IncludeNone && len(m.Blocks) > 0 {
		return nil, errorf(fset.Position(f.Package), "package "+m.Package, ErrIncludeWithBody)
	}
	return
}

func parseBlock(fset *token.FileSet, ts *ast.TypeSpec, it *ast.InterfaceType, doc *ast.CommentGroup) (b Block, err error) {
	b = Block{
		Name: ts.Name.Name,
		Doc:  doc.Text(),
		Pos:  fset.Position(ts.Pos()),
	}
	for _, d := range directives(fset, doc) {
		switch d.name {
		case "bind":
			if b.Options, err = ParseOptions(d.args); err != nil {
				return b, errorf(d.pos, b.Name, err)
			}
			if b.Options.Include.Kind != IncludeNone {
				return b, errorf(d.pos, b.Name, ErrIncludeAtBlock)
			}
		case "link":
			if b.Hint, err = ParseHint(d.args); err != nil {
				return b, errorf(d.pos, b.Name, err)
			}
		case "build":
			if b.Build, err = parseBuild(d.args); err != nil {
				return b, errorf(d.pos, b.Name, err)
			}
		default:
			return b, errorf(d.pos, b.Name, fmt.Errorf("%w: %s", ErrDirective, d.name))
		}
	}
	for _, f := range it.Methods.List {
		pos := fset.Position(f.Pos())
		ft, ok := f.Type.(*ast.FuncType)
		if len(f.Names) == 0 || !ok {
			return b, errorf(pos, b.Name+"."+types.ExprString(f.Type), ErrNotFunc)
		}
		s := Signature{Name: f.Names[0].Name, Doc: f.Doc.Text(), Pos: pos}
		item := b.Name + "." + s.Name
		for _, d := range directives(fset, f.Doc) {
			switch d.name {
			case "symbol":
				s.Symbol = strings.TrimSpace(d.args)
			case "build":
				if s.Build, err = parseBuild(d.args); err != nil {
					return b, errorf(d.pos, item, err)
				}
			default:
				return b, errorf(d.pos, item, fmt.Errorf("%w: %s", ErrDirective, d.name))
			}
		}
		for _, p := range ft.Params.List {
			if len(p.Names) == 0 {
				return b, errorf(fset.Position(p.Pos()), item, ErrUntypedParam)
			}
			if _, ok := p.Type.(*ast.Ellipsis); ok {
				return b, errorf(fset.Position(p.Pos()), item, ErrVariadic)
			}
			for _, n := range p.Names {
				s.Params = append(s.Params, Param{Name: n.Name, Type: types.ExprString(p.Type)})
			}
		}
		if ft.Results != nil {
			for _, r := range ft.Results.List {
				t := types.ExprString(r.Type)
				if len(r.Names) == 0 {
					s.Results = append(s.Results, Param{Type: t})
				}
				for _, n := range r.Names {
					s.Results = append(s.Results, Param{Name: n.Name, Type: t})
				}
			}
		}
		b.Functions = append(b.Functions, s)
	}
	return
}

func parseBuild(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if _, err := constraint.Parse("//go:build " + expr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuild, err)
	}
	return expr, nil
}

func directives(fset *token.FileSet, cg *ast.CommentGroup) (ds []directive) {
	if cg == nil {
		return
	}
	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		name, args, _ := strings.Cut(strings.TrimPrefix(c.Text, directivePrefix), " ")
		ds = append(ds, directive{name: name, args: strings.TrimSpace(args), pos: fset.Position(c.Pos())})
	}
	return
}

func docOf(g *ast.GenDecl, doc *ast.CommentGroup) string {
	if doc == nil && len(g.Specs) == 1 {
		doc = g.Doc
	}
	return doc.Text()
}
