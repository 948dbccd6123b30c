package decl

import (
	"fmt"

	"github.com/ZenLiuCN/lazylink"
)

// Group is a binding group: the functions of every block sharing one effective identity.
type Group struct {
	Key       uint64
	Seq       int
	Identity  lazylink.Identity
	Blocks    []string
	Doc       string //docs of the blocks
	Functions []Signature
}

// Identity is the effective identity of b inside m:
// the block override, then the module identity, then the usable ambient hint.
func Identity(m *Module, b *Block) lazylink.Identity {
	switch {
	case b.Options.Identity.IsResolved():
		return b.Options.Identity
	case m.Options.Identity.IsResolved():
		return m.Options.Identity
	case b.Hint.Usable():
		return lazylink.ShortName(b.Hint.Name)
	default:
		return lazylink.Identity{}
	}
}

// Organize validate m and collapse its blocks into groups in order of first appearance.
// Block build constraints and docs are inherited by each function, block docs are also kept by the group.
func Organize(m *Module) (gs []*Group, err error) {
	if m.Options.Include.Kind != IncludeNone {
		return nil, errorf(pos(m.File), "package "+m.Package, fmt.Errorf("include %s not expanded", m.Options.Include.Path))
	}
	byId := make(map[lazylink.Identity]*Group)
	seen := make(map[string]Signature)
	for i := range m.Blocks {
		b := &m.Blocks[i]
		id := Identity(m, b)
		if !id.IsResolved() {
			return nil, errorf(b.Pos, b.Name, ErrUnresolved)
		}
		g, ok := byId[id]
		if !ok {
			g = &Group{Seq: len(gs), Identity: id}
			g.Key = lazylink.GroupKey(m.KeyNamespace(), g.Seq, id)
			byId[id] = g
			gs = append(gs, g)
		}
		g.Blocks = append(g.Blocks, b.Name)
		g.Doc += b.Doc
		for _, s := range b.Functions {
			if x, ok := seen[s.Name]; ok {
				return nil, errorf(s.Pos, b.Name+"."+s.Name, fmt.Errorf("%w at %s", ErrDuplicate, x.Pos))
			}
			seen[s.Name] = s
			s.Build = andBuild(b.Build, s.Build)
			s.Doc = joinDoc(b.Doc, s.Doc)
			g.Functions = append(g.Functions, s)
		}
	}
	return
}

// joinDoc put the block doc a as leading paragraph of the function doc b.
func joinDoc(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n" + b
	}
}

func andBuild(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	default:
		return "(" + a + ") && (" + b + ")"
	}
}
