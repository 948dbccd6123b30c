package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZenLiuCN/lazylink"
	"github.com/ZenLiuCN/lazylink/decl"
	"github.com/ZenLiuCN/lazylink/gen"
	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Usage = "lazy dynamic library binding generator"
	app.Name = "lazylink"
	app.Description = "generate lazily bound Go wrappers from declaration files, and inspect or check their groups"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}},
	}
	app.Before = func(ctx *cli.Context) error {
		if ctx.Bool("debug") {
			lazylink.Debug = true
		}
		return nil
	}
	pathFlags := []cli.Flag{
		&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "project root of include, default LAZYLINK_ROOT or the go.mod directory"},
		&cli.StringFlag{Name: "outdir", Usage: "base of include_outdir, default LAZYLINK_OUTDIR or the output directory"},
		&cli.StringFlag{Name: "pkg", Aliases: []string{"k"}, Usage: "import path of the generated package, used as group key namespace"},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "generate",
			Action: generate,
			Usage:  "generate wrappers of a declaration file",
			Flags: append([]cli.Flag{
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, default <decl>_lazy.go"},
				&cli.StringFlag{Name: "package", Aliases: []string{"p"}, Usage: "package name, default the declaration package"},
				&cli.BoolFlag{Name: "fatal", Usage: "terminate the process when a group fails instead of panic"},
			}, pathFlags...),
			Args: true,
		},
		{
			Name:   "inspect",
			Action: inspect,
			Usage:  "display the binding groups of declaration files",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{Name: "dump", Usage: "dump the organized model"},
			}, pathFlags...),
			Args: true,
		},
		{
			Name:   "check",
			Action: check,
			Usage:  "open the libraries of declaration files and look up every symbol",
			Flags:  pathFlags,
			Args:   true,
		},
		{
			Name:   "libname",
			Action: libname,
			Usage:  "display the platform file name of short library names",
			Args:   true,
		},
	}
	return app
}

func load(ctx *cli.Context, file, outDir string) (m *decl.Module, gs []*decl.Group, err error) {
	if m, err = decl.ParseFile(file); err != nil {
		return
	}
	m.Namespace = ctx.String("pkg")
	p := decl.DefaultPaths(file)
	if r := ctx.String("root"); r != "" {
		p.Root = r
	}
	if o := ctx.String("outdir"); o != "" {
		p.OutDir = o
	} else if p.OutDir == "" {
		p.OutDir = outDir
	}
	if m, err = decl.Expand(m, p); err != nil {
		return
	}
	gs, err = decl.Organize(m)
	return
}

func generate(ctx *cli.Context) (err error) {
	d := ctx.Bool("debug")
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("expect one declaration file")
	}
	file := ctx.Args().First()
	out := ctx.String("output")
	if out == "" {
		out = strings.TrimSuffix(file, ".go") + "_lazy.go"
	}
	m, gs, err := load(ctx, file, filepath.Dir(out))
	if err != nil {
		return
	}
	cfg := gen.Config{Package: ctx.String("package"), Namespace: m.Namespace}
	if ctx.Bool("fatal") {
		cfg.Policy = lazylink.PolicyFatal
	}
	files, err := gen.Generate(m, gs, cfg)
	if err != nil {
		return
	}
	base := strings.TrimSuffix(out, ".go")
	for _, f := range files {
		name := out
		if f.Name != "" {
			name = base + "_" + f.Name + ".go"
		}
		if err = os.WriteFile(name, f.Source, 0644); err != nil {
			return
		}
		if d {
			log.Printf("generated %s (build %q)", name, f.Build)
		}
	}
	return
}

func inspect(ctx *cli.Context) (err error) {
	sp := spew.NewDefaultConfig()
	sp.MaxDepth = 5
	for _, s := range ctx.Args().Slice() {
		var m *decl.Module
		var gs []*decl.Group
		if m, gs, err = load(ctx, s, ""); err != nil {
			return
		}
		if ctx.Bool("dump") {
			sp.Dump(m, gs)
			continue
		}
		log.Printf("\n%s", describe(s, gs))
	}
	return
}

func describe(file string, gs []*decl.Group) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "%s:\n", file)
	for _, g := range gs {
		name, _ := g.Identity.Resolve()
		fmt.Fprintf(b, "\tgroup %d %x %s => %s [%s]\n", g.Seq, g.Key, g.Identity, name, strings.Join(g.Blocks, ", "))
		for _, f := range g.Functions {
			fmt.Fprintf(b, "\t\t%s => %s", f.Name, f.SymbolName())
			if f.Build != "" {
				fmt.Fprintf(b, " (%s)", f.Build)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func check(ctx *cli.Context) (err error) {
	var errs []error
	for _, s := range ctx.Args().Slice() {
		var gs []*decl.Group
		if _, gs, err = load(ctx, s, ""); err != nil {
			return
		}
		for _, g := range gs {
			fs := g.Host()
			syms := make([]string, 0, len(fs))
			for _, f := range fs {
				syms = append(syms, f.SymbolName())
			}
			if e := lazylink.Probe(lazylink.System, g.Identity, syms...); e != nil {
				errs = append(errs, e)
				log.Printf("%s: %s failed:\n%v", s, g.Identity, e)
			} else {
				log.Printf("%s: %s ok, %d symbols", s, g.Identity, len(syms))
			}
		}
	}
	return errors.Join(errs...)
}

func libname(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("missing library names")
	}
	for _, s := range ctx.Args().Slice() {
		fmt.Println(lazylink.LibraryFilename(s))
	}
	return nil
}
