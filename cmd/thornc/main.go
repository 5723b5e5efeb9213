// thornc reads Thorn source, runs it through the scan/parse/codegen
// pipeline, and either writes a compiled .thornb file or prints a
// disassembly, in the spirit of the teacher's cmd/funxy front end
// (funvibe-funxy/cmd/funxy/main.go) but pared down to this module's
// narrower scope: there is no VM here to run the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/codegen"
	"github.com/thornlang/thornc/internal/disasm"
	"github.com/thornlang/thornc/internal/lexer"
	"github.com/thornlang/thornc/internal/parser"
	"github.com/thornlang/thornc/internal/script"
)

func main() {
	disasmFlag := flag.Bool("d", false, "print disassembly instead of writing a .thornb file")
	outFlag := flag.String("o", "", "output .thornb path (default: input with .thornb extension)")
	projectFlag := flag.String("project", "", "path to a thorn.mod.yaml project file")
	flag.Parse()

	args := flag.Args()
	if *projectFlag == "" && len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: thornc [-d] [-o out.thornb] [-project thorn.mod.yaml] <file.thorn>")
		os.Exit(2)
	}

	var sourcePaths []string
	var proj *Project
	if *projectFlag != "" {
		p, err := LoadProject(*projectFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "thornc: %s\n", err)
			os.Exit(1)
		}
		proj = p
		sourcePaths = proj.Sources
	} else {
		sourcePaths = args
	}

	sc, chunk, err := compileFiles(sourcePaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if proj != nil {
		for _, f := range proj.Foreign {
			sc.AddForeignProc(f.Name, f.paramSpecs(), f.Return, unimplementedForeign(f.Name))
		}
	}

	if *disasmFlag {
		writeDisassembly(os.Stdout, sc, chunk)
		return
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = defaultOutPath(sourcePaths)
	}
	if err := WriteThornb(outPath, sc); err != nil {
		fmt.Fprintf(os.Stderr, "thornc: writing %s: %s\n", outPath, err)
		os.Exit(1)
	}
}

// compileFiles concatenates every source file's program into one
// top-level statement list and runs it through the pipeline as a
// single module, matching §3.5 "one source file populates one module"
// generalized to the project file's multi-file build list.
func compileFiles(paths []string) (*script.Script, *script.Chunk, error) {
	var stmts []*ast.Node
	var first *ast.Node
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("thornc: reading %s: %w", path, err)
		}
		prog, err := parseFile(path, string(src))
		if err != nil {
			return nil, nil, err
		}
		if first == nil {
			first = prog
		}
		stmts = append(stmts, prog.Children...)
	}
	program := ast.NewProgram(first.File, first.Line, first.Col, stmts)

	moduleName := strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
	sc, chunk, cerr := codegen.Generate(program, moduleName)
	if cerr != nil {
		return nil, nil, cerr
	}
	return sc, chunk, nil
}

func parseFile(path, src string) (*ast.Node, error) {
	lex := lexer.New(path, src)
	stream := lexer.NewTokenStream(lex)
	p := parser.New(path, stream)
	prog, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func writeDisassembly(w *os.File, sc *script.Script, topChunk *script.Chunk) {
	text := "== top level ==\n" + chunkBody(topChunk) + disasm.Script(sc)
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		text = colorize(text)
	}
	fmt.Fprint(w, text)
}

func chunkBody(c *script.Chunk) string {
	full := disasm.Chunk(c, "top level")
	if i := strings.IndexByte(full, '\n'); i >= 0 {
		return full[i+1:]
	}
	return full
}

func defaultOutPath(sourcePaths []string) string {
	base := sourcePaths[0]
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".thornb"
}

func unimplementedForeign(name string) script.ForeignFunc {
	return func(args []any) (any, error) {
		return nil, fmt.Errorf("foreign procedure %q has no host binding in this build", name)
	}
}
