package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// Generate compiles a parsed program into a Script (§3.4, §8.1 invariant
// 3: "the chunk always ends with exactly one halt opcode at top level").
// program is the KProgram node produced by the parser. Diagnostics abort
// generation via panic, mirroring the parser's abortParse convention;
// Generate recovers and returns the error instead of propagating it.
func Generate(program *ast.Node, moduleName string) (sc *script.Script, topChunk *script.Chunk, err *diagnostics.CompileError) {
	defer func() {
		if r := recover(); r != nil {
			cerr, ok := r.(*diagnostics.CompileError)
			if !ok {
				panic(r)
			}
			err = cerr
			sc, topChunk = nil, nil
		}
	}()

	mod := symbols.NewModule(moduleName)
	registerSystem(mod)

	sc = script.NewScript()
	g := newGenerator(GenScript, sc, mod, symbols.NewContextAllocator())
	topChunk = g.Chunk

	for _, stmt := range program.Children {
		g.genStmt(stmt)
	}
	g.pos(program)
	g.Chunk.EmitOp(script.OpHalt)

	return sc, topChunk, nil
}
