// Package codegen implements the code generator (§4.5–§4.6): expression
// and statement generation, procedure/object/iterator declaration
// compilation, and the for-loop iterator-splicing pass. Grounded on the
// teacher's vm.Compiler (funvibe-funxy/internal/vm/compiler.go,
// compiler_scope.go, compiler_loops.go) for the emit/scope/loop-stack
// shape, generalized from the teacher's closure/upvalue machinery (this
// language has no closures) to the spec's simpler local-slot model.
package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// Kind distinguishes what a Generator is compiling, mirroring the
// teacher's FunctionType (TYPE_SCRIPT / TYPE_FUNCTION) but with a third
// variant for iterator bodies, which the for-loop splice needs to tell
// apart from plain procedures (§4.6).
type Kind int

const (
	GenScript Kind = iota
	GenProc
	GenIterator
)

// Generator holds everything one compilation unit's code generation
// needs: the chunk being emitted into, the active scope chain, the
// current scope context (§5), and the flow-block stack used by
// break/continue/yield (§4.5, §4.6).
type Generator struct {
	Kind Kind

	Script *script.Script
	Chunk  *script.Chunk
	Module *symbols.Module
	Scope  *symbols.Scope

	Contexts *symbols.ContextAllocator
	Context  symbols.ContextID

	// ReturnTy is the expected procedure return type (nil = void). For a
	// GenIterator, YieldTy is the expected yield type instead.
	ReturnTy *symbols.Sym
	YieldTy  *symbols.Sym

	FlowStack []*FlowBlock

	// LocalDepth counts locals currently resident on the stack, used to
	// compute how many slots break/continue must discard (§4.5 "break").
	// NextStackPos is the next free local slot.
	LocalDepth   int
	NextStackPos uint8

	// Set only while this generator is an iterator being spliced into a
	// caller's for-loop body (§4.6 steps 2–8).
	IterForBody *ast.Node
	IterForVar  string
	IterForCtx  symbols.ContextID
	splicing    bool
}

// newGenerator builds a fresh generator with its own chunk, emitting into
// sc and resolving names from mod's root scope in the root context.
func newGenerator(kind Kind, sc *script.Script, mod *symbols.Module, contexts *symbols.ContextAllocator) *Generator {
	return &Generator{
		Kind:     kind,
		Script:   sc,
		Chunk:    script.NewChunk(),
		Module:   mod,
		Scope:    mod.Scope,
		Contexts: contexts,
		Context:  symbols.RootContext,
	}
}

// clone produces a sub-generator of the given kind sharing this
// generator's script, module, and context allocator, but with its own
// chunk and a fresh module-rooted scope. compileProcBody uses it for
// procedure bodies; the for-loop splice builds its iterator generator
// directly in genFor instead, since that one shares the caller's chunk.
func (g *Generator) clone(kind Kind) *Generator {
	return newGenerator(kind, g.Script, g.Module, g.Contexts)
}

// pos stamps the chunk's current emission position from n (§3.3).
func (g *Generator) pos(n *ast.Node) {
	g.Chunk.SetPos(n.File, n.Line, n.Col)
}

func (g *Generator) fail(code diagnostics.Code, n *ast.Node, format string, args ...any) {
	panic(diagnostics.NewCompileError(code, n.File, n.Line, n.Col, format, args...))
}

// pushScope opens a child scope, inheriting the current context.
func (g *Generator) pushScope() *symbols.Scope {
	s := symbols.NewChildScope(g.Scope)
	g.Scope = s
	return s
}

// popScope closes the current scope, emitting `nDiscard <n>` for the
// locals it declared (§4.5 "block") and restoring parent, unless the
// scope declared nothing.
func (g *Generator) popScope() {
	s := g.Scope
	n := 0
	for _, sym := range s.Syms {
		if sym.Local {
			n++
		}
	}
	if n > 0 {
		g.Chunk.EmitOp(script.OpNDiscard)
		g.Chunk.EmitU8(uint8(n))
		g.LocalDepth -= n
		g.NextStackPos -= uint8(n)
	}
	g.Scope = s.Parent
}

// declareLocal binds name to sym in the current scope as a stack-resident
// local, assigning its slot and bumping the live-local bookkeeping.
func (g *Generator) declareLocal(n *ast.Node, name string, sym *symbols.Sym) {
	sym.Local = true
	sym.StackPos = g.NextStackPos
	g.NextStackPos++
	g.LocalDepth++
	if cerr := g.Scope.Add(name, sym, true); cerr != nil {
		panic(withPos(cerr, n))
	}
}

func withPos(e *diagnostics.CompileError, n *ast.Node) *diagnostics.CompileError {
	return diagnostics.NewCompileError(e.Code, n.File, n.Line, n.Col, "%s", e.Message)
}

func (g *Generator) lookup(n *ast.Node, name string) *symbols.Sym {
	sym := symbols.Lookup(g.Scope, g.Context, name)
	if sym == nil {
		g.fail(diagnostics.ErrUndefinedReference, n, "undefined reference: %q", name)
	}
	return sym
}
