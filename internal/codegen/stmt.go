package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// genStmt compiles one statement. Every statement-position form leaves
// the stack exactly as it found it: expression statements discard their
// value (unless it is void, in which case genExpr left nothing to
// discard), and declarations account for their own locals.
func (g *Generator) genStmt(n *ast.Node) {
	switch n.Kind {
	case ast.KBlock:
		g.genBlock(n)
	case ast.KVarDecl:
		g.genVarDecl(n)
	case ast.KProcDecl:
		g.genProcDecl(n)
	case ast.KIteratorDecl:
		g.genIteratorDecl(n)
	case ast.KObjectDecl:
		g.genObjectDecl(n)
	case ast.KWhileStmt:
		g.genWhile(n)
	case ast.KForStmt:
		g.genFor(n)
	case ast.KBreakStmt:
		g.genBreak(n)
	case ast.KContinueStmt:
		g.genContinue(n)
	case ast.KReturnStmt:
		g.genReturn(n)
	case ast.KYieldStmt:
		g.genYield(n)
	case ast.KExprStmt:
		g.genExprStmt(n)
	default:
		g.fail(diagnostics.ErrTypeMismatch, n, "%s cannot appear in statement position", n.Kind)
	}
}

func (g *Generator) genExprStmt(n *ast.Node) {
	expr := n.Children[0]
	if expr.Kind == ast.KIfExpr {
		g.genIf(expr, true)
		return
	}
	ty := g.genExpr(expr, nil)
	if ty != nil && ty != SysVoid {
		g.pos(n)
		g.Chunk.EmitOp(script.OpDiscard)
	}
}

// genBlock compiles a block in statement mode (§4.5 "block").
func (g *Generator) genBlock(n *ast.Node) {
	g.pushScope()
	for _, stmt := range n.Children {
		g.genStmt(stmt)
	}
	g.popScope()
}

// genBlockExpr compiles a block in expression mode: every statement but
// the last is generated as a statement; the last, if an expression
// statement, supplies the block's value.
func (g *Generator) genBlockExpr(n *ast.Node) *symbols.Sym {
	g.pushScope()
	var resultTy *symbols.Sym
	for i, stmt := range n.Children {
		if i == len(n.Children)-1 && stmt.Kind == ast.KExprStmt {
			resultTy = g.genExpr(stmt.Children[0], nil)
			break
		}
		g.genStmt(stmt)
	}
	if resultTy == nil {
		g.fail(diagnostics.ErrValueIsVoid, n, "block used in expression position must end with an expression")
	}
	g.popScope()
	return resultTy
}

// genVarDecl implements §4.5 "var/let decl": every declaration must have
// a value; the optional annotation, when present, must match it.
func (g *Generator) genVarDecl(n *ast.Node) {
	typeAnnNode, valueNode := ast.VarDeclParts(n)
	if valueNode == nil {
		g.fail(diagnostics.ErrVarMustHaveValue, n, "%s must have a value", declWord(n))
	}
	var expected *symbols.Sym
	if typeAnnNode != nil {
		expected = g.resolveTypeRef(typeAnnNode)
	}
	valueTy := g.genExpr(valueNode, expected)
	if expected != nil && !symbols.SameType(expected, valueTy) {
		g.fail(diagnostics.ErrTypeMismatch, valueNode, "declared type %s does not match value type %s", expected.Name, valueTy.Name)
	}
	for _, name := range n.Names {
		sym := &symbols.Sym{Name: name, Kind: symbols.KindVar, Ty: valueTy, Set: true}
		if n.IsLet {
			sym.Kind = symbols.KindLet
		}
		g.pos(n)
		g.declareLocal(n, name, sym)
		g.Chunk.EmitOp(script.OpPopL)
		g.Chunk.EmitU8(sym.StackPos)
	}
}

func declWord(n *ast.Node) string {
	if n.IsLet {
		return "let"
	}
	return "var"
}

// resolveTypeRef converts a KTypeRef/KIdent type annotation node into its
// Sym, instantiating a generic type reference when type arguments are
// present.
func (g *Generator) resolveTypeRef(n *ast.Node) *symbols.Sym {
	base := g.lookup(n, n.Ident)
	if len(n.Children) == 0 {
		if base.IsTemplate() {
			g.fail(diagnostics.ErrCouldNotInferGeneric, n, "%q is generic; give type arguments", n.Ident)
		}
		return base
	}
	args := make([]*symbols.Sym, len(n.Children))
	for i, c := range n.Children {
		args[i] = g.resolveTypeRef(c)
	}
	return g.instantiate(base, args, n)
}

// genWhile implements §4.5 "while", including the literal-true/false
// special cases.
func (g *Generator) genWhile(n *ast.Node) {
	cond, body := n.Children[0], n.Children[1]

	if cond.Kind == ast.KBoolLit && !cond.Bool {
		return
	}

	loopTop := g.Chunk.Len()
	outer := g.pushFlow(LoopOuter, g.Context)

	literalTrue := cond.Kind == ast.KBoolLit && cond.Bool
	var exitHole int
	if !literalTrue {
		condTy := g.genExpr(cond, nil)
		if condTy != SysBool {
			g.fail(diagnostics.ErrTypeMismatch, cond, "while condition must be bool")
		}
		g.pos(cond)
		g.Chunk.EmitOp(script.OpJumpFwdF)
		exitHole = g.Chunk.EmitHole()
		g.Chunk.EmitOp(script.OpDiscard)
	}

	iter := g.pushFlow(LoopIter, g.Context)
	iter.HasLoopTop = true
	iter.LoopTop = loopTop
	g.genBlock(body)
	for _, h := range iter.ContinueHoles {
		g.Chunk.PatchHoleU16(h)
	}
	g.popFlow()

	g.Chunk.EmitOp(script.OpJumpBack)
	backOff := g.Chunk.EmitHole()
	g.Chunk.PatchBackJumpU16(backOff, loopTop)

	if !literalTrue {
		g.Chunk.PatchHoleU16(exitHole)
		g.Chunk.EmitOp(script.OpDiscard)
	}

	for _, h := range outer.BreakHoles {
		g.Chunk.PatchHoleU16(h)
	}
	g.popFlow()
}

// genReturn implements §4.5 "return".
func (g *Generator) genReturn(n *ast.Node) {
	if g.Kind != GenProc {
		g.fail(diagnostics.ErrOnlyUsableInAProc, n, "return is only usable inside a procedure")
	}
	var value *ast.Node
	if len(n.Children) > 0 {
		value = n.Children[0]
	}
	if value != nil {
		if g.ReturnTy == nil {
			g.fail(diagnostics.ErrTypeMismatch, value, "procedure has no return type")
		}
		vt := g.genExpr(value, g.ReturnTy)
		if !symbols.SameType(vt, g.ReturnTy) {
			g.fail(diagnostics.ErrTypeMismatch, value, "return value type %s does not match %s", vt.Name, g.ReturnTy.Name)
		}
		g.pos(n)
		g.Chunk.EmitOp(script.OpReturnVal)
		return
	}
	g.pos(n)
	if g.ReturnTy != nil {
		resultSym := symbols.Lookup(g.Scope, g.Context, "result")
		g.Chunk.EmitOp(script.OpPushL)
		g.Chunk.EmitU8(resultSym.StackPos)
		g.Chunk.EmitOp(script.OpReturnVal)
		return
	}
	g.Chunk.EmitOp(script.OpReturnVoid)
}
