package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// genExpr compiles n, leaving exactly one value on the stack, and
// returns its static type (§4.5 "Expressions"). expected is the type
// context a bare `null` literal resolves against (e.g. a var
// declaration's annotation); it is nil everywhere a null literal would
// be meaningless.
func (g *Generator) genExpr(n *ast.Node, expected *symbols.Sym) *symbols.Sym {
	g.pos(n)
	switch n.Kind {
	case ast.KBoolLit:
		if n.Bool {
			g.Chunk.EmitOp(script.OpPushTrue)
		} else {
			g.Chunk.EmitOp(script.OpPushFalse)
		}
		return SysBool

	case ast.KNumberLit:
		g.Chunk.EmitOp(script.OpPushN)
		g.Chunk.EmitU16(g.Chunk.InternNumber(n.Num))
		return SysNumber

	case ast.KStringLit:
		g.Chunk.EmitOp(script.OpPushS)
		g.Chunk.EmitU16(g.Chunk.InternString(n.Str))
		return SysString

	case ast.KNull:
		if expected == nil {
			g.fail(diagnostics.ErrValueIsVoid, n, "null has no inferrable type here")
		}
		g.Chunk.EmitOp(script.OpPushNil)
		g.Chunk.EmitU16(primitiveTyID(expected))
		return expected

	case ast.KIdent:
		return g.genIdentLoad(n)

	case ast.KPrefix:
		return g.genPrefix(n)

	case ast.KInfix:
		return g.genInfix(n)

	case ast.KAssign:
		return g.genAssign(n)

	case ast.KDot:
		return g.genDotLoad(n)

	case ast.KCall:
		return g.genCall(n)

	case ast.KIfExpr:
		return g.genIf(n, false)

	case ast.KIndex:
		g.fail(diagnostics.ErrTypeMismatch, n, "indexing is not supported: this language has no indexable runtime type")
	}
	g.fail(diagnostics.ErrTypeMismatch, n, "%s cannot appear in expression position", n.Kind)
	return nil
}

func (g *Generator) genIdentLoad(n *ast.Node) *symbols.Sym {
	sym := g.lookup(n, n.Ident)
	if sym.Kind != symbols.KindVar && sym.Kind != symbols.KindLet {
		g.fail(diagnostics.ErrSymKindMismatch, n, "%q is not a variable", n.Ident)
	}
	if sym.Local {
		g.Chunk.EmitOp(script.OpPushL)
		g.Chunk.EmitU8(sym.StackPos)
	} else {
		g.Chunk.EmitOp(script.OpPushG)
		g.Chunk.EmitU16(g.Chunk.InternString(n.Ident))
	}
	return sym.Ty
}

func (g *Generator) genPrefix(n *ast.Node) *symbols.Sym {
	operand := g.genExpr(n.Children[0], nil)
	g.pos(n)
	switch {
	case n.Op == "-" && operand == SysNumber:
		g.Chunk.EmitOp(script.OpNegN)
		return SysNumber
	case n.Op == "!" && operand == SysBool:
		g.Chunk.EmitOp(script.OpInvB)
		return SysBool
	}
	return g.callOperatorOverload(n, n.Op, []*symbols.Sym{operand})
}

func (g *Generator) genInfix(n *ast.Node) *symbols.Sym {
	if n.Op == "||" || n.Op == "&&" {
		return g.genShortCircuit(n)
	}

	left := g.genExpr(n.Children[0], nil)
	right := g.genExpr(n.Children[1], nil)
	g.pos(n)

	if left == SysNumber && right == SysNumber {
		switch n.Op {
		case "+":
			g.Chunk.EmitOp(script.OpAddN)
			return SysNumber
		case "-":
			g.Chunk.EmitOp(script.OpSubN)
			return SysNumber
		case "*":
			g.Chunk.EmitOp(script.OpMultN)
			return SysNumber
		case "/":
			g.Chunk.EmitOp(script.OpDivN)
			return SysNumber
		case "<":
			g.Chunk.EmitOp(script.OpLessN)
			return SysBool
		case ">":
			g.Chunk.EmitOp(script.OpGreaterN)
			return SysBool
		case "==":
			g.Chunk.EmitOp(script.OpEqN)
			return SysBool
		}
	}
	if left == SysBool && right == SysBool && n.Op == "==" {
		g.Chunk.EmitOp(script.OpEqB)
		return SysBool
	}

	return g.callOperatorOverload(n, n.Op, []*symbols.Sym{left, right})
}

// genShortCircuit implements `||`/`&&` per §4.5: evaluate the left
// operand; a jumpFwdT (jumpFwdF for `&&`) skips over a discard of that
// value plus the right-hand subexpression when short-circuiting applies,
// leaving the left value as the result.
func (g *Generator) genShortCircuit(n *ast.Node) *symbols.Sym {
	left := g.genExpr(n.Children[0], nil)
	if left != SysBool {
		g.fail(diagnostics.ErrTypeMismatch, n, "operand of %q must be bool", n.Op)
	}
	g.pos(n)
	if n.Op == "||" {
		g.Chunk.EmitOp(script.OpJumpFwdT)
	} else {
		g.Chunk.EmitOp(script.OpJumpFwdF)
	}
	hole := g.Chunk.EmitHole()
	g.Chunk.EmitOp(script.OpDiscard)
	right := g.genExpr(n.Children[1], nil)
	if right != SysBool {
		g.fail(diagnostics.ErrTypeMismatch, n, "operand of %q must be bool", n.Op)
	}
	g.Chunk.PatchHoleU16(hole)
	return SysBool
}

// callOperatorOverload resolves op as a procedure name in the current
// scope and compiles a call to it with the already-generated operand
// values on the stack (§4.5 "else call the resolved overloaded
// procedure").
func (g *Generator) callOperatorOverload(n *ast.Node, op string, argTypes []*symbols.Sym) *symbols.Sym {
	callee := symbols.Lookup(g.Scope, g.Context, op)
	if callee == nil {
		g.fail(diagnostics.ErrUndefinedReference, n, "no builtin or overload of operator %q for this operand type", op)
	}
	proc, cerr := symbols.ResolveOverload(callee, argTypes, n.File, n.Line, n.Col)
	if cerr != nil {
		panic(cerr)
	}
	g.pos(n)
	g.Chunk.EmitOp(script.OpCallD)
	g.Chunk.EmitU16(proc.ProcID)
	if proc.ReturnTy == nil {
		return SysVoid
	}
	return proc.ReturnTy
}

func (g *Generator) genDotLoad(n *ast.Node) *symbols.Sym {
	recvTy := g.genExpr(n.Children[0], nil)
	g.pos(n)
	if recvTy.Kind != symbols.KindType || recvTy.TypeKind != symbols.TObject {
		g.fail(diagnostics.ErrInvalidField, n, "%q is not an object", recvTy.Name)
	}
	field, ok := recvTy.FieldByName(n.Ident)
	if !ok {
		g.fail(diagnostics.ErrNonExistentField, n, "%q has no field %q", recvTy.Name, n.Ident)
	}
	g.Chunk.EmitOp(script.OpPushF)
	g.Chunk.EmitU8(uint8(field.ID))
	return field.Ty
}

// genCall handles both procedure calls and object constructors, and the
// generic-reference form produced by parseIndexOrGeneric (§4.5 "Call").
func (g *Generator) genCall(n *ast.Node) *symbols.Sym {
	calleeNode, genericArgs, args := ast.SplitCall(n)
	callee := g.resolveCallee(calleeNode, genericArgs)

	if callee.Kind == symbols.KindType {
		return g.genObjectConstructor(n, callee, args)
	}

	argTypes := make([]*symbols.Sym, len(args))
	for i, a := range args {
		argTypes[i] = g.genExpr(a, nil)
	}
	g.pos(n)
	proc, cerr := symbols.ResolveOverload(callee, argTypes, n.File, n.Line, n.Col)
	if cerr != nil {
		panic(cerr)
	}
	g.Chunk.EmitOp(script.OpCallD)
	g.Chunk.EmitU16(proc.ProcID)
	if proc.ReturnTy == nil {
		return SysVoid
	}
	return proc.ReturnTy
}

// resolveCallee resolves the callee of a call, instantiating a generic
// template when genericArgs is non-empty (§4.3 "Lookup").
func (g *Generator) resolveCallee(n *ast.Node, genericArgs []*ast.Node) *symbols.Sym {
	var base *symbols.Sym
	switch n.Kind {
	case ast.KIdent:
		base = g.lookup(n, n.Ident)
	case ast.KCall:
		innerCallee, innerGeneric, innerArgs := ast.SplitCall(n)
		if len(innerArgs) != 0 {
			g.fail(diagnostics.ErrNotAProc, n, "unsupported callee expression")
		}
		return g.resolveCallee(innerCallee, innerGeneric)
	default:
		g.fail(diagnostics.ErrNotAProc, n, "%s cannot be called", n.Kind)
	}

	if len(genericArgs) == 0 {
		if base.IsTemplate() {
			g.fail(diagnostics.ErrCouldNotInferGeneric, n, "%q is generic; reference it as %s[...]", base.Name, base.Name)
		}
		return base
	}

	args := make([]*symbols.Sym, len(genericArgs))
	for i, a := range genericArgs {
		args[i] = g.resolveTypeArg(a)
	}
	return g.instantiate(base, args, n)
}

func (g *Generator) resolveTypeArg(n *ast.Node) *symbols.Sym {
	if n.Kind != ast.KIdent {
		g.fail(diagnostics.ErrTypeMismatch, n, "generic argument must be a type name")
	}
	sym := g.lookup(n, n.Ident)
	if sym.Kind != symbols.KindType && sym.Kind != symbols.KindGenericParam {
		g.fail(diagnostics.ErrTypeMismatch, n, "%q is not a type", n.Ident)
	}
	return sym
}

// genObjectConstructor implements §4.5 "Object constructor": every
// field must be initialized exactly once, values are evaluated in
// field-declaration order regardless of source order.
func (g *Generator) genObjectConstructor(n *ast.Node, ty *symbols.Sym, args []*ast.Node) *symbols.Sym {
	values := make([]*ast.Node, len(ty.Fields))
	seen := make([]bool, len(ty.Fields))
	for _, a := range args {
		if a.Kind != ast.KColonExpr {
			g.fail(diagnostics.ErrFieldInitMustBeAColonExpr, a, "object field initializers must be `name: value`")
		}
		field, ok := ty.FieldByName(a.Ident)
		if !ok {
			g.fail(diagnostics.ErrNoSuchField, a, "%q has no field %q", ty.Name, a.Ident)
		}
		if seen[field.ID] {
			g.fail(diagnostics.ErrNoSuchField, a, "field %q initialized more than once", a.Ident)
		}
		seen[field.ID] = true
		values[field.ID] = a.Children[0]
	}
	for i, ok := range seen {
		if !ok {
			g.fail(diagnostics.ErrObjectFieldsMustBeInitialized, n, "missing initializer for field %q of %q", ty.Fields[i].Name, ty.Name)
		}
	}

	for i, field := range ty.Fields {
		vt := g.genExpr(values[i], field.Ty)
		if !symbols.SameType(vt, field.Ty) {
			g.fail(diagnostics.ErrTypeMismatch, values[i], "field %q of %q expects %s, got %s", field.Name, ty.Name, field.Ty.Name, vt.Name)
		}
	}
	g.pos(n)
	g.Chunk.EmitOp(script.OpConstrObj)
	g.Chunk.EmitU16(primitiveTyID(ty))
	g.Chunk.EmitU8(uint8(len(ty.Fields)))
	return ty
}

// genIf compiles `if`/`elif`/`else` (§4.5 "if"). asStmt selects statement
// mode, where bodies need not agree on type and a missing else is
// allowed, from expression mode, where every arm (including else) must
// agree and a missing else is a type error.
func (g *Generator) genIf(n *ast.Node, asStmt bool) *symbols.Sym {
	conds, bodies, elseBody := ast.IfArms(n)
	if !asStmt && elseBody == nil {
		g.fail(diagnostics.ErrTypeMismatch, n, "if-expression without else has no value in one branch")
	}

	var endHoles []int
	var resultTy *symbols.Sym
	for i := range conds {
		condTy := g.genExpr(conds[i], nil)
		if condTy != SysBool {
			g.fail(diagnostics.ErrTypeMismatch, conds[i], "if condition must be bool")
		}
		g.pos(conds[i])
		g.Chunk.EmitOp(script.OpJumpFwdF)
		skipHole := g.Chunk.EmitHole()
		g.Chunk.EmitOp(script.OpDiscard)

		bodyTy := g.genBody(bodies[i], asStmt)
		if !asStmt {
			if resultTy == nil {
				resultTy = bodyTy
			} else if !symbols.SameType(resultTy, bodyTy) {
				g.fail(diagnostics.ErrTypeMismatch, bodies[i], "if-expression arms disagree on type")
			}
		}
		g.Chunk.EmitOp(script.OpJumpFwd)
		endHoles = append(endHoles, g.Chunk.EmitHole())
		g.Chunk.PatchHoleU16(skipHole)
		g.Chunk.EmitOp(script.OpDiscard)
	}

	if elseBody != nil {
		bodyTy := g.genBody(elseBody, asStmt)
		if !asStmt && !symbols.SameType(resultTy, bodyTy) {
			g.fail(diagnostics.ErrTypeMismatch, elseBody, "if-expression else arm disagrees on type")
		}
	} else if !asStmt {
		g.fail(diagnostics.ErrValueIsVoid, n, "if-expression without else has no value")
	}

	for _, h := range endHoles {
		g.Chunk.PatchHoleU16(h)
	}
	if asStmt {
		return nil
	}
	return resultTy
}

// genBody compiles a block as either a statement sequence or, in
// expression mode, a block whose final statement's value is the block's
// value (blocks are always parsed as KBlock with KExprStmt/etc children).
func (g *Generator) genBody(block *ast.Node, asStmt bool) *symbols.Sym {
	if asStmt {
		g.genBlock(block)
		return nil
	}
	return g.genBlockExpr(block)
}
