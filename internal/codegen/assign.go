package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// genAssign implements §4.5 "Assignment". An assignment is a statement
// of type void: it never leaves a value on the stack, matching the
// convention genExpr callers rely on (a SysVoid result means nothing was
// pushed).
func (g *Generator) genAssign(n *ast.Node) *symbols.Sym {
	lhs, rhs := n.Children[0], n.Children[1]

	switch lhs.Kind {
	case ast.KIdent:
		sym := g.lookup(lhs, lhs.Ident)
		if sym.Kind != symbols.KindVar && sym.Kind != symbols.KindLet {
			g.fail(diagnostics.ErrInvalidAssignment, n, "%q is not assignable", lhs.Ident)
		}
		if sym.Kind == symbols.KindLet && sym.Set {
			g.fail(diagnostics.ErrLetReassignment, n, "%q is declared let and cannot be reassigned", lhs.Ident)
		}
		rhsTy := g.genExpr(rhs, sym.Ty)
		if !symbols.SameType(rhsTy, sym.Ty) {
			g.fail(diagnostics.ErrTypeMismatch, rhs, "cannot assign %s to %q of type %s", rhsTy.Name, lhs.Ident, sym.Ty.Name)
		}
		g.pos(n)
		sym.Set = true
		if sym.Local {
			g.Chunk.EmitOp(script.OpPopL)
			g.Chunk.EmitU8(sym.StackPos)
		} else {
			g.Chunk.EmitOp(script.OpPopG)
			g.Chunk.EmitU16(g.Chunk.InternString(lhs.Ident))
		}
		return SysVoid

	case ast.KDot:
		recvTy := g.genExpr(lhs.Children[0], nil)
		if recvTy.Kind != symbols.KindType || recvTy.TypeKind != symbols.TObject {
			g.fail(diagnostics.ErrInvalidField, n, "%q is not an object", recvTy.Name)
		}
		field, ok := recvTy.FieldByName(lhs.Ident)
		if !ok {
			g.fail(diagnostics.ErrNonExistentField, n, "%q has no field %q", recvTy.Name, lhs.Ident)
		}
		rhsTy := g.genExpr(rhs, field.Ty)
		if !symbols.SameType(rhsTy, field.Ty) {
			g.fail(diagnostics.ErrTypeMismatch, rhs, "cannot assign %s to field %q of type %s", rhsTy.Name, lhs.Ident, field.Ty.Name)
		}
		g.pos(n)
		g.Chunk.EmitOp(script.OpPopF)
		g.Chunk.EmitU8(uint8(field.ID))
		return SysVoid

	default:
		g.fail(diagnostics.ErrInvalidAssignment, n, "invalid assignment target")
		return nil
	}
}
