package parser

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/token"
)

// parseExpression is the Pratt loop: read one prefix expression, then
// keep consuming infix operators whose precedence exceeds the caller's
// minimum (§4.1 "Pratt expression parser").
func (p *Parser) parseExpression(minPrecedence int) *ast.Node {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.noPrefixFn(p.cur)
	}
	left := prefix()

	for minPrecedence < p.curPrecedence() {
		infix, ok := p.infixFns[p.cur.Kind]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNumberLit() *ast.Node {
	t := p.cur
	p.next()
	return ast.NewNumberLit(p.file, t.Line, t.Col, t.Num)
}

func (p *Parser) parseStringLit() *ast.Node {
	t := p.cur
	p.next()
	return ast.NewStringLit(p.file, t.Line, t.Col, t.Str)
}

func (p *Parser) parseBoolLit() *ast.Node {
	t := p.cur
	p.next()
	return ast.NewBoolLit(p.file, t.Line, t.Col, t.Kind == token.KW_TRUE)
}

func (p *Parser) parseNullLit() *ast.Node {
	t := p.cur
	p.next()
	return ast.NewNull(p.file, t.Line, t.Col)
}

func (p *Parser) parseIdent() *ast.Node {
	t := p.cur
	p.next()
	return ast.NewIdent(p.file, t.Line, t.Col, t.Lexeme)
}

func (p *Parser) parsePrefixOp() *ast.Node {
	t := p.cur
	op := t.Lexeme
	p.next()
	operand := p.parseExpression(token.PREFIX)
	return ast.NewPrefix(p.file, t.Line, t.Col, op, operand)
}

func (p *Parser) parseInfixOp(left *ast.Node) *ast.Node {
	t := p.cur
	op := t.Lexeme
	prec := t.Precedence
	p.next()
	p.skipNewlines()
	var right *ast.Node
	if !t.LeftAssoc {
		right = p.parseExpression(prec - 1)
	} else {
		right = p.parseExpression(prec)
	}
	return ast.NewInfix(p.file, t.Line, t.Col, op, left, right)
}

func (p *Parser) parseAssign(left *ast.Node) *ast.Node {
	t := p.cur
	p.next()
	p.skipNewlines()
	right := p.parseExpression(token.ASSIGNFAM - 1)
	return ast.NewAssign(p.file, t.Line, t.Col, left, right)
}

func (p *Parser) parseDot(left *ast.Node) *ast.Node {
	t := p.cur
	p.next()
	name := p.expect(token.IDENT)
	return ast.NewDot(p.file, t.Line, t.Col, left, name.Lexeme)
}

func (p *Parser) parseColonExpr(left *ast.Node) *ast.Node {
	t := p.cur
	// Only used inside call-argument lists for `name: value` initializers
	// (§4.5 "Object constructor"); left must be a bare identifier.
	if left.Kind != ast.KIdent {
		p.fail(t, "':' requires a name on its left, got %s", left.Kind)
	}
	p.next()
	p.skipNewlines()
	value := p.parseExpression(token.PIPE)
	return ast.NewColonExpr(p.file, t.Line, t.Col, left.Ident, value)
}

func (p *Parser) parseGrouped() *ast.Node {
	p.expect(token.LPAREN)
	p.skipNewlines()
	e := p.parseExpression(token.LOWEST)
	p.skipNewlines()
	p.expect(token.RPAREN)
	return e
}

// parseCall handles both procedure calls and object constructors
// (§4.5): `callee(arg, ...)` or `callee(name: value, ...)`.
func (p *Parser) parseCall(callee *ast.Node) *ast.Node {
	t := p.cur
	p.expect(token.LPAREN)
	var args []*ast.Node
	p.skipNewlines()
	for !p.curIs(token.RPAREN) {
		args = append(args, p.parseExpression(token.LOWEST))
		p.skipNewlines()
		if p.curIs(token.COMMA) {
			p.next()
			p.skipNewlines()
		}
	}
	p.expect(token.RPAREN)
	return ast.NewCall(p.file, t.Line, t.Col, callee, args, nil)
}

// parseIndexOrGeneric disambiguates `arr[i]` from a generic reference
// `name[A, B]` used as the callee of a call (§4.3 "Lookup": "The
// reference node must be an index form name[A, B, ...]"). Both parse to
// the same shape here; the generator (which knows whether `name` names a
// template) decides which interpretation applies.
func (p *Parser) parseIndexOrGeneric(left *ast.Node) *ast.Node {
	t := p.cur
	p.expect(token.LBRACKET)
	p.skipNewlines()
	first := p.parseExpression(token.LOWEST)
	p.skipNewlines()
	if p.curIs(token.COMMA) {
		args := []*ast.Node{first}
		for p.curIs(token.COMMA) {
			p.next()
			p.skipNewlines()
			args = append(args, p.parseExpression(token.LOWEST))
			p.skipNewlines()
		}
		p.expect(token.RBRACKET)
		return ast.NewCall(p.file, t.Line, t.Col, left, nil, args)
	}
	p.expect(token.RBRACKET)
	// Single bracketed expression: could be `arr[i]` or `name[T]`. Wrap it
	// as a one-arg generic-reference call too; generator treats a single
	// generic argument and an index identically until it knows left's kind.
	if left.Kind == ast.KIdent {
		return ast.NewCall(p.file, t.Line, t.Col, left, nil, []*ast.Node{first})
	}
	return ast.NewIndex(p.file, t.Line, t.Col, left, first)
}

// parseIfExpr parses `if cond block {elif cond block} [else block]` in
// expression position (§4.1 grammar rule `if`).
func (p *Parser) parseIfExpr() *ast.Node {
	t := p.cur
	p.expect(token.KW_IF)
	var conds, bodies []*ast.Node
	conds = append(conds, p.parseExpression(token.LOWEST))
	bodies = append(bodies, p.parseBlock())
	for p.curIs(token.KW_ELIF) {
		p.next()
		conds = append(conds, p.parseExpression(token.LOWEST))
		bodies = append(bodies, p.parseBlock())
	}
	var elseBody *ast.Node
	if p.curIs(token.KW_ELSE) {
		p.next()
		elseBody = p.parseBlock()
	}
	return ast.NewIfExpr(p.file, t.Line, t.Col, conds, bodies, elseBody)
}

// parseProcLit parses an anonymous procedure type `proc(T1, T2) -> Ret`
// used in type position (§4.1 grammar rule `type = ... | "proc"
// anonProcHead`): parameter types and an optional return type, with no
// parameter names and no body. thornc does not support first-class
// procedure values as runtime expressions (no closures, §1 Non-goals); this
// production exists only so a `proc` type annotation parses.
func (p *Parser) parseProcLit() *ast.Node {
	t := p.cur
	p.next()
	p.expect(token.LPAREN)
	var params []*ast.Node
	for !p.curIs(token.RPAREN) {
		typ := p.parseTypeExpr()
		params = append(params, ast.NewParam(p.file, t.Line, t.Col, "", typ))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	var ret *ast.Node
	if p.curIs(token.OPERATOR) && p.cur.Lexeme == "->" {
		p.next()
		ret = p.parseTypeExpr()
	}
	return ast.NewTypeRef(p.file, t.Line, t.Col, "proc", append(paramTypes(params), ret))
}

func paramTypes(params []*ast.Node) []*ast.Node {
	out := make([]*ast.Node, len(params))
	for i, p := range params {
		out[i] = p.Children[0]
	}
	return out
}

// parseTypeExpr parses a type reference in the sense of §4.1's
// `type = expr(9) | "proc" anonProcHead`: an identifier optionally
// followed by `[A, B]` generic arguments.
func (p *Parser) parseTypeExpr() *ast.Node {
	if p.curIs(token.KW_PROC) {
		return p.parseProcLit()
	}
	t := p.expect(token.IDENT)
	var args []*ast.Node
	if p.curIs(token.LBRACKET) {
		p.next()
		p.skipNewlines()
		for !p.curIs(token.RBRACKET) {
			args = append(args, p.parseTypeExpr())
			p.skipNewlines()
			if p.curIs(token.COMMA) {
				p.next()
				p.skipNewlines()
			}
		}
		p.expect(token.RBRACKET)
	}
	return ast.NewTypeRef(p.file, t.Line, t.Col, t.Lexeme, args)
}
