package parser

import (
	"testing"

	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	l := lexer.New("test.thorn", src)
	stream := lexer.NewTokenStream(l)
	p := New("test.thorn", stream)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	l := lexer.New("test.thorn", src)
	stream := lexer.NewTokenStream(l)
	p := New("test.thorn", stream)
	_, err := p.Parse()
	if err == nil {
		t.Fatalf("Parse(%q) succeeded, want error", src)
	}
	return err
}

func oneStmt(t *testing.T, src string) *ast.Node {
	t.Helper()
	prog := parse(t, src)
	if len(prog.Children) != 1 {
		t.Fatalf("Parse(%q) = %d statements, want 1", src, len(prog.Children))
	}
	return prog.Children[0]
}

func TestParseVarDecl(t *testing.T) {
	n := oneStmt(t, "var x: Number = 1")
	if n.Kind != ast.KVarDecl {
		t.Fatalf("Kind = %v, want KVarDecl", n.Kind)
	}
	if n.IsLet {
		t.Error("IsLet = true, want false")
	}
	if len(n.Names) != 1 || n.Names[0] != "x" {
		t.Errorf("Names = %v, want [x]", n.Names)
	}
	typeAnn, value := ast.VarDeclParts(n)
	if typeAnn == nil || typeAnn.Ident != "Number" {
		t.Errorf("typeAnn = %v, want TypeRef Number", typeAnn)
	}
	if value == nil || value.Kind != ast.KNumberLit || value.Num != 1 {
		t.Errorf("value = %v, want NumberLit 1", value)
	}
}

func TestParseLetDeclNoTypeNoValue(t *testing.T) {
	n := oneStmt(t, "let a, b")
	if !n.IsLet {
		t.Error("IsLet = false, want true")
	}
	if len(n.Names) != 2 || n.Names[0] != "a" || n.Names[1] != "b" {
		t.Errorf("Names = %v, want [a b]", n.Names)
	}
	typeAnn, value := ast.VarDeclParts(n)
	if typeAnn != nil || value != nil {
		t.Errorf("VarDeclParts = (%v, %v), want (nil, nil)", typeAnn, value)
	}
}

func TestParseProcDecl(t *testing.T) {
	n := oneStmt(t, "proc add(a: Number, b: Number) -> Number { return a + b }")
	if n.Kind != ast.KProcDecl {
		t.Fatalf("Kind = %v, want KProcDecl", n.Kind)
	}
	if n.Ident != "add" {
		t.Errorf("Ident = %q, want add", n.Ident)
	}
	params, ret, body := ast.ProcDeclParts(n)
	if len(params) != 2 || params[0].Ident != "a" || params[1].Ident != "b" {
		t.Errorf("params = %v", params)
	}
	if ret == nil || ret.Ident != "Number" {
		t.Errorf("returnType = %v, want Number", ret)
	}
	if body.Kind != ast.KBlock || len(body.Children) != 1 {
		t.Errorf("body = %v", body)
	}
}

func TestParseProcDeclVoidReturn(t *testing.T) {
	n := oneStmt(t, "proc log(msg: String) { }")
	_, ret, _ := ast.ProcDeclParts(n)
	if ret != nil {
		t.Errorf("returnType = %v, want nil", ret)
	}
}

func TestParseProcDeclGenericsAndConstraint(t *testing.T) {
	n := oneStmt(t, "proc identity[T: Comparable](x: T) -> T { return x }")
	if len(n.GenericParams) != 1 || n.GenericParams[0] != "T" {
		t.Errorf("GenericParams = %v, want [T]", n.GenericParams)
	}
}

func TestParseIteratorDecl(t *testing.T) {
	n := oneStmt(t, "iterator count(limit: Number) -> Number { yield 1 }")
	if n.Kind != ast.KIteratorDecl {
		t.Fatalf("Kind = %v, want KIteratorDecl", n.Kind)
	}
	params, yieldTy, body := ast.ProcDeclParts(n)
	if len(params) != 1 || params[0].Ident != "limit" {
		t.Errorf("params = %v", params)
	}
	if yieldTy == nil || yieldTy.Ident != "Number" {
		t.Errorf("yieldType = %v, want Number", yieldTy)
	}
	if len(body.Children) != 1 || body.Children[0].Kind != ast.KYieldStmt {
		t.Errorf("body = %v", body)
	}
}

func TestParseIteratorWithoutYieldTypeFails(t *testing.T) {
	err := parseErr(t, "iterator count(limit: Number) { yield 1 }")
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

func TestParseObjectDecl(t *testing.T) {
	n := oneStmt(t, "object Point {\n  x, y: Number\n  label: String\n}")
	if n.Kind != ast.KObjectDecl {
		t.Fatalf("Kind = %v, want KObjectDecl", n.Kind)
	}
	if n.Ident != "Point" {
		t.Errorf("Ident = %q, want Point", n.Ident)
	}
	if len(n.Children) != 3 {
		t.Fatalf("fields = %d, want 3", len(n.Children))
	}
	names := []string{n.Children[0].Ident, n.Children[1].Ident, n.Children[2].Ident}
	if names[0] != "x" || names[1] != "y" || names[2] != "label" {
		t.Errorf("field names = %v, want [x y label]", names)
	}
	if n.Children[0].Children[0].Ident != "Number" || n.Children[1].Children[0].Ident != "Number" {
		t.Errorf("shared-type fields did not both get Number: %v, %v", n.Children[0].Children[0], n.Children[1].Children[0])
	}
}

func TestParseObjectDeclGenerics(t *testing.T) {
	n := oneStmt(t, "object Box[T] {\n  value: T\n}")
	if len(n.GenericParams) != 1 || n.GenericParams[0] != "T" {
		t.Errorf("GenericParams = %v, want [T]", n.GenericParams)
	}
}

func TestParseWhile(t *testing.T) {
	n := oneStmt(t, "while x < 10 { x = x + 1 }")
	if n.Kind != ast.KWhileStmt {
		t.Fatalf("Kind = %v, want KWhileStmt", n.Kind)
	}
	cond, body := n.Children[0], n.Children[1]
	if cond.Kind != ast.KInfix || cond.Op != "<" {
		t.Errorf("cond = %v, want Infix <", cond)
	}
	if body.Kind != ast.KBlock {
		t.Errorf("body = %v, want Block", body)
	}
}

func TestParseFor(t *testing.T) {
	n := oneStmt(t, "for x in range(10) { }")
	if n.Kind != ast.KForStmt {
		t.Fatalf("Kind = %v, want KForStmt", n.Kind)
	}
	if n.Ident != "x" {
		t.Errorf("Ident = %q, want x", n.Ident)
	}
	iterCall := n.Children[0]
	if iterCall.Kind != ast.KCall {
		t.Errorf("iterCall = %v, want Call", iterCall)
	}
}

func TestParseForNonCallSourceFails(t *testing.T) {
	err := parseErr(t, "for x in someIdent { }")
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

func TestParseBreakContinue(t *testing.T) {
	n := oneStmt(t, "while true { break }")
	body := n.Children[1]
	if body.Children[0].Kind != ast.KBreakStmt {
		t.Errorf("body[0] = %v, want BreakStmt", body.Children[0])
	}

	n2 := oneStmt(t, "while true { continue }")
	body2 := n2.Children[1]
	if body2.Children[0].Kind != ast.KContinueStmt {
		t.Errorf("body[0] = %v, want ContinueStmt", body2.Children[0])
	}
}

func TestParseReturnWithAndWithoutValue(t *testing.T) {
	n := oneStmt(t, "proc f() { return 5 }")
	_, _, body := ast.ProcDeclParts(n)
	ret := body.Children[0]
	if ret.Kind != ast.KReturnStmt || len(ret.Children) != 1 || ret.Children[0].Num != 5 {
		t.Errorf("return = %v, want ReturnStmt(5)", ret)
	}

	n2 := oneStmt(t, "proc g() { return }")
	_, _, body2 := ast.ProcDeclParts(n2)
	ret2 := body2.Children[0]
	if ret2.Kind != ast.KReturnStmt || len(ret2.Children) != 0 {
		t.Errorf("return = %v, want bare ReturnStmt", ret2)
	}
}

func TestParseYield(t *testing.T) {
	n := oneStmt(t, "iterator one() -> Number { yield 1 }")
	_, _, body := ast.ProcDeclParts(n)
	y := body.Children[0]
	if y.Kind != ast.KYieldStmt || y.Children[0].Num != 1 {
		t.Errorf("yield = %v, want YieldStmt(1)", y)
	}
}

func TestParseIfAsStatement(t *testing.T) {
	n := oneStmt(t, "if x > 0 { y = 1 } elif x < 0 { y = -1 } else { y = 0 }")
	if n.Kind != ast.KExprStmt {
		t.Fatalf("Kind = %v, want KExprStmt wrapping If", n.Kind)
	}
	ifExpr := n.Children[0]
	if ifExpr.Kind != ast.KIfExpr {
		t.Fatalf("Kind = %v, want KIfExpr", ifExpr.Kind)
	}
	conds, bodies, elseBody := ast.IfArms(ifExpr)
	if len(conds) != 2 || len(bodies) != 2 {
		t.Fatalf("arms = (%d conds, %d bodies), want 2 each", len(conds), len(bodies))
	}
	if elseBody == nil {
		t.Error("elseBody = nil, want present")
	}
}

func TestParseIfAsExpression(t *testing.T) {
	n := oneStmt(t, "let x = if cond { 1 } else { 2 }")
	_, value := ast.VarDeclParts(n)
	if value.Kind != ast.KIfExpr {
		t.Fatalf("value = %v, want KIfExpr", value.Kind)
	}
}

func TestParseCallWithArgs(t *testing.T) {
	n := oneStmt(t, "f(1, 2)")
	call := n.Children[0]
	callee, generics, args := ast.SplitCall(call)
	if callee.Ident != "f" {
		t.Errorf("callee = %v, want f", callee)
	}
	if len(generics) != 0 {
		t.Errorf("generics = %v, want empty", generics)
	}
	if len(args) != 2 || args[0].Num != 1 || args[1].Num != 2 {
		t.Errorf("args = %v, want [1 2]", args)
	}
}

func TestParseObjectConstructorCall(t *testing.T) {
	n := oneStmt(t, "Point(x: 1, y: 2)")
	call := n.Children[0]
	_, _, args := ast.SplitCall(call)
	if len(args) != 2 {
		t.Fatalf("args = %v, want 2 colon-exprs", args)
	}
	if args[0].Kind != ast.KColonExpr || args[0].Ident != "x" {
		t.Errorf("args[0] = %v, want ColonExpr x", args[0])
	}
}

func TestParseGenericCallReference(t *testing.T) {
	// `make[Number](1)` parses as a call whose callee is itself the
	// one-arg generic-reference call `make[Number]` (§4.3 "Lookup"); the
	// generator, not the parser, resolves that inner call into a plain
	// generic-instantiated callee once it knows `make` names a template.
	n := oneStmt(t, "make[Number](1)")
	outer := n.Children[0]
	callee, outerGenerics, args := ast.SplitCall(outer)
	if len(outerGenerics) != 0 {
		t.Errorf("outer generics = %v, want empty", outerGenerics)
	}
	if len(args) != 1 || args[0].Num != 1 {
		t.Errorf("args = %v, want [1]", args)
	}
	if callee.Kind != ast.KCall {
		t.Fatalf("callee.Kind = %v, want KCall (generic reference)", callee.Kind)
	}
	innerCallee, innerGenerics, innerArgs := ast.SplitCall(callee)
	if innerCallee.Ident != "make" {
		t.Errorf("inner callee = %v, want make", innerCallee)
	}
	if len(innerGenerics) != 1 || innerGenerics[0].Ident != "Number" {
		t.Errorf("inner generics = %v, want [Number]", innerGenerics)
	}
	if len(innerArgs) != 0 {
		t.Errorf("inner args = %v, want empty", innerArgs)
	}
}

func TestParseIndexExpr(t *testing.T) {
	n := oneStmt(t, "arr[0]")
	idx := n.Children[0]
	// A bracketed single expression after an identifier is ambiguous
	// between index and one-arg generic reference; parseIndexOrGeneric
	// resolves identifiers to the call form and leaves everything else
	// (e.g. a prior index result) as a genuine KIndex.
	if idx.Kind != ast.KCall {
		t.Fatalf("Kind = %v, want KCall (ident[expr] form)", idx.Kind)
	}
}

func TestParseMultiArgIndexIsGenericCall(t *testing.T) {
	n := oneStmt(t, "grid[0, 1]")
	idx := n.Children[0]
	if idx.Kind != ast.KCall {
		t.Fatalf("Kind = %v, want KCall", idx.Kind)
	}
}

func TestParseDotAccess(t *testing.T) {
	n := oneStmt(t, "p.x")
	dot := n.Children[0]
	if dot.Kind != ast.KDot || dot.Ident != "x" {
		t.Errorf("dot = %v, want Dot(x)", dot)
	}
}

func TestParseAssign(t *testing.T) {
	n := oneStmt(t, "x = y + 1")
	assign := n.Children[0]
	if assign.Kind != ast.KAssign {
		t.Fatalf("Kind = %v, want KAssign", assign.Kind)
	}
	if assign.Children[0].Ident != "x" {
		t.Errorf("lhs = %v, want x", assign.Children[0])
	}
}

func TestParsePrefixAndBooleanOperators(t *testing.T) {
	n := oneStmt(t, "!a && b || !c")
	expr := n.Children[0]
	if expr.Kind != ast.KInfix || expr.Op != "||" {
		t.Fatalf("top = %v, want Infix ||", expr)
	}
	left := expr.Children[0]
	if left.Kind != ast.KInfix || left.Op != "&&" {
		t.Fatalf("left = %v, want Infix &&", left)
	}
	if left.Children[0].Kind != ast.KPrefix || left.Children[0].Op != "!" {
		t.Errorf("left.left = %v, want Prefix !", left.Children[0])
	}
}

func TestParseTypeExprGeneric(t *testing.T) {
	n := oneStmt(t, "var m: Map[String, Number]")
	typeAnn, _ := ast.VarDeclParts(n)
	if typeAnn.Ident != "Map" {
		t.Fatalf("Ident = %q, want Map", typeAnn.Ident)
	}
	if len(typeAnn.Children) != 2 || typeAnn.Children[0].Ident != "String" || typeAnn.Children[1].Ident != "Number" {
		t.Errorf("generic args = %v, want [String Number]", typeAnn.Children)
	}
}

func TestParseProcTypeAnnotation(t *testing.T) {
	n := oneStmt(t, "var cb: proc(Number, Number) -> Number")
	typeAnn, _ := ast.VarDeclParts(n)
	if typeAnn.Ident != "proc" {
		t.Fatalf("Ident = %q, want proc", typeAnn.Ident)
	}
	if len(typeAnn.Children) != 3 {
		t.Fatalf("children = %d, want 3 (2 params + return)", len(typeAnn.Children))
	}
	if typeAnn.Children[2].Ident != "Number" {
		t.Errorf("return slot = %v, want Number", typeAnn.Children[2])
	}
}

func TestParseUnterminatedStatementFails(t *testing.T) {
	err := parseErr(t, "let x = 1 let y = 2")
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

func TestParseMultipleStatements(t *testing.T) {
	prog := parse(t, "let x = 1\nlet y = 2\n")
	if len(prog.Children) != 2 {
		t.Fatalf("statements = %d, want 2", len(prog.Children))
	}
}
