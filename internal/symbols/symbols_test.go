package symbols

import (
	"testing"

	"github.com/thornlang/thornc/internal/diagnostics"
)

func numberType() *Sym { return &Sym{Name: "Number", Kind: KindType, TypeKind: TNumber} }
func stringType() *Sym { return &Sym{Name: "String", Kind: KindType, TypeKind: TString} }

func TestScopeAddNoCollision(t *testing.T) {
	s := NewChildScope(NewModule("m").Scope)
	x := &Sym{Name: "x", Kind: KindVar, Ty: numberType()}
	if err := s.Add("x", x, true); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if s.Declared() != 1 {
		t.Errorf("Declared() = %d, want 1", s.Declared())
	}
	if s.Syms["x"] != x {
		t.Errorf("Syms[x] = %v, want %v", s.Syms["x"], x)
	}
}

func TestScopeAddVarVarCollisionRejected(t *testing.T) {
	s := NewChildScope(NewModule("m").Scope)
	a := &Sym{Name: "x", Kind: KindVar, Ty: numberType()}
	b := &Sym{Name: "x", Kind: KindLet, Ty: stringType()}
	if err := s.Add("x", a, true); err != nil {
		t.Fatalf("first Add error: %v", err)
	}
	err := s.Add("x", b, true)
	if err == nil {
		t.Fatal("second Add succeeded, want local-redeclaration error")
	}
	if err.Code != diagnostics.ErrLocalRedeclaration {
		t.Errorf("Code = %v, want ErrLocalRedeclaration", err.Code)
	}
}

func TestScopeAddGlobalCollisionCode(t *testing.T) {
	s := NewModule("m").Scope
	a := &Sym{Name: "x", Kind: KindVar, Ty: numberType()}
	b := &Sym{Name: "x", Kind: KindVar, Ty: numberType()}
	s.Add("x", a, false)
	err := s.Add("x", b, false)
	if err == nil || err.Code != diagnostics.ErrGlobalRedeclaration {
		t.Fatalf("Code = %v, want ErrGlobalRedeclaration", err)
	}
}

func TestScopeAddOverloadsBySignature(t *testing.T) {
	s := NewModule("m").Scope
	f1 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: numberType()}}}
	f2 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: stringType()}}}
	if err := s.Add("f", f1, false); err != nil {
		t.Fatalf("Add f1: %v", err)
	}
	if err := s.Add("f", f2, false); err != nil {
		t.Fatalf("Add f2 with distinct signature: %v", err)
	}
	choice, ok := s.Syms["f"]
	if !ok || choice.Kind != KindChoice {
		t.Fatalf("Syms[f] = %v, want Choice", choice)
	}
	if len(choice.Choices) != 2 {
		t.Fatalf("Choices = %d, want 2", len(choice.Choices))
	}
}

func TestScopeAddOverloadSameSignatureRejected(t *testing.T) {
	s := NewModule("m").Scope
	ty := numberType()
	f1 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: ty}}}
	f2 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "b", Ty: ty}}}
	s.Add("f", f1, false)
	if err := s.Add("f", f2, false); err == nil {
		t.Fatal("same-signature overload accepted, want error")
	}
}

func TestScopeAddTypeTypeCollisionRejected(t *testing.T) {
	s := NewModule("m").Scope
	s.Add("Point", &Sym{Name: "Point", Kind: KindType, TypeKind: TObject}, false)
	err := s.Add("Point", &Sym{Name: "Point", Kind: KindType, TypeKind: TObject}, false)
	if err == nil {
		t.Fatal("duplicate type accepted, want error")
	}
}

func TestLookupWalksEnclosingScopes(t *testing.T) {
	mod := NewModule("m")
	outer := NewChildScope(mod.Scope)
	inner := NewChildScope(outer)

	x := &Sym{Name: "x", Kind: KindLet}
	outer.Add("x", x, true)

	if got := Lookup(inner, RootContext, "x"); got != x {
		t.Errorf("Lookup found %v, want %v", got, x)
	}
}

func TestLookupFallsBackToModule(t *testing.T) {
	mod := NewModule("m")
	g := &Sym{Name: "g", Kind: KindProc}
	mod.Add("g", g, false)
	inner := NewChildScope(mod.Scope)

	if got := Lookup(inner, RootContext, "g"); got != g {
		t.Errorf("Lookup found %v, want %v", got, g)
	}
}

func TestLookupSkipsDifferentContext(t *testing.T) {
	mod := NewModule("m")
	alloc := NewContextAllocator()
	outer := NewChildScope(mod.Scope)
	x := &Sym{Name: "x", Kind: KindLet}
	outer.Add("x", x, true)

	iterCtx := alloc.New()
	spliced := NewChildScope(outer)
	spliced.Context = iterCtx

	// Looked up from within the spliced (iterator) context, "x" in the
	// caller's differently-contexted outer scope must not be visible.
	if got := Lookup(spliced, iterCtx, "x"); got != nil {
		t.Errorf("Lookup found %v across contexts, want nil", got)
	}
	// From the caller's own context, it is visible as normal.
	if got := Lookup(outer, RootContext, "x"); got != x {
		t.Errorf("Lookup(outer) = %v, want %v", got, x)
	}
}

func TestResolveOverloadSingleSymbol(t *testing.T) {
	num := numberType()
	f := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: num}}}
	got, err := ResolveOverload(f, []*Sym{num}, "t", 1, 1)
	if err != nil {
		t.Fatalf("ResolveOverload error: %v", err)
	}
	if got != f {
		t.Errorf("got %v, want %v", got, f)
	}
}

func TestResolveOverloadSingleSymbolMismatch(t *testing.T) {
	num := numberType()
	str := stringType()
	f := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: num}}}
	_, err := ResolveOverload(f, []*Sym{str}, "t", 1, 1)
	if err == nil {
		t.Fatal("want type-mismatch error")
	}
	if err.Code != diagnostics.ErrTypeMismatch {
		t.Errorf("Code = %v, want ErrTypeMismatch", err.Code)
	}
}

func TestResolveOverloadPicksMatchingChoice(t *testing.T) {
	num, str := numberType(), stringType()
	f1 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: num}}, declOrder: 0}
	f2 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: str}}, declOrder: 1}
	choice := &Sym{Name: "f", Kind: KindChoice, Choices: []*Sym{f1, f2}}

	got, err := ResolveOverload(choice, []*Sym{str}, "t", 1, 1)
	if err != nil {
		t.Fatalf("ResolveOverload error: %v", err)
	}
	if got != f2 {
		t.Errorf("got %v, want f2", got)
	}
}

func TestResolveOverloadFirstDeclaredWinsOnAmbiguity(t *testing.T) {
	num := numberType()
	// Two choices with identical signatures would have been rejected at
	// Add time; this test instead exercises the tie-break directly
	// against a hand-built Choice, simulating what canAdd is meant to
	// prevent from ever occurring through normal declaration.
	f1 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: num}}, declOrder: 0}
	f2 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: num}}, declOrder: 1}
	choice := &Sym{Name: "f", Kind: KindChoice, Choices: []*Sym{f1, f2}}

	got, err := ResolveOverload(choice, []*Sym{num}, "t", 1, 1)
	if err != nil {
		t.Fatalf("ResolveOverload error: %v", err)
	}
	if got != f1 {
		t.Errorf("got %v, want first-declared f1", got)
	}
}

func TestResolveOverloadNoMatch(t *testing.T) {
	num, str := numberType(), stringType()
	f1 := &Sym{Name: "f", Kind: KindProc, Params: []Param{{Name: "a", Ty: num}}}
	choice := &Sym{Name: "f", Kind: KindChoice, Choices: []*Sym{f1}}

	_, err := ResolveOverload(choice, []*Sym{str}, "t", 1, 1)
	if err == nil {
		t.Fatal("want no-overload error")
	}
	if err.Code != diagnostics.ErrTypeMismatchChoice {
		t.Errorf("Code = %v, want ErrTypeMismatchChoice", err.Code)
	}
}

func TestGenericInstantiationCacheRoundTrip(t *testing.T) {
	template := &Sym{Name: "Box", Kind: KindType, GenericParams: []*Sym{{Name: "T", Kind: KindGenericParam}}}
	num := numberType()

	if inst, _ := LookupInstantiation(template, []*Sym{num}); inst != nil {
		t.Fatalf("LookupInstantiation = %v before any Store, want nil", inst)
	}

	inst := &Sym{Name: "Box[Number]", Kind: KindType}
	_, key := LookupInstantiation(template, []*Sym{num})
	StoreInstantiation(template, key, inst)

	got, _ := LookupInstantiation(template, []*Sym{num})
	if got != inst {
		t.Errorf("LookupInstantiation = %v, want %v", got, inst)
	}
}

func TestCheckGenericArgsNotGeneric(t *testing.T) {
	plain := &Sym{Name: "Number", Kind: KindType}
	err := CheckGenericArgs(plain, nil, "t", 1, 1)
	if err == nil || err.Code != diagnostics.ErrNotGeneric {
		t.Fatalf("err = %v, want ErrNotGeneric", err)
	}
}

func TestCheckGenericArgsArityMismatch(t *testing.T) {
	template := &Sym{Name: "Pair", Kind: KindType, GenericParams: []*Sym{
		{Name: "A", Kind: KindGenericParam}, {Name: "B", Kind: KindGenericParam},
	}}
	err := CheckGenericArgs(template, []*Sym{numberType()}, "t", 1, 1)
	if err == nil || err.Code != diagnostics.ErrGenericArgLenMismatch {
		t.Fatalf("err = %v, want ErrGenericArgLenMismatch", err)
	}
}

func TestCheckGenericArgsConstraintViolation(t *testing.T) {
	num := numberType()
	str := stringType()
	template := &Sym{Name: "Sortable", Kind: KindType, GenericParams: []*Sym{
		{Name: "T", Kind: KindGenericParam, Constraint: num},
	}}
	err := CheckGenericArgs(template, []*Sym{str}, "t", 1, 1)
	if err == nil || err.Code != diagnostics.ErrTypeMismatch {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
	if err := CheckGenericArgs(template, []*Sym{num}, "t", 1, 1); err != nil {
		t.Errorf("satisfying constraint returned error: %v", err)
	}
}

func TestBeginInstantiationDetectsCycle(t *testing.T) {
	template := &Sym{Name: "Rec", Kind: KindType, GenericParams: []*Sym{{Name: "T", Kind: KindGenericParam}}}
	key := "k"

	if err := BeginInstantiation(template, key, "t", 1, 1); err != nil {
		t.Fatalf("first BeginInstantiation error: %v", err)
	}
	err := BeginInstantiation(template, key, "t", 1, 1)
	if err == nil || err.Code != diagnostics.ErrGenericCycle {
		t.Fatalf("nested BeginInstantiation = %v, want ErrGenericCycle", err)
	}
	EndInstantiation(template, key)

	if err := BeginInstantiation(template, key, "t", 1, 1); err != nil {
		t.Fatalf("BeginInstantiation after EndInstantiation error: %v", err)
	}
	EndInstantiation(template, key)
}

func TestFieldByName(t *testing.T) {
	obj := &Sym{Name: "Point", Kind: KindType, TypeKind: TObject, Fields: []Field{
		{Name: "x", ID: 0, Ty: numberType()},
		{Name: "y", ID: 1, Ty: numberType()},
	}}
	f, ok := obj.FieldByName("y")
	if !ok || f.ID != 1 {
		t.Errorf("FieldByName(y) = (%v, %v), want id 1", f, ok)
	}
	if _, ok := obj.FieldByName("z"); ok {
		t.Error("FieldByName(z) found, want absent")
	}
}

func TestIsTemplateAndIsInstantiation(t *testing.T) {
	plain := &Sym{Name: "Number", Kind: KindType}
	if plain.IsTemplate() || plain.IsInstantiation() {
		t.Error("plain type reports template/instantiation")
	}
	template := &Sym{Name: "Box", Kind: KindType, GenericParams: []*Sym{{Name: "T"}}}
	if !template.IsTemplate() {
		t.Error("template not reported as template")
	}
	inst := &Sym{Name: "Box[Number]", Kind: KindType, GenericInstArgs: []*Sym{numberType()}}
	if !inst.IsInstantiation() {
		t.Error("instantiation not reported as instantiation")
	}
}
