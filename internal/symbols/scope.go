package symbols

import "github.com/thornlang/thornc/internal/diagnostics"

// ContextID tags a Scope (and, in the generator, a flow block) with the
// compilation "context" it belongs to (§5, §9 Glossary "Context"). Scope
// lookups and flow-block searches performed from one context skip over
// scopes stamped with a different context, which is how for-loop
// iterator splicing (§4.6) keeps the iterator's internal scopes hidden
// from the caller and vice versa.
type ContextID int

// ContextAllocator hands out fresh ContextIDs for the lifetime of one
// compilation (§5: "A context id must never be reused while still
// referenced by any live scope or flow block").
type ContextAllocator struct {
	next ContextID
	live map[ContextID]bool
}

func NewContextAllocator() *ContextAllocator {
	return &ContextAllocator{next: 1, live: make(map[ContextID]bool)}
}

// RootContext is the context every top-level scope starts in.
const RootContext ContextID = 0

func (a *ContextAllocator) New() ContextID {
	id := a.next
	a.next++
	a.live[id] = true
	return id
}

// Free releases a context once its scopes and flow blocks are gone
// (called at the end of for-loop splicing, §4.6 step 8).
func (a *ContextAllocator) Free(id ContextID) { delete(a.live, id) }

// Scope holds the symbols declared directly in it, plus the context tag
// used for iterator-splice scope hygiene (§3.5).
type Scope struct {
	Syms    map[string]*Sym
	Parent  *Scope
	Context ContextID
	Module  *Module

	nextDeclOrder int
}

// Module is a named root scope; one source file populates one module
// (§3.5, Glossary).
type Module struct {
	*Scope
	Name string
}

func NewModule(name string) *Module {
	m := &Module{Name: name}
	m.Scope = &Scope{Syms: make(map[string]*Sym), Module: m, Context: RootContext}
	return m
}

// NewChildScope pushes a scope whose parent is s, inheriting s's context
// unless the caller overrides it by assigning the returned Scope's
// Context field directly (for-loop splicing does this to tag a scope with
// the caller's context rather than the iterator's own).
func NewChildScope(parent *Scope) *Scope {
	return &Scope{Syms: make(map[string]*Sym), Parent: parent, Context: parent.Context, Module: parent.Module}
}

// Declared returns the number of symbols declared directly in s, of any
// kind (a Choice counts once).
func (s *Scope) Declared() int { return len(s.Syms) }

// Add inserts sym under name into s, applying the overload rules of §4.3.
func (s *Scope) Add(name string, sym *Sym, isLocal bool) *diagnostics.CompileError {
	existing, ok := s.Syms[name]
	if !ok {
		sym.declOrder = s.nextDeclOrder
		s.nextDeclOrder++
		s.Syms[name] = sym
		return nil
	}

	choice := existing
	if existing.Kind != KindChoice {
		choice = &Sym{Name: name, Kind: KindChoice, Choices: []*Sym{existing}}
		s.Syms[name] = choice
	}

	if !canAdd(choice, sym) {
		code := diagnostics.ErrGlobalRedeclaration
		wording := "global"
		if isLocal {
			code = diagnostics.ErrLocalRedeclaration
			wording = "local"
		}
		return diagnostics.NewCompileError(code, "", 0, 0, "%s: %q cannot be redeclared (%s redeclaration)", wording, name, wording)
	}
	sym.declOrder = s.nextDeclOrder
	s.nextDeclOrder++
	choice.Choices = append(choice.Choices, sym)
	return nil
}

// canAdd implements the §4.3 step 3 rules for whether sym may join an
// existing Choice.
func canAdd(choice *Sym, sym *Sym) bool {
	switch sym.Kind {
	case KindVar, KindLet:
		for _, c := range choice.Choices {
			if c.Kind == KindVar || c.Kind == KindLet {
				return false
			}
		}
		return true
	case KindType:
		for _, c := range choice.Choices {
			if c.Kind == KindType {
				return false
			}
		}
		return true
	case KindProc, KindIterator:
		for _, c := range choice.Choices {
			if c.Kind != KindProc && c.Kind != KindIterator {
				continue
			}
			if sameSignature(c.Params, sym.Params) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func sameSignature(a, b []Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameType(a[i].Ty, b[i].Ty) {
			return false
		}
	}
	return true
}

// Lookup walks enclosing scopes most-recent-first, skipping scopes whose
// Context differs from curContext, then falls back to the module
// (§4.3 "Lookup").
func Lookup(start *Scope, curContext ContextID, name string) *Sym {
	for sc := start; sc != nil; sc = sc.Parent {
		if sc.Context != curContext && sc.Parent != nil {
			continue
		}
		if sym, ok := sc.Syms[name]; ok {
			return sym
		}
	}
	if start != nil && start.Module != nil {
		if sym, ok := start.Module.Syms[name]; ok {
			return sym
		}
	}
	return nil
}
