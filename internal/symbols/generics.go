package symbols

import (
	"fmt"
	"strings"

	"github.com/thornlang/thornc/internal/diagnostics"
)

// instKey derives the cache key for a generic instantiation from the
// exact sequence of argument-symbol identities (§4.4: "keyed by the
// argument symbol sequence"). Identity, not name, is what makes two
// instantiations the same, so this keys on each argument's own address.
func instKey(args []*Sym) string {
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(fmt.Sprintf("%p", a))
	}
	return sb.String()
}

// inFlight tracks templates currently being instantiated, so a
// self-referential generic (a template whose own body tries to
// instantiate itself with the same arguments) is caught instead of
// recursing forever (§9 Open Question: generic instantiation cycles are
// rejected with ErrGenericCycle).
var inFlight = map[*Sym]map[string]bool{}

// BeginInstantiation records that template is being instantiated with
// key, returning a CompileError if that exact instantiation is already
// in progress higher up the call stack. The caller must call
// EndInstantiation when done, success or failure.
func BeginInstantiation(template *Sym, key string, file string, line, col int) *diagnostics.CompileError {
	set := inFlight[template]
	if set == nil {
		set = make(map[string]bool)
		inFlight[template] = set
	}
	if set[key] {
		return diagnostics.NewCompileError(diagnostics.ErrGenericCycle, file, line, col,
			"generic %q instantiation cycle", template.Name)
	}
	set[key] = true
	return nil
}

func EndInstantiation(template *Sym, key string) {
	if set := inFlight[template]; set != nil {
		delete(set, key)
	}
}

// LookupInstantiation returns a cached instantiation of template for
// args, if one already exists (§4.4 step 1: "check the cache first").
func LookupInstantiation(template *Sym, args []*Sym) (*Sym, string) {
	key := instKey(args)
	if template.GenericInstCache == nil {
		return nil, key
	}
	inst, ok := template.GenericInstCache[key]
	if !ok {
		return nil, key
	}
	return inst, key
}

// StoreInstantiation records a freshly-built instantiation under key so
// later calls with the same argument sequence hit the cache (§4.4 step 4).
func StoreInstantiation(template *Sym, key string, inst *Sym) {
	if template.GenericInstCache == nil {
		template.GenericInstCache = make(map[string]*Sym)
	}
	template.GenericInstCache[key] = inst
}

// CheckGenericArgs validates that args matches template's generic
// parameter list in length and constraint (§4.4 step 2), returning a
// CompileError naming the first violation.
func CheckGenericArgs(template *Sym, args []*Sym, file string, line, col int) *diagnostics.CompileError {
	if !template.IsTemplate() {
		return diagnostics.NewCompileError(diagnostics.ErrNotGeneric, file, line, col,
			"%q is not generic", template.Name)
	}
	if len(args) != len(template.GenericParams) {
		return diagnostics.NewCompileError(diagnostics.ErrGenericArgLenMismatch, file, line, col,
			"%q expects %d generic argument(s), got %d", template.Name, len(template.GenericParams), len(args))
	}
	for i, p := range template.GenericParams {
		if p.Constraint == nil {
			continue
		}
		if !SameType(p.Constraint, args[i]) {
			return diagnostics.NewCompileError(diagnostics.ErrTypeMismatch, file, line, col,
				"generic argument %d of %q must be %s", i+1, template.Name, p.Constraint.Name)
		}
	}
	return nil
}
