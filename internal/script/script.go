package script

import "github.com/google/uuid"

// ProcKind distinguishes a procedure compiled from Thorn source from one
// registered by the host environment (§3.4, §6.4).
type ProcKind int

const (
	ProcNative ProcKind = iota
	ProcForeign
)

// ForeignFunc is the opaque callback signature a host environment
// registers under ProcForeign (§6.4); the VM that invokes it is out of
// scope for this module.
type ForeignFunc func(args []any) (any, error)

// Proc is one entry of a Script's procedure table (§3.4).
type Proc struct {
	Name       string
	Kind       ProcKind
	ParamCount int
	HasResult  bool

	Chunk   *Chunk      // set when Kind == ProcNative
	Foreign ForeignFunc // set when Kind == ProcForeign
}

// Script owns the procedure table and the object-type id counter for one
// compilation unit (§3.4). BuildID disambiguates chunks produced by
// distinct compilations of the same source, used by cmd/thornc when
// writing a .thornb file header.
type Script struct {
	Procs     []*Proc
	TypeCount uint16
	BuildID   uuid.UUID
}

func NewScript() *Script {
	return &Script{BuildID: uuid.New()}
}

// AddProc appends proc to the table and returns its dense, zero-based id
// (§3.6 invariant 4).
func (s *Script) AddProc(p *Proc) uint16 {
	id := uint16(len(s.Procs))
	s.Procs = append(s.Procs, p)
	return id
}

// NextTypeID assigns a fresh object_id (§3.4, used by object
// declarations per §4.5 "Objects").
func (s *Script) NextTypeID() uint16 {
	id := s.TypeCount
	s.TypeCount++
	return id
}

// ParamSpec names one foreign-procedure parameter for AddForeignProc
// (§6.4: "[(param_name, type_name)]").
type ParamSpec struct {
	Name string
	Type string
}

// AddForeignProc registers a native-host callback as a callable
// procedure (§6.4 "Foreign-function registration"). The returned id is
// the proc id to use when resolving calls to name in the enclosing
// module/scope.
func (s *Script) AddForeignProc(name string, params []ParamSpec, returnType string, fn ForeignFunc) uint16 {
	return s.AddProc(&Proc{
		Name:       name,
		Kind:       ProcForeign,
		ParamCount: len(params),
		HasResult:  returnType != "" && returnType != "void",
		Foreign:    fn,
	})
}
