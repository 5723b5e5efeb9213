package disasm

import (
	"strings"
	"testing"

	"github.com/thornlang/thornc/internal/script"
)

func TestChunkRendersHeader(t *testing.T) {
	c := script.NewChunk()
	c.EmitOp(script.OpHalt)
	got := Chunk(c, "proc 0 main")
	if !strings.HasPrefix(got, "== proc 0 main ==\n") {
		t.Fatalf("Chunk output = %q, want header prefix", got)
	}
}

func TestChunkConstInstructionShowsOperand(t *testing.T) {
	c := script.NewChunk()
	id := c.InternNumber(3.5)
	c.EmitOp(script.OpPushN)
	c.EmitU16(id)
	c.EmitOp(script.OpHalt)

	got := Chunk(c, "main")
	if !strings.Contains(got, "pushN") || !strings.Contains(got, "3.5") {
		t.Errorf("output = %q, want it to mention pushN and 3.5", got)
	}
}

func TestChunkStringConstInstructionShowsQuotedOperand(t *testing.T) {
	c := script.NewChunk()
	id := c.InternString("hi")
	c.EmitOp(script.OpPushS)
	c.EmitU16(id)
	c.EmitOp(script.OpHalt)

	got := Chunk(c, "main")
	if !strings.Contains(got, `"hi"`) {
		t.Errorf("output = %q, want a quoted string operand", got)
	}
}

func TestChunkU8InstructionShowsOperand(t *testing.T) {
	c := script.NewChunk()
	c.EmitOp(script.OpPushL)
	c.EmitU8(2)
	c.EmitOp(script.OpHalt)

	got := Chunk(c, "main")
	if !strings.Contains(got, "pushL") {
		t.Errorf("output = %q, want it to mention pushL", got)
	}
}

func TestChunkForwardJumpShowsTarget(t *testing.T) {
	c := script.NewChunk()
	c.EmitOp(script.OpJumpFwdF)
	hole := c.EmitHole()
	c.EmitOp(script.OpPushTrue)
	c.PatchHoleU16(hole)
	c.EmitOp(script.OpHalt)

	got := Chunk(c, "main")
	if !strings.Contains(got, "jumpFwdF") || !strings.Contains(got, "-> 4") {
		t.Errorf("output = %q, want a forward jump landing at offset 4", got)
	}
}

func TestChunkBackJumpShowsTarget(t *testing.T) {
	c := script.NewChunk()
	target := c.Len()
	c.EmitOp(script.OpPushTrue)
	c.EmitOp(script.OpJumpBack)
	hole := c.EmitHole()
	c.PatchBackJumpU16(hole, target)

	got := Chunk(c, "main")
	if !strings.Contains(got, "jumpBack") || !strings.Contains(got, "-> 0") {
		t.Errorf("output = %q, want a back jump landing at offset 0", got)
	}
}

func TestChunkCallDShowsProcID(t *testing.T) {
	c := script.NewChunk()
	c.EmitOp(script.OpCallD)
	c.EmitU16(7)
	c.EmitOp(script.OpHalt)

	got := Chunk(c, "main")
	if !strings.Contains(got, "proc=7") {
		t.Errorf("output = %q, want proc=7", got)
	}
}

func TestChunkConstrObjShowsTypeAndFieldCount(t *testing.T) {
	c := script.NewChunk()
	c.EmitOp(script.OpConstrObj)
	c.EmitU16(2)
	c.EmitU8(3)
	c.EmitOp(script.OpHalt)

	got := Chunk(c, "main")
	if !strings.Contains(got, "ty=2") || !strings.Contains(got, "fields=3") {
		t.Errorf("output = %q, want ty=2 fields=3", got)
	}
}

func TestChunkPushNilShowsMnemonic(t *testing.T) {
	c := script.NewChunk()
	c.EmitOp(script.OpPushNil)
	c.EmitU16(0)

	got := Chunk(c, "main")
	if !strings.Contains(got, "pushNil") {
		t.Errorf("output = %q, want pushNil rendered", got)
	}
}

func TestChunkOutOfRangeConstIDIsMarkedInvalid(t *testing.T) {
	c := script.NewChunk()
	c.EmitOp(script.OpPushN)
	c.EmitU16(99)
	c.EmitOp(script.OpHalt)

	got := Chunk(c, "main")
	if !strings.Contains(got, "(invalid)") {
		t.Errorf("output = %q, want (invalid) for an out-of-range number id", got)
	}
}

func TestScriptRendersOneSectionPerProc(t *testing.T) {
	sc := script.NewScript()
	c1 := script.NewChunk()
	c1.EmitOp(script.OpHalt)
	sc.AddProc(&script.Proc{Name: "main", Kind: script.ProcNative, Chunk: c1})

	c2 := script.NewChunk()
	c2.EmitOp(script.OpReturnVoid)
	sc.AddProc(&script.Proc{Name: "helper", Kind: script.ProcNative, Chunk: c2})

	got := Script(sc)
	if !strings.Contains(got, "proc 0 main") || !strings.Contains(got, "proc 1 helper") {
		t.Errorf("output = %q, want sections for both procs", got)
	}
}

func TestScriptForeignProcIsNotDisassembled(t *testing.T) {
	sc := script.NewScript()
	sc.AddForeignProc("puts", nil, "void", func(args []any) (any, error) { return nil, nil })

	got := Script(sc)
	if !strings.Contains(got, "foreign") {
		t.Errorf("output = %q, want a (foreign) marker for a foreign proc", got)
	}
	if strings.Contains(got, "0000") {
		t.Errorf("output = %q, a foreign proc has no chunk to list offsets for", got)
	}
}
