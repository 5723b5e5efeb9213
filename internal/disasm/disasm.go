// Package disasm implements a minimal text disassembler for a compiled
// Script, grounded on the teacher's vm.Disassemble
// (funvibe-funxy/internal/vm/disasm.go), generalized from its
// constant-pool/closure model to §6.1's kind-separated number/string
// pools and flat procedure table.
package disasm

import (
	"fmt"
	"strings"

	"github.com/thornlang/thornc/internal/script"
)

// Script renders every procedure in sc as one combined listing.
func Script(sc *script.Script) string {
	var sb strings.Builder
	for id, proc := range sc.Procs {
		if proc.Kind == script.ProcForeign {
			fmt.Fprintf(&sb, "== proc %d %s (foreign) ==\n", id, proc.Name)
			continue
		}
		sb.WriteString(Chunk(proc.Chunk, fmt.Sprintf("proc %d %s", id, proc.Name)))
	}
	return sb.String()
}

// Chunk renders one chunk's instructions under a `== name ==` header.
func Chunk(c *script.Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	offset := 0
	for offset < c.Len() {
		offset = instruction(&sb, c, offset)
	}
	return sb.String()
}

func instruction(sb *strings.Builder, c *script.Chunk, offset int) int {
	line, col := c.LineAt(offset)
	fmt.Fprintf(sb, "%04d %4d:%-3d ", offset, line, col)

	op := script.Opcode(c.Code[offset])
	switch op {
	case script.OpPushN:
		return constInstruction(sb, op, c, offset, numberOperand)
	case script.OpPushS:
		return constInstruction(sb, op, c, offset, stringOperand)
	case script.OpPushNil:
		return u16Instruction(sb, op, c, offset, "ty")
	case script.OpPushG, script.OpPopG:
		return constInstruction(sb, op, c, offset, stringOperand)
	case script.OpPushL, script.OpPopL, script.OpPushF, script.OpPopF, script.OpNDiscard:
		return u8Instruction(sb, op, c, offset)
	case script.OpJumpFwd, script.OpJumpFwdT, script.OpJumpFwdF:
		return jumpInstruction(sb, op, c, offset, 1)
	case script.OpJumpBack:
		return jumpInstruction(sb, op, c, offset, -1)
	case script.OpCallD:
		return u16Instruction(sb, op, c, offset, "proc")
	case script.OpConstrObj:
		return constrObjInstruction(sb, c, offset)
	default:
		fmt.Fprintf(sb, "%s\n", op)
		return offset + 1
	}
}

func numberOperand(c *script.Chunk, id uint16) string {
	nums := c.Numbers()
	if int(id) >= len(nums) {
		return "(invalid)"
	}
	return fmt.Sprintf("%g", nums[id])
}

func stringOperand(c *script.Chunk, id uint16) string {
	strs := c.Strings()
	if int(id) >= len(strs) {
		return "(invalid)"
	}
	return fmt.Sprintf("%q", strs[id])
}

func constInstruction(sb *strings.Builder, op script.Opcode, c *script.Chunk, offset int, describe func(*script.Chunk, uint16) string) int {
	id := readU16(c, offset+1)
	fmt.Fprintf(sb, "%-12s %4d %s\n", op, id, describe(c, id))
	return offset + 3
}

func u16Instruction(sb *strings.Builder, op script.Opcode, c *script.Chunk, offset int, label string) int {
	id := readU16(c, offset+1)
	fmt.Fprintf(sb, "%-12s %s=%d\n", op, label, id)
	return offset + 3
}

func u8Instruction(sb *strings.Builder, op script.Opcode, c *script.Chunk, offset int) int {
	v := c.Code[offset+1]
	fmt.Fprintf(sb, "%-12s %4d\n", op, v)
	return offset + 2
}

func jumpInstruction(sb *strings.Builder, op script.Opcode, c *script.Chunk, offset int, sign int) int {
	dist := int(readU16(c, offset+1))
	target := offset + 3 + sign*dist
	fmt.Fprintf(sb, "%-12s %4d -> %d\n", op, dist, target)
	return offset + 3
}

func constrObjInstruction(sb *strings.Builder, c *script.Chunk, offset int) int {
	ty := readU16(c, offset+1)
	n := c.Code[offset+3]
	fmt.Fprintf(sb, "%-12s ty=%d fields=%d\n", script.OpConstrObj, ty, n)
	return offset + 4
}

func readU16(c *script.Chunk, offset int) uint16 {
	return uint16(c.Code[offset]) | uint16(c.Code[offset+1])<<8
}
