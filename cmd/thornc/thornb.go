package main

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/thornlang/thornc/internal/script"
)

// thornbMagic identifies a compiled bytecode file; thornbVersion lets a
// future VM reject a format it doesn't understand.
const (
	thornbMagic   = "THRNB"
	thornbVersion = 1
)

// WriteThornb serializes sc's procedure table to path. The format is
// deliberately minimal — §1's framing treats the VM that would read this
// back as an external oracle out of this module's scope, so the writer
// exists only to make the compiler's output durable, not to define a
// production wire format: no debug line-info is persisted.
func WriteThornb(path string, sc *script.Script) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	w.WriteString(thornbMagic)
	w.WriteByte(thornbVersion)
	buildID, _ := sc.BuildID.MarshalBinary()
	w.Write(buildID)

	writeU16(w, sc.TypeCount)
	writeU16(w, uint16(len(sc.Procs)))
	for _, p := range sc.Procs {
		writeString(w, p.Name)
		w.WriteByte(byte(p.Kind))
		w.WriteByte(byte(p.ParamCount))
		if p.HasResult {
			w.WriteByte(1)
		} else {
			w.WriteByte(0)
		}
		if p.Kind == script.ProcForeign {
			continue
		}
		writeChunk(w, p.Chunk)
	}

	return w.Flush()
}

func writeChunk(w *bufio.Writer, c *script.Chunk) {
	writeU16(w, uint16(c.Len()))
	w.Write(c.Code)

	nums := c.Numbers()
	writeU16(w, uint16(len(nums)))
	for _, n := range nums {
		binary.Write(w, binary.LittleEndian, n)
	}

	strs := c.Strings()
	writeU16(w, uint16(len(strs)))
	for _, s := range strs {
		writeString(w, s)
	}
}

func writeU16(w *bufio.Writer, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.Write(buf[:])
}

func writeString(w *bufio.Writer, s string) {
	writeU16(w, uint16(len(s)))
	w.WriteString(s)
}
