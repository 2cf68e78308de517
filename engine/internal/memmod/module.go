// Package memmod encodes the smallest WebAssembly module that defines and
// exports one linear memory. The reference engine instantiates it to get
// an address space for array planes.
package memmod

import "bytes"

const (
	magic   = 0x6d736100 // \0asm
	version = 1

	sectionMemory = 0x05
	sectionExport = 0x07

	externMemory = 0x02
	limitsHasMax = 0x01
)

// ExportName is the name the memory is exported under.
const ExportName = "memory"

// Encode returns a module with one memory of minPages pages, bounded by
// maxPages when maxPages is non-zero.
func Encode(minPages, maxPages uint32) []byte {
	var w bytes.Buffer
	writeU32LE(&w, magic)
	writeU32LE(&w, version)

	var mem bytes.Buffer
	writeLEB128u(&mem, 1)
	if maxPages > 0 {
		mem.WriteByte(limitsHasMax)
		writeLEB128u(&mem, minPages)
		writeLEB128u(&mem, maxPages)
	} else {
		mem.WriteByte(0)
		writeLEB128u(&mem, minPages)
	}
	writeSection(&w, sectionMemory, mem.Bytes())

	var exp bytes.Buffer
	writeLEB128u(&exp, 1)
	writeLEB128u(&exp, uint32(len(ExportName)))
	exp.WriteString(ExportName)
	exp.WriteByte(externMemory)
	writeLEB128u(&exp, 0)
	writeSection(&w, sectionExport, exp.Bytes())

	return w.Bytes()
}

func writeSection(w *bytes.Buffer, id byte, data []byte) {
	w.WriteByte(id)
	writeLEB128u(w, uint32(len(data)))
	w.Write(data)
}

func writeU32LE(w *bytes.Buffer, v uint32) {
	w.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func writeLEB128u(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}
