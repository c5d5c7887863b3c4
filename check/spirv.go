package check

import (
	"encoding/binary"
	"fmt"
)

const (
	opCapability = 17
	opEntryPoint = 15
)

var executionModels = map[uint32]string{
	0: "vertex", 4: "fragment", 5: "compute",
}

// EntryPoint is one OpEntryPoint of a SPIR-V module.
type EntryPoint struct {
	Name  string
	Stage string
}

// Summary describes a SPIR-V binary.
type Summary struct {
	Major, Minor uint32
	Generator    uint32
	Bound        uint32

	// Instructions counts the instructions after the header.
	Instructions int
	Capabilities []uint32
	EntryPoints  []EntryPoint
}

// Inspect walks the instruction stream of a SPIR-V binary.
func Inspect(data []byte) (*Summary, error) {
	if !IsSPIRV(data) {
		return nil, fmt.Errorf("check: not a SPIR-V binary")
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	s := &Summary{
		Major:     (version >> 16) & 0xFF,
		Minor:     (version >> 8) & 0xFF,
		Generator: binary.LittleEndian.Uint32(data[8:12]),
		Bound:     binary.LittleEndian.Uint32(data[12:16]),
	}

	for offset := 20; offset < len(data); {
		word := binary.LittleEndian.Uint32(data[offset:])
		opcode := word & 0xFFFF
		wordCount := int(word >> 16)
		if wordCount == 0 || offset+wordCount*4 > len(data) {
			return nil, fmt.Errorf("check: invalid word count %d at offset 0x%X", wordCount, offset)
		}
		operand := func(i int) uint32 {
			return binary.LittleEndian.Uint32(data[offset+4+i*4:])
		}

		switch {
		case opcode == opCapability && wordCount >= 2:
			s.Capabilities = append(s.Capabilities, operand(0))
		case opcode == opEntryPoint && wordCount >= 4:
			stage, ok := executionModels[operand(0)]
			if !ok {
				stage = fmt.Sprintf("model %d", operand(0))
			}
			s.EntryPoints = append(s.EntryPoints, EntryPoint{
				Name:  readString(data[offset+12 : offset+wordCount*4]),
				Stage: stage,
			})
		}
		s.Instructions++
		offset += wordCount * 4
	}
	return s, nil
}

// readString decodes a nul-terminated literal string operand.
func readString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
