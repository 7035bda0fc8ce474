package cpu

import "ls8/mask"

// Opcode mnemonics and their one-byte encodings, per the authoritative
// instruction table. The bit layout of every value below is
//
//	AA B C DDDD
//
// AA (bits 7-6) operand count, B (bit 5) ALU flag (informational only), C
// (bit 4) sets-PC, DDDD (bits 3-0) identity within the group.
const (
	opHLT  byte = 0x01
	opRET  byte = 0x11
	opIRET byte = 0x13
	opPUSH byte = 0x45
	opPOP  byte = 0x46
	opPRN  byte = 0x47
	opPRA  byte = 0x48
	opCALL byte = 0x50
	opJMP  byte = 0x54
	opJEQ  byte = 0x55
	opJNE  byte = 0x56
	opJGT  byte = 0x57
	opJLT  byte = 0x58
	opJLE  byte = 0x59
	opJGE  byte = 0x5A
	opNOT  byte = 0x69
	opLDI  byte = 0x82
	opLD   byte = 0x83
	opST   byte = 0x84
	opADD  byte = 0xA0
	opMUL  byte = 0xA2
	opMOD  byte = 0xA4
	opCMP  byte = 0xA7
	opAND  byte = 0xA8
	opOR   byte = 0xAA
	opXOR  byte = 0xAB
	opSHL  byte = 0xAC
	opSHR  byte = 0xAD
)

// mnemonic maps an opcode byte to its human-readable name. No code in the
// repository reads it; the -trace CLI diagnostic prints raw opcode bytes.
var mnemonic = map[byte]string{
	opHLT: "HLT", opRET: "RET", opIRET: "IRET", opPUSH: "PUSH", opPOP: "POP",
	opPRN: "PRN", opPRA: "PRA", opCALL: "CALL", opJMP: "JMP", opJEQ: "JEQ",
	opJNE: "JNE", opJGT: "JGT", opJLT: "JLT", opJLE: "JLE", opJGE: "JGE",
	opNOT: "NOT", opLDI: "LDI", opLD: "LD", opST: "ST", opADD: "ADD",
	opMUL: "MUL", opMOD: "MOD", opCMP: "CMP", opAND: "AND", opOR: "OR",
	opXOR: "XOR", opSHL: "SHL", opSHR: "SHR",
}

// decoded is the pure result of decoding one opcode byte: how many operand
// bytes follow it, whether its handler is responsible for the next PC, and
// which handler services it.
type decoded struct {
	operandCount int
	setsPC       bool
	handler      handlerFunc
	known        bool
}

// decode extracts operandCount and setsPC from the opcode's bitfields —
// AA (bits 7-6) and C (bit 4), using mask's 1-indexed bit helpers exactly
// as the teacher carves up its own status byte — then looks up the
// handler by full opcode identity. An opcode absent from the handler
// table is unknown regardless of what its bitfields say.
func decode(op byte) decoded {
	operandCount := int(mask.First(op, 2))
	setsPC := mask.IsSet(op, 4)

	h, ok := handlers[op]
	return decoded{
		operandCount: operandCount,
		setsPC:       setsPC,
		handler:      h,
		known:        ok,
	}
}
