package cpu

import "ls8/ioports"

// handlerFunc implements one instruction. a and b are the raw operand
// bytes fetched after the opcode — register indices for most
// instructions, an immediate value for LDI's second operand. Handlers
// whose opcode has sets-PC=1 are responsible for updating PC on every
// path; the cycle engine will not auto-advance for them.
type handlerFunc func(c *CPU, a, b byte, out ioports.Output) error

// handlers is the exhaustive, compile-time-populated dispatch table: a
// switch-shaped map from opcode identity to handler, replacing the
// original's string-keyed branchtable. An opcode byte absent from this
// map is an UnknownOpcode fault regardless of what its bitfields decode
// to.
var handlers = map[byte]handlerFunc{
	opHLT:  hHLT,
	opRET:  hRET,
	opIRET: hIRET,
	opPUSH: hPUSH,
	opPOP:  hPOP,
	opPRN:  hPRN,
	opPRA:  hPRA,
	opCALL: hCALL,
	opJMP:  hJMP,
	opJEQ:  hJEQ,
	opJNE:  hJNE,
	opJGT:  hJGT,
	opJLT:  hJLT,
	opJLE:  hJLE,
	opJGE:  hJGE,
	opNOT:  hNOT,
	opLDI:  hLDI,
	opLD:   hLD,
	opST:   hST,
	opADD:  hALU(aluAdd),
	opMUL:  hALU(aluMul),
	opMOD:  hMOD,
	opCMP:  hCMP,
	opAND:  hALU(aluAnd),
	opOR:   hALU(aluOr),
	opXOR:  hALU(aluXor),
	opSHL:  hALU(aluShl),
	opSHR:  hALU(aluShr),
}
