package cpu

// aluOp is a pure arithmetic/logic function over register-file values: it
// computes a new value for register a in terms of Reg[a] and Reg[b]. Side
// effects (writing Reg[a], updating FL) are applied by the caller so the
// operator itself stays a pure function of two bytes.
type aluOp func(a, b byte) byte

func aluAdd(a, b byte) byte { return a + b } // mod 256 via byte wraparound
func aluMul(a, b byte) byte { return a * b }
func aluAnd(a, b byte) byte { return a & b }
func aluOr(a, b byte) byte  { return a | b }
func aluXor(a, b byte) byte { return a ^ b }
func aluShl(a, b byte) byte { return a << b }
func aluShr(a, b byte) byte { return a >> b }
func aluNot(a, _ byte) byte { return ^a }

// cmp resets FL to zero, then sets exactly one of {E, L, G}.
func (c *CPU) cmp(a, b byte) {
	c.FL = 0
	switch {
	case a == b:
		c.FL |= flagE
	case a < b:
		c.FL |= flagL
	default:
		c.FL |= flagG
	}
}
