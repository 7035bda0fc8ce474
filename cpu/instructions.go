package cpu

import "ls8/ioports"

// hALU builds a handler for the two-register ALU instructions (ADD, MUL,
// AND, OR, XOR, SHL, SHR): Ra <- op(Ra, Rb).
func hALU(op aluOp) handlerFunc {
	return func(c *CPU, a, b byte, _ ioports.Output) error {
		c.Reg[a] = op(c.Reg[a], c.Reg[b])
		return nil
	}
}

// hHLT stops the engine.
func hHLT(c *CPU, _, _ byte, _ ioports.Output) error {
	c.running = false
	return nil
}

// hRET: PC <- [SP]; SP++.
func hRET(c *CPU, _, _ byte, _ ioports.Output) error {
	c.PC = c.pop()
	return nil
}

// hIRET pops R6..R0, then FL, then PC, and clears the in-ISR latch — the
// exact reverse of the push order used on interrupt entry (push R0..R6,
// then FL, then PC).
func hIRET(c *CPU, _, _ byte, _ ioports.Output) error {
	for r := RIS; r >= R0; r-- {
		c.Reg[r] = c.pop()
	}
	c.FL = c.pop()
	c.PC = c.pop()
	c.inISR = false
	return nil
}

// hPUSH: SP--; [SP] <- Ra.
func hPUSH(c *CPU, a, _ byte, _ ioports.Output) error {
	c.push(c.Reg[a])
	return nil
}

// hPOP: Ra <- [SP]; SP++.
func hPOP(c *CPU, a, _ byte, _ ioports.Output) error {
	c.Reg[a] = c.pop()
	return nil
}

// hPRN emits Ra as a decimal integer.
func hPRN(c *CPU, a, _ byte, out ioports.Output) error {
	if err := out.PrintInt(int(c.Reg[a])); err != nil {
		return &Fault{Kind: FaultIOError, PC: c.PC, Err: err}
	}
	return nil
}

// hPRA emits Ra as one ASCII character.
func hPRA(c *CPU, a, _ byte, out ioports.Output) error {
	if err := out.PrintByte(c.Reg[a]); err != nil {
		return &Fault{Kind: FaultIOError, PC: c.PC, Err: err}
	}
	return nil
}

// hCALL: SP--; [SP] <- PC+2; PC <- Ra. The return address is PC+2
// (opcode + one operand byte), not PC+1, since CALL itself occupies two
// bytes in the image.
func hCALL(c *CPU, a, _ byte, _ ioports.Output) error {
	c.push(c.PC + 2)
	c.PC = c.Reg[a]
	return nil
}

// hJMP: PC <- Ra.
func hJMP(c *CPU, a, _ byte, _ ioports.Output) error {
	c.PC = c.Reg[a]
	return nil
}

// jump builds a conditional-branch handler. Because every Jxx opcode has
// sets-PC=1, the handler must set PC on every path: Ra when the
// condition holds, PC+2 (the instruction's own width) otherwise — never
// leaving PC stale on the not-taken path.
func jump(cond func(fl byte) bool) handlerFunc {
	return func(c *CPU, a, _ byte, _ ioports.Output) error {
		if cond(c.FL) {
			c.PC = c.Reg[a]
		} else {
			c.PC += 2
		}
		return nil
	}
}

var (
	hJEQ = jump(func(fl byte) bool { return fl&flagE != 0 })
	hJNE = jump(func(fl byte) bool { return fl&flagE == 0 })
	hJGT = jump(func(fl byte) bool { return fl&flagG != 0 })
	hJLT = jump(func(fl byte) bool { return fl&flagL != 0 })
	hJLE = jump(func(fl byte) bool { return fl&(flagL|flagE) != 0 })
	hJGE = jump(func(fl byte) bool { return fl&(flagG|flagE) != 0 })
)

// hNOT: Ra <- bitwise NOT Ra. Single-operand, unlike the two-register ALU
// ops, so it is not built with hALU.
func hNOT(c *CPU, a, _ byte, _ ioports.Output) error {
	c.Reg[a] = aluNot(c.Reg[a], 0)
	return nil
}

// hLDI: Ra <- b, where b is an immediate byte, not a register index.
func hLDI(c *CPU, a, b byte, _ ioports.Output) error {
	c.Reg[a] = b
	return nil
}

// hLD: Ra <- [Rb].
func hLD(c *CPU, a, b byte, _ ioports.Output) error {
	c.Reg[a] = c.readMem(c.Reg[b])
	return nil
}

// hST: [Ra] <- Rb.
func hST(c *CPU, a, b byte, _ ioports.Output) error {
	c.writeMem(c.Reg[a], c.Reg[b])
	return nil
}

// hMOD: Ra <- Ra % Rb; division by zero is fatal.
func hMOD(c *CPU, a, b byte, _ ioports.Output) error {
	if c.Reg[b] == 0 {
		return &Fault{Kind: FaultDivideByZero, PC: c.PC, Op: opMOD}
	}
	c.Reg[a] %= c.Reg[b]
	return nil
}

// hCMP: FL <- 0; sets exactly one of {E, L, G}.
func hCMP(c *CPU, a, b byte, _ ioports.Output) error {
	c.cmp(c.Reg[a], c.Reg[b])
	return nil
}
