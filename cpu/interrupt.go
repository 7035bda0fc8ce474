package cpu

import (
	"ls8/clock"
	"ls8/ioports"
	"ls8/mem"
)

// pollInterrupts samples the timer and keyboard sources and raises the
// corresponding IS bits. This runs every cycle regardless of whether the
// engine is currently servicing an ISR; only the decision to *service* a
// pending interrupt is gated on that.
func (c *CPU) pollInterrupts(clk clock.Source, in ioports.Input) error {
	now := clk.Seconds()
	if now-c.timerLast >= 1.0 {
		c.Reg[RIS] |= 1 << 0
		c.timerLast = now
	}

	b, ok, err := in.Poll()
	if err != nil {
		return err
	}
	if ok {
		// Preserved for compatibility with the original: the keyboard
		// byte lands at 0xF4, which is also the initial SP. Callers
		// who need keyboard interrupts should pick a lower initial SP
		// or accept the clobber.
		c.Memory.Write(0xF4, b)
		c.Reg[RIS] |= 1 << 1
	}
	return nil
}

// serviceInterrupt services the lowest-numbered pending interrupt, if
// any: pending = IM & IS. Fixed-priority, non-reentrant — arrival of a
// higher-priority source while servicing is deferred until IRET clears
// the in-ISR latch.
func (c *CPU) serviceInterrupt() error {
	pending := c.Reg[RIM] & c.Reg[RIS]
	if pending == 0 {
		return nil
	}

	var i uint
	for i = 0; i < 8; i++ {
		if pending&(1<<i) != 0 {
			break
		}
	}

	c.Reg[RIS] &^= 1 << i
	c.inISR = true

	c.push(c.PC)
	c.push(c.FL)
	for r := R0; r <= RIS; r++ {
		c.push(c.Reg[r])
	}

	if mem.InVectorTable(c.Reg[RSP]) {
		return &Fault{Kind: FaultBadInterruptVector, PC: c.PC}
	}

	vector := mem.VectorTableStart + byte(i)
	c.PC = c.Memory.Read(vector)
	return nil
}
