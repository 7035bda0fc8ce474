package cpu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"ls8/clock"
	"ls8/ioports"
)

// loadBytes writes prog starting at address 0.
func loadBytes(c *CPU, prog ...byte) {
	for i, b := range prog {
		c.LoadByte(uint8(i), b)
	}
}

func TestNewInitialState(t *testing.T) {
	c := New()
	assert.Equal(t, byte(spInit), c.Reg[RSP])
	assert.Equal(t, uint8(0), c.PC)
	assert.Equal(t, uint8(0), c.FL)
	assert.True(t, c.running)
}

func TestLDIAndPRN(t *testing.T) {
	// S1: Print 8
	loadBytesProgram := []byte{opLDI, 0x00, 0x08, opPRN, 0x00, opHLT}
	c := New()
	loadBytes(c, loadBytesProgram...)

	rec := ioports.NewRecorder()
	err := c.Run(context.Background(), clock.NewFake(), ioports.NewFakeInput(), rec)
	assert.NoError(t, err)
	assert.Equal(t, "8\n", rec.String())
	assert.False(t, c.running)
}

func TestMUL(t *testing.T) {
	// S2: Multiply
	c := New()
	loadBytes(c,
		opLDI, 0x00, 8,
		opLDI, 0x01, 9,
		opMUL, 0x00, 0x01,
		opPRN, 0x00,
		opHLT,
	)
	rec := ioports.NewRecorder()
	err := c.Run(context.Background(), clock.NewFake(), ioports.NewFakeInput(), rec)
	assert.NoError(t, err)
	assert.Equal(t, "72\n", rec.String())
}

func TestStackRoundTrip(t *testing.T) {
	// S3 plus invariant 3: PUSH Rn; POP Rm leaves Rm==Rn, SP unchanged.
	c := New()
	loadBytes(c,
		opLDI, 0x00, 42,
		opPUSH, 0x00,
		opLDI, 0x00, 0,
		opPOP, 0x00,
		opPRN, 0x00,
		opHLT,
	)
	spBefore := c.Reg[RSP]
	rec := ioports.NewRecorder()
	err := c.Run(context.Background(), clock.NewFake(), ioports.NewFakeInput(), rec)
	assert.NoError(t, err)
	assert.Equal(t, "42\n", rec.String())
	assert.Equal(t, spBefore, c.Reg[RSP])
}

func TestPushPopInvariant(t *testing.T) {
	c := New()
	c.Reg[R1] = 0x99
	spBefore := c.Reg[RSP]
	_ = hPUSH(c, R1, 0, nil)
	_ = hPOP(c, R2, 0, nil)
	assert.Equal(t, c.Reg[R1], c.Reg[R2])
	assert.Equal(t, spBefore, c.Reg[RSP])
}

func TestCallRet(t *testing.T) {
	// S4: Call/Ret
	c := New()
	loadBytes(c,
		opLDI, 0x01, 10, // 0: target address of subroutine
		opCALL, 0x01, // 3
		opPRN, 0x00, // 5
		opHLT, // 7
	)
	c.LoadByte(10, opLDI)
	c.LoadByte(11, 0x00)
	c.LoadByte(12, 99)
	c.LoadByte(13, opRET)

	rec := ioports.NewRecorder()
	err := c.Run(context.Background(), clock.NewFake(), ioports.NewFakeInput(), rec)
	assert.NoError(t, err)
	assert.Equal(t, "99\n", rec.String())
}

func TestCallReturnsToPCPlusTwo(t *testing.T) {
	// Invariant 4: after CALL Ra; ...; RET, PC equals the address
	// immediately after CALL, given the callee preserves SP.
	c := New()
	loadBytes(c,
		opLDI, 0x01, 10,
		opCALL, 0x01, // at addr 3-4; return address pushed is 5
		opHLT, // addr 5
	)
	c.LoadByte(10, opRET)

	_, err := c.Step(clock.NewFake(), ioports.NewFakeInput(), nil) // LDI
	assert.NoError(t, err)
	_, err = c.Step(clock.NewFake(), ioports.NewFakeInput(), nil) // CALL
	assert.NoError(t, err)
	assert.Equal(t, uint8(10), c.PC)
	_, err = c.Step(clock.NewFake(), ioports.NewFakeInput(), nil) // RET
	assert.NoError(t, err)
	assert.Equal(t, uint8(5), c.PC)
}

func TestCmpAndJeqExactlyOnePRN(t *testing.T) {
	// S5: compares twice with different values; the equal comparison
	// jumps over its PRN, the unequal one falls through into its PRN.
	// Exactly one PRN must fire.
	c := New()
	loadBytes(c,
		opLDI, 0x00, 5, // 0-2
		opLDI, 0x01, 5, // 3-5
		opLDI, 0x02, 5, // 6-8
		opLDI, 0x03, 9, // 9-11
		opCMP, 0x00, 0x01, // 12-14: 5==5, sets E
		opLDI, 0x04, 22, // 15-17: skip target, past the first PRN
		opJEQ, 0x04, // 18-19: taken
		opPRN, 0x00, // 20-21: skipped
		opCMP, 0x02, 0x03, // 22-24: 5!=9, sets L
		opLDI, 0x04, 32, // 25-27: unused, not taken
		opJEQ, 0x04, // 28-29: not taken, PC += 2
		opPRN, 0x02, // 30-31: fires
		opHLT, // 32
	)

	rec := ioports.NewRecorder()
	err := c.Run(context.Background(), clock.NewFake(), ioports.NewFakeInput(), rec)
	assert.NoError(t, err)
	assert.Equal(t, "5\n", rec.String())
}

func TestCmpFlagsInvariant(t *testing.T) {
	// Invariant 2: CMP sets exactly one of {E, L, G}.
	c := New()
	c.cmp(3, 3)
	assert.Equal(t, byte(flagE), c.FL)
	c.cmp(3, 5)
	assert.Equal(t, byte(flagL), c.FL)
	c.cmp(5, 3)
	assert.Equal(t, byte(flagG), c.FL)
}

func TestArithmeticWraps(t *testing.T) {
	// Invariant 7: all arithmetic results land in 0..=255.
	c := New()
	c.Reg[R0] = 250
	c.Reg[R1] = 10
	_ = hALU(aluAdd)(c, R0, R1, nil)
	assert.Equal(t, byte(4), c.Reg[R0]) // 260 mod 256
}

func TestPCAdvanceInvariant(t *testing.T) {
	// Invariant 1: non-sets-PC handlers advance PC by operandCount+1.
	c := New()
	loadBytes(c, opLDI, 0x00, 8, opHLT)
	pcBefore := c.PC
	_, err := c.Step(clock.NewFake(), ioports.NewFakeInput(), nil)
	assert.NoError(t, err)
	assert.Equal(t, pcBefore+3, c.PC) // LDI has 2 operands
}

func TestModDivideByZero(t *testing.T) {
	c := New()
	c.Reg[R0] = 10
	c.Reg[R1] = 0
	err := hMOD(c, R0, R1, nil)
	var fault *Fault
	assert.ErrorAs(t, err, &fault)
	assert.Equal(t, FaultDivideByZero, fault.Kind)
}

func TestUnknownOpcodeFaults(t *testing.T) {
	c := New()
	c.LoadByte(0, 0xFF) // not in the handler table
	_, err := c.Step(clock.NewFake(), ioports.NewFakeInput(), nil)
	var fault *Fault
	assert.ErrorAs(t, err, &fault)
	assert.Equal(t, FaultUnknownOpcode, fault.Kind)
	assert.False(t, c.running)
}

func TestNotAndLogic(t *testing.T) {
	c := New()
	c.Reg[R0] = 0b1010_1010
	_ = hNOT(c, R0, 0, nil)
	assert.Equal(t, byte(0b0101_0101), c.Reg[R0])
}

func TestJumpSetsPCOnBothPaths(t *testing.T) {
	c := New()
	c.Reg[R0] = 0x50
	c.FL = 0 // not equal
	c.PC = 10
	_ = hJEQ(c, R0, 0, nil)
	assert.Equal(t, uint8(12), c.PC) // not taken: PC += 2

	c.FL = flagE
	c.PC = 10
	_ = hJEQ(c, R0, 0, nil)
	assert.Equal(t, uint8(0x50), c.PC) // taken: PC = Ra
}
