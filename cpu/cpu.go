// Package cpu implements the LS-8, a fictional 8-bit bytecode virtual
// machine: an 8-register file, a 256-byte address space, a flags
// register, and a fetch-decode-execute cycle engine with a two-source
// (timer, keyboard) interrupt subsystem.
package cpu

import (
	"context"
	"fmt"

	"ls8/clock"
	"ls8/ioports"
	"ls8/mem"
)

// Register indices with architectural meaning. R0-R4 are general purpose.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	RIM // R5: Interrupt Mask
	RIS // R6: Interrupt Status
	RSP // R7: Stack Pointer
)

// numRegisters is the size of the general register file.
const numRegisters = 8

// spInit is the Stack Pointer's value at construction; the stack grows
// downward from here.
const spInit = 0xF4

// Flag bits within FL. CMP resets FL to zero before setting exactly one.
const (
	flagE = 1 << 0 // Equal
	flagG = 1 << 1 // Greater
	flagL = 1 << 2 // Less
)

// Exit is the terminal state returned by Step.
type Exit int

const (
	ExitRunning Exit = iota
	ExitHalted
)

// CPU owns memory, the register file, flags, and the running state
// exclusively; the interrupt controller only ever touches IS (R6) and the
// stack region of memory, both of which live here too.
type CPU struct {
	Memory *mem.Memory
	Reg    [numRegisters]byte

	PC uint8
	IR uint8
	FL uint8

	// MAR/MDR are observable for tracing only; they mirror the last
	// memory address and data moved.
	MAR uint8
	MDR uint8

	running bool
	inISR   bool

	// timerLast is the clock.Source reading at which the timer last
	// raised its IS bit; zero-valued at construction, matching a clock
	// that also starts at zero.
	timerLast float64
}

// New returns a CPU with zeroed memory and registers, SP=0xF4, PC=0,
// FL=0, and the running flag set.
func New() *CPU {
	c := &CPU{
		Memory:  mem.New(),
		running: true,
	}
	c.Reg[RSP] = spInit
	return c
}

// LoadByte writes one byte into memory, for use by the loader and by
// tests that build a program image directly.
func (c *CPU) LoadByte(addr uint8, v byte) {
	c.Memory.Write(addr, v)
}

// readMem is a traced memory read: it updates MAR/MDR as a side effect,
// mirroring the teacher's MAR/MDR bookkeeping in ram_read.
func (c *CPU) readMem(addr uint8) byte {
	c.MAR = addr
	c.MDR = c.Memory.Read(addr)
	return c.MDR
}

// writeMem is a traced memory write.
func (c *CPU) writeMem(addr uint8, v byte) {
	c.MAR = addr
	c.MDR = v
	c.Memory.Write(addr, v)
}

// push decrements SP and then writes v to [SP], matching PUSH/CALL/interrupt
// entry. SP wraps modulo 256; no bounds check is performed beyond the
// optional vector-table guard applied by the caller.
func (c *CPU) push(v byte) {
	c.Reg[RSP]--
	c.writeMem(c.Reg[RSP], v)
}

// pop reads [SP] and increments SP, matching POP/RET/IRET.
func (c *CPU) pop() byte {
	v := c.readMem(c.Reg[RSP])
	c.Reg[RSP]++
	return v
}

// Run executes cycles until HLT or a fatal Fault. ctx cancellation is an
// external stop of the Go call — honored only between cycles — and is
// distinct from any guest-visible behaviour, which has no suspension
// points besides HLT.
func (c *CPU) Run(ctx context.Context, clk clock.Source, in ioports.Input, out ioports.Output) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		exit, err := c.Step(clk, in, out)
		if err != nil {
			return err
		}
		if exit == ExitHalted {
			return nil
		}
	}
}

// Step runs exactly one cycle: sample interrupt sources, service the
// highest-priority pending interrupt if not already in one, fetch,
// decode, dispatch, and conditionally advance PC.
func (c *CPU) Step(clk clock.Source, in ioports.Input, out ioports.Output) (Exit, error) {
	if !c.running {
		return ExitHalted, nil
	}

	if err := c.pollInterrupts(clk, in); err != nil {
		return ExitRunning, &Fault{Kind: FaultIOError, PC: c.PC, Err: err}
	}
	if !c.inISR {
		if err := c.serviceInterrupt(); err != nil {
			return ExitRunning, err
		}
	}

	c.IR = c.readMem(c.PC)
	opA := c.readMem(c.PC + 1)
	opB := c.readMem(c.PC + 2)

	d := decode(c.IR)
	if !d.known {
		c.running = false
		return ExitRunning, &Fault{Kind: FaultUnknownOpcode, PC: c.PC, Op: c.IR}
	}

	if err := d.handler(c, opA, opB, out); err != nil {
		c.running = false
		return ExitRunning, err
	}

	if !d.setsPC {
		c.PC += uint8(d.operandCount + 1)
	}

	if !c.running {
		return ExitHalted, nil
	}
	return ExitRunning, nil
}

// FaultKind classifies a fatal cpu.Fault.
type FaultKind int

const (
	FaultUnknownOpcode FaultKind = iota
	FaultDivideByZero
	FaultIOError
	FaultBadInterruptVector
)

// Fault is returned by Step/Run on any condition the cycle engine treats
// as fatal. Guest-visible failures such as stack-pointer wraparound from
// a buggy program are NOT faults; they execute with defined wraparound
// semantics.
type Fault struct {
	Kind FaultKind
	PC   uint8
	Op   uint8
	Err  error
}

func (f *Fault) Error() string {
	switch f.Kind {
	case FaultUnknownOpcode:
		return fmt.Sprintf("cpu: unknown opcode %#02x at pc=%#02x", f.Op, f.PC)
	case FaultDivideByZero:
		return fmt.Sprintf("cpu: division by zero at pc=%#02x", f.PC)
	case FaultIOError:
		return fmt.Sprintf("cpu: i/o fault at pc=%#02x: %v", f.PC, f.Err)
	case FaultBadInterruptVector:
		return fmt.Sprintf("cpu: stack pointer entered vector table at pc=%#02x", f.PC)
	default:
		return fmt.Sprintf("cpu: fault at pc=%#02x", f.PC)
	}
}

func (f *Fault) Unwrap() error {
	return f.Err
}
