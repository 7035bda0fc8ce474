// Command ls8 loads a program image and runs it on the LS-8 virtual
// machine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"ls8/clock"
	"ls8/cpu"
	"ls8/ioports"
	"ls8/loader"
)

var (
	flagTrace    bool
	flagIM       string
	flagRawInput bool
)

func main() {
	flag.BoolVar(&flagTrace, "trace", false, "print a per-cycle trace line to stderr")
	flag.StringVar(&flagIM, "im", "0x00", "initial Interrupt Mask register (R5), 0x-prefixed or decimal")
	flag.BoolVar(&flagRawInput, "raw-input", false, "put the terminal in raw mode for single-keystroke keyboard interrupts")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ls8 [flags] <image-file>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ls8: %s: %v\n", path, err)
		os.Exit(2)
	}
	defer f.Close()

	c := cpu.New()
	if err := loader.Load(f, c.Memory); err != nil {
		fmt.Fprintf(os.Stderr, "ls8: %v\n", err)
		os.Exit(2)
	}

	im, err := strconv.ParseUint(flagIM, 0, 8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ls8: bad -im value %q: %v\n", flagIM, err)
		os.Exit(1)
	}
	c.Reg[cpu.RIM] = byte(im)

	in, cleanup := setupInput()
	defer cleanup()

	out := ioports.NewStdout(os.Stdout)
	clk := clock.NewReal()

	var runErr error
	if flagTrace {
		runErr = runTraced(c, clk, in, out)
	} else {
		runErr = c.Run(context.Background(), clk, in, out)
	}

	if runErr != nil {
		var fault *cpu.Fault
		if errors.As(runErr, &fault) {
			fmt.Fprintf(os.Stderr, "ls8: %v\n", fault)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "ls8: %v\n", runErr)
		os.Exit(1)
	}
}

// setupInput picks a keyboard Input source: raw single-keystroke mode
// when requested and stdin is a terminal, line-buffered otherwise (the
// only safe choice for pipes, redirected files, or tests).
func setupInput() (ioports.Input, func()) {
	if flagRawInput {
		raw, err := ioports.NewRawStdinReader(int(os.Stdin.Fd()))
		if err == nil {
			return raw, func() { _ = raw.Restore() }
		}
		fmt.Fprintf(os.Stderr, "ls8: raw input unavailable, falling back to line-buffered stdin: %v\n", err)
	}
	return ioports.NewStdinReader(os.Stdin), func() {}
}

// runTraced mirrors c.Run but logs PC/IR/operands/registers before every
// cycle, in the spirit of the original's trace() method and the
// teacher's own (commented-out) tracing scaffolding.
func runTraced(c *cpu.CPU, clk clock.Source, in ioports.Input, out ioports.Output) error {
	logger := log.New(os.Stderr, "", 0)
	for {
		logger.Printf("TRACE: pc=%#02x ir=%#02x a=%#02x b=%#02x reg=%v",
			c.PC, c.Memory.Read(c.PC), c.Memory.Read(c.PC+1), c.Memory.Read(c.PC+2), c.Reg)
		exit, err := c.Step(clk, in, out)
		if err != nil {
			return err
		}
		if exit == cpu.ExitHalted {
			return nil
		}
	}
}
