package ioports

import (
	"fmt"
	"io"
)

// Output is the sink PRN and PRA write to. A blocked sink is the caller's
// problem, not the engine's.
type Output interface {
	PrintInt(n int) error
	PrintByte(b byte) error
}

// Stdout writes PRN as a decimal line and PRA as a raw ASCII byte to an
// io.Writer, matching the Python original's print(...) / print(chr(...))
// behaviour.
type Stdout struct {
	w io.Writer
}

// NewStdout wraps w (typically os.Stdout) as an Output.
func NewStdout(w io.Writer) *Stdout {
	return &Stdout{w: w}
}

func (s *Stdout) PrintInt(n int) error {
	_, err := fmt.Fprintln(s.w, n)
	return err
}

func (s *Stdout) PrintByte(b byte) error {
	_, err := fmt.Fprint(s.w, string(rune(b)))
	return err
}

// Recorder buffers PRN/PRA emissions in order, for tests that assert on
// the exact output sequence of a seed program.
type Recorder struct {
	Ints  []int
	Bytes []byte
	Order []rune // 'n' for PrintInt, 'a' for PrintByte, in call order
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) PrintInt(n int) error {
	r.Ints = append(r.Ints, n)
	r.Order = append(r.Order, 'n')
	return nil
}

func (r *Recorder) PrintByte(b byte) error {
	r.Bytes = append(r.Bytes, b)
	r.Order = append(r.Order, 'a')
	return nil
}

// String renders PRN emissions as decimal and PRA emissions as raw
// characters, interleaved in call order — the same text a real terminal
// would show.
func (r *Recorder) String() string {
	var out []byte
	ni, ai := 0, 0
	for _, kind := range r.Order {
		switch kind {
		case 'n':
			out = append(out, []byte(fmt.Sprintf("%d\n", r.Ints[ni]))...)
			ni++
		case 'a':
			out = append(out, r.Bytes[ai])
			ai++
		}
	}
	return string(out)
}
