// Package ioports provides the non-blocking keyboard input source and the
// PRA/PRN output sink the cycle engine is wired against. Neither
// implementation may block the caller: a blocked read would stall the VM
// and starve the timer interrupt, per the engine's concurrency model.
package ioports

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Input is polled once per cycle, before fetch. It must never block.
type Input interface {
	// Poll returns the next available byte, if any. ok is false when no
	// byte is currently available; it is not an error.
	Poll() (b byte, ok bool, err error)
}

// StdinReader is a line-buffered, non-blocking Input backed by a
// background goroutine reading os.Stdin (or any io.Reader) into a
// channel. Safe on pipes, redirected files, and in tests; requires a
// newline to deliver a byte, since raw terminal access is not assumed.
type StdinReader struct {
	bytes chan byte
	errs  chan error
}

// NewStdinReader starts the background reader goroutine over r.
func NewStdinReader(r io.Reader) *StdinReader {
	s := &StdinReader{
		bytes: make(chan byte, 64),
		errs:  make(chan error, 1),
	}
	go s.loop(r)
	return s
}

func (s *StdinReader) loop(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		s.bytes <- line[0]
	}
	if err := sc.Err(); err != nil {
		s.errs <- err
	}
}

func (s *StdinReader) Poll() (byte, bool, error) {
	select {
	case b := <-s.bytes:
		return b, true, nil
	case err := <-s.errs:
		return 0, false, err
	default:
		return 0, false, nil
	}
}

// RawStdinReader is a non-blocking Input built on an unbuffered
// (cbreak/raw mode) terminal via golang.org/x/term, delivering single
// keystrokes without waiting on Enter. Grounded in the same dependency's
// use for raw console input elsewhere in the example corpus.
type RawStdinReader struct {
	fd       int
	oldState *term.State
	bytes    chan byte
	errs     chan error
}

// NewRawStdinReader puts fd (typically int(os.Stdin.Fd())) into raw mode
// and starts a background reader goroutine. Callers must call Restore
// when done to return the terminal to its prior state.
func NewRawStdinReader(fd int) (*RawStdinReader, error) {
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("ioports: entering raw mode: %w", err)
	}
	r := &RawStdinReader{
		fd:       fd,
		oldState: old,
		bytes:    make(chan byte, 64),
		errs:     make(chan error, 1),
	}
	go r.loop()
	return r, nil
}

func (r *RawStdinReader) loop() {
	buf := make([]byte, 1)
	f := os.NewFile(uintptr(r.fd), "raw-stdin")
	for {
		n, err := f.Read(buf)
		if n > 0 {
			r.bytes <- buf[0]
		}
		if err != nil {
			r.errs <- err
			return
		}
	}
}

func (r *RawStdinReader) Poll() (byte, bool, error) {
	select {
	case b := <-r.bytes:
		return b, true, nil
	case err := <-r.errs:
		return 0, false, err
	default:
		return 0, false, nil
	}
}

// Restore returns the terminal to the state it was in before MakeRaw.
func (r *RawStdinReader) Restore() error {
	return term.Restore(r.fd, r.oldState)
}

// FakeInput is a queue-backed Input for deterministic tests.
type FakeInput struct {
	queue []byte
}

// NewFakeInput returns a FakeInput that will yield bytes in order.
func NewFakeInput(bytes ...byte) *FakeInput {
	return &FakeInput{queue: append([]byte(nil), bytes...)}
}

// Push appends a byte to the end of the queue, for tests that feed input
// mid-run.
func (f *FakeInput) Push(b byte) {
	f.queue = append(f.queue, b)
}

func (f *FakeInput) Poll() (byte, bool, error) {
	if len(f.queue) == 0 {
		return 0, false, nil
	}
	b := f.queue[0]
	f.queue = f.queue[1:]
	return b, true, nil
}
