// Package pipe wraps the operating system's anonymous pipe in a small
// channel abstraction with separately owned endpoints.
package pipe

import (
	"io"
	"os"
	"sync"
)

// Channel is a unidirectional byte stream with bounded internal
// buffering. A Write may accept fewer bytes than offered and a Read
// may return fewer bytes than the buffer holds; callers must account
// on the returned counts, never on the requested lengths.
type Channel interface {
	io.Reader
	io.Writer
	io.Closer
}

// Pipe is an OS-backed Channel. The write end and the read end are
// distinct file descriptors so that each side of a transfer can own
// exactly one of them and never touch the other.
type Pipe struct {
	r *os.File
	w *os.File

	closeR sync.Once
	closeW sync.Once
}

var _ Channel = (*Pipe)(nil)

// New creates an anonymous OS pipe.
func New() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	return &Pipe{r: r, w: w}, nil
}

func (p *Pipe) Read(b []byte) (int, error) { return p.r.Read(b) }

func (p *Pipe) Write(b []byte) (int, error) { return p.w.Write(b) }

// WriteEnd returns the producer-owned endpoint. Closing it closes
// only the write side of the pipe.
func (p *Pipe) WriteEnd() io.WriteCloser { return writeEnd{p} }

// ReadEnd returns the consumer-owned endpoint.
func (p *Pipe) ReadEnd() io.ReadCloser { return readEnd{p} }

// CloseWrite closes the write end. The read end still drains any
// buffered bytes and then sees EOF. Safe to call more than once.
func (p *Pipe) CloseWrite() error {
	var err error
	p.closeW.Do(func() { err = p.w.Close() })

	return err
}

// CloseRead closes the read end. Safe to call more than once.
func (p *Pipe) CloseRead() error {
	var err error
	p.closeR.Do(func() { err = p.r.Close() })

	return err
}

// Close releases both endpoints. It is safe on every exit path,
// including after the endpoints were already closed individually.
func (p *Pipe) Close() error {
	werr := p.CloseWrite()
	rerr := p.CloseRead()

	if werr != nil {
		return werr
	}

	return rerr
}

type writeEnd struct{ p *Pipe }

func (e writeEnd) Write(b []byte) (int, error) { return e.p.w.Write(b) }
func (e writeEnd) Close() error                { return e.p.CloseWrite() }

type readEnd struct{ p *Pipe }

func (e readEnd) Read(b []byte) (int, error) { return e.p.r.Read(b) }
func (e readEnd) Close() error               { return e.p.CloseRead() }
