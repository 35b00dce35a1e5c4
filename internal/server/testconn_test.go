package server

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gbalink/gbalink/internal/host"
)

// timeoutErr mimics the deadline-exceeded error a real socket returns when
// an immediate-deadline poll finds no data.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type fakeAddr string

func (a fakeAddr) Network() string { return "fake" }
func (a fakeAddr) String() string  { return string(a) }

// fakeConn is an in-memory net.Conn with non-blocking read semantics:
// reading with no pending input reports a timeout, exactly like a socket
// polled with an immediate deadline.
type fakeConn struct {
	in  bytes.Buffer
	out bytes.Buffer

	readErr  error // forced read failure (e.g. io.EOF for peer close)
	writeErr error // forced write failure
	closed   bool
}

func (f *fakeConn) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if f.in.Len() == 0 {
		return 0, timeoutErr{}
	}
	return f.in.Read(p)
}

func (f *fakeConn) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	if f.closed {
		return 0, errors.New("use of closed connection")
	}
	return f.out.Write(p)
}

func (f *fakeConn) Close() error                       { f.closed = true; return nil }
func (f *fakeConn) LocalAddr() net.Addr                { return fakeAddr("local") }
func (f *fakeConn) RemoteAddr() net.Addr               { return fakeAddr("remote") }
func (f *fakeConn) SetDeadline(t time.Time) error      { return nil }
func (f *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (f *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

// send queues one request line for the server's next poll.
func (f *fakeConn) send(line string) {
	f.in.WriteString(line + "\n")
}

// lines returns the complete response lines written so far.
func (f *fakeConn) lines() []string {
	out := f.out.String()
	if out == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

// newTestServer builds a server over a fresh MemHost with one fake
// connection pre-registered and no listener.
func newTestServer(t *testing.T) (*Server, *host.MemHost, *fakeConn) {
	t.Helper()
	h := host.NewMemHost()
	s := New(h, Params{}, nil)
	fc := &fakeConn{}
	s.register(fc)
	return s, h, fc
}

// tickFrames runs n emulated frames: the host advances, then the server's
// frame callback runs, mirroring how an embedding drives the server.
func tickFrames(s *Server, h *host.MemHost, n int) {
	for i := 0; i < n; i++ {
		h.AdvanceFrame()
		s.Tick()
	}
}
