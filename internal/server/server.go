// Package server implements the frame-synchronized control server that is
// embedded in an emulator and driven from its per-frame callback.
//
// The server shares the emulator's single execution thread, so nothing here
// blocks: sockets are polled with immediate deadlines, and commands that
// span frames (input holds, multi-frame waits) are bookkept in queues that
// the scheduler advances once per tick. All mutable state (connection
// registry, hold queue, deferred queue) is owned by the Server value and
// touched only from Tick; there is no locking because there is no
// concurrent access to preserve it for.
package server

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/gbalink/gbalink/internal/host"
	"github.com/gbalink/gbalink/internal/jval"
	"github.com/gbalink/gbalink/internal/logging"
	"github.com/gbalink/gbalink/internal/protocol"
)

const (
	// DefaultHoldFrames is how long a press holds its button when the
	// request omits "frames".
	DefaultHoldFrames = 10

	// defaultWriteTimeout bounds a best-effort write. Far below a 60 fps
	// frame budget.
	defaultWriteTimeout = 2 * time.Millisecond

	readChunkSize = 4096
)

// deadlineListener is the subset of *net.TCPListener the server needs; the
// deadline is what makes accept polls non-blocking.
type deadlineListener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// holdEntry is one active input hold: the key stays asserted while
// remaining > 0, decremented once per tick.
type holdEntry struct {
	key       host.Keys
	remaining int
}

// deferredEntry is one pending multi-frame completion. It produces exactly
// one response over its lifetime, even if its connection disconnects
// mid-flight (then the write is attempted and its failure swallowed).
type deferredEntry struct {
	owner     *conn
	remaining int
	id        jval.Value
	hasID     bool
}

// Params configures optional server behavior; zero values select defaults.
type Params struct {
	HoldFrames   int           // default press duration in frames
	WriteTimeout time.Duration // best-effort write deadline
}

// Server is the protocol server. Construct with New, bind with Start, then
// call Tick exactly once per emulated frame from the host's frame callback.
// Tick and Stop must be called from the same goroutine; Server is not safe
// for concurrent use, by design.
type Server struct {
	host   host.Host
	logger *slog.Logger

	listener deadlineListener
	conns    []*conn

	holdFrames   int
	writeTimeout time.Duration

	holds    []holdEntry
	deferred []deferredEntry

	// Entries created during the current tick's I/O pass are staged here
	// so their countdown begins on the next tick, not this one.
	holdsNew    []holdEntry
	deferredNew []deferredEntry

	readScratch [readChunkSize]byte
}

// New creates a server driving the given host. Log output goes to
// logWriter in the usual structured format.
func New(h host.Host, params Params, logWriter io.Writer) *Server {
	if h == nil {
		panic("host must not be nil")
	}
	if params.HoldFrames <= 0 {
		params.HoldFrames = DefaultHoldFrames
	}
	if params.WriteTimeout <= 0 {
		params.WriteTimeout = defaultWriteTimeout
	}
	return &Server{
		host:         h,
		logger:       logging.NewLogger(logWriter),
		holdFrames:   params.HoldFrames,
		writeTimeout: params.WriteTimeout,
	}
}

// Start binds the listening socket. The socket is only ever polled from
// Tick; Start itself spawns nothing.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln.(*net.TCPListener)
	s.logger.Info("listening", "addr", ln.Addr())
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes the listener and all registered connections.
func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
		s.listener = nil
	}
	for _, c := range s.conns {
		c.nc.Close()
	}
	s.conns = nil
}

// Tick is the cooperative entry point, invoked once per emulated frame. It
// runs the I/O pass (accept, poll, dispatch, respond) and then the queue
// pass (advance holds and deferred completions), and returns without
// suspending: any waiting is expressed as queued state for later ticks.
func (s *Server) Tick() {
	s.ioPass()
	s.queuePass()
}

func (s *Server) ioPass() {
	s.acceptOne()

	// Snapshot: polling may deregister connections mid-iteration.
	active := make([]*conn, len(s.conns))
	copy(active, s.conns)
	for _, c := range active {
		line, ok := s.pollLine(c)
		if !ok {
			continue
		}
		s.handleLine(c, line)
	}
}

// handleLine decodes and dispatches one request line, writing the response
// for immediate outcomes. Deferred outcomes were already enqueued by the
// dispatcher and are answered by a later tick's queue pass.
func (s *Server) handleLine(c *conn, line string) {
	req, err := protocol.DecodeRequest(line)
	if err != nil {
		// The id cannot be recovered from a malformed line, so the
		// failure response carries none.
		s.write(c, protocol.NewErrorResponsef("invalid request: %v", err).Encode())
		return
	}

	resp, deferred := s.dispatch(c, req)
	if deferred {
		return
	}
	s.write(c, resp.Encode())
}

// queuePass advances both frame-synchronized queues by one tick.
func (s *Server) queuePass() {
	// Input holds: the injected mask is the union of entries active this
	// tick, recomputed fresh (asserting before decrementing means a
	// hold's final eligible frame still asserts its key). Entries staged
	// during this tick's I/O pass join afterwards, so their first
	// asserted frame is the next tick.
	var mask host.Keys
	keep := s.holds[:0]
	for _, e := range s.holds {
		mask |= e.key
		e.remaining--
		if e.remaining > 0 {
			keep = append(keep, e)
		}
	}
	s.holds = append(keep, s.holdsNew...)
	s.holdsNew = nil
	s.host.InjectKeys(mask)

	// Deferred completions: each entry responds exactly once, on the tick
	// its counter reaches zero. If the owner disconnected mid-flight the
	// write fails and is swallowed; the entry is removed regardless.
	keepDef := s.deferred[:0]
	for _, e := range s.deferred {
		e.remaining--
		if e.remaining > 0 {
			keepDef = append(keepDef, e)
			continue
		}
		resp := protocol.NewEmptyResponse().WithCorrelation(e.id, e.hasID)
		s.write(e.owner, resp.Encode())
	}
	s.deferred = append(keepDef, s.deferredNew...)
	s.deferredNew = nil
}
