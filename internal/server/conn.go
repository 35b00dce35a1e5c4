package server

import (
	"bytes"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
)

// conn is one registered client connection. The registry on Server is its
// sole owner: once deregistered, no live reference remains except inside
// already-enqueued deferred entries, whose final write is best-effort.
type conn struct {
	id string
	nc net.Conn

	// buf accumulates bytes that have not yet formed a complete line.
	buf []byte
}

func newConn(nc net.Conn) *conn {
	return &conn{id: uuid.NewString(), nc: nc}
}

// takeLine extracts the next complete newline-terminated line from the
// buffer, leaving any trailing partial data for the next poll. A trailing
// carriage return is stripped.
func (c *conn) takeLine() (string, bool) {
	i := bytes.IndexByte(c.buf, '\n')
	if i < 0 {
		return "", false
	}
	line := c.buf[:i]
	c.buf = c.buf[i+1:]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return string(line), true
}

// isWouldBlock reports whether err is the immediate-deadline timeout that
// stands in for "no data available" on a non-blocking poll.
func isWouldBlock(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// acceptOne performs exactly one non-blocking accept attempt and registers
// the connection if one was pending. One accept per tick keeps tick cost
// bounded under a connect burst.
func (s *Server) acceptOne() {
	if s.listener == nil {
		return
	}
	s.listener.SetDeadline(time.Now())
	nc, err := s.listener.Accept()
	if err != nil {
		if !isWouldBlock(err) && !errors.Is(err, net.ErrClosed) {
			s.logger.Warn("accept failed", "error", err)
		}
		return
	}
	s.register(nc)
}

func (s *Server) register(nc net.Conn) *conn {
	c := newConn(nc)
	s.conns = append(s.conns, c)
	s.logger.Info("client connected", "conn", c.id, "remote", nc.RemoteAddr())
	return c
}

// deregister removes c from the registry and closes its socket. Safe to
// call for an already-removed connection (the deferred-completion path may
// race a disconnect within one tick).
func (s *Server) deregister(c *conn, reason string) {
	for i, rc := range s.conns {
		if rc == c {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			s.logger.Info("client disconnected", "conn", c.id, "reason", reason)
			break
		}
	}
	c.nc.Close()
}

// pollLine performs one non-blocking read attempt for c and returns the
// next complete line, if any. "Would block" is not an error; a genuine I/O
// error or peer close deregisters the connection. Each call yields at most
// one framed line so per-tick work stays bounded.
func (s *Server) pollLine(c *conn) (string, bool) {
	if line, ok := c.takeLine(); ok {
		return line, true
	}

	c.nc.SetReadDeadline(time.Now())
	n, err := c.nc.Read(s.readScratch[:])
	if n > 0 {
		c.buf = append(c.buf, s.readScratch[:n]...)
	}
	if err != nil && !isWouldBlock(err) {
		s.deregister(c, "read: "+err.Error())
		return "", false
	}
	return c.takeLine()
}

// write sends one protocol line, best-effort and non-blocking. A short
// write deadline bounds the worst case well under a frame budget; any
// failure silently deregisters the connection, since a disconnected peer
// cannot be told about its own disconnect.
func (s *Server) write(c *conn, line string) {
	c.nc.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if _, err := c.nc.Write(append([]byte(line), '\n')); err != nil {
		s.deregister(c, "write: "+err.Error())
	}
}
