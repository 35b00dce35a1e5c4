// Package client provides a Go client for the gbalink control server.
//
// The client is the remote-controller half of the protocol: unlike the
// embedded server it is free to block, so calls wait for their correlated
// response (deferred commands like RunFrames included) under a deadline.
package client

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net"
	"time"

	"github.com/gbalink/gbalink/internal/jval"
	"github.com/gbalink/gbalink/internal/protocol"
)

// DefaultTimeout bounds a single request/response exchange.
const DefaultTimeout = 5 * time.Second

// frameDuration is used to widen the deadline of commands that wait for
// emulated frames.
const frameDuration = time.Second / 60

// ServerError is a failure response from the server.
type ServerError struct {
	Cmd string
	Msg string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cmd, e.Msg)
}

// Client talks to a gbalink server over TCP. It is not safe for concurrent
// use; issue requests from one goroutine.
type Client struct {
	addr    string
	timeout time.Duration

	nc     net.Conn
	reader *bufio.Reader
	nextID float64
}

// New creates a client for the given address. The connection is established
// lazily on first use.
func New(addr string) *Client {
	return &Client{addr: addr, timeout: DefaultTimeout}
}

// SetTimeout overrides the per-exchange deadline.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Connect establishes the TCP connection, replacing any existing one.
func (c *Client) Connect() error {
	if c.nc != nil {
		c.nc.Close()
	}
	nc, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	c.nc = nc
	c.reader = bufio.NewReader(nc)
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.nc == nil {
		return nil
	}
	err := c.nc.Close()
	c.nc = nil
	c.reader = nil
	return err
}

// send issues one command and waits for the response carrying its id.
// extraWait widens the read deadline for commands that span emulated
// frames. A failed write gets a single reconnect attempt before giving up.
func (c *Client) send(cmd string, fields []jval.Member, extraWait time.Duration) (*protocol.Response, error) {
	if c.nc == nil {
		if err := c.Connect(); err != nil {
			return nil, err
		}
	}

	c.nextID++
	id := c.nextID

	members := append([]jval.Member{{Key: "cmd", Value: jval.String(cmd)}}, fields...)
	members = append(members, jval.Member{Key: "id", Value: jval.Number(id)})
	line := jval.Encode(jval.Object(members...)) + "\n"

	c.nc.SetWriteDeadline(time.Now().Add(c.timeout))
	if _, err := c.nc.Write([]byte(line)); err != nil {
		// Connection dropped; reconnect once before giving up.
		if err := c.Connect(); err != nil {
			return nil, err
		}
		c.nc.SetWriteDeadline(time.Now().Add(c.timeout))
		if _, err := c.nc.Write([]byte(line)); err != nil {
			return nil, fmt.Errorf("write %s: %w", cmd, err)
		}
	}

	deadline := time.Now().Add(c.timeout + extraWait)
	for {
		c.nc.SetReadDeadline(deadline)
		raw, err := c.reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", cmd, err)
		}
		resp, err := protocol.DecodeResponse(raw[:len(raw)-1])
		if err != nil {
			return nil, fmt.Errorf("decode %s response: %w", cmd, err)
		}
		// Skip responses correlated to other requests (a previous
		// exchange may have timed out client-side and completed late).
		if resp.HasID && !jval.Equal(resp.ID, jval.Number(id)) {
			continue
		}
		return resp, nil
	}
}

// call is send plus failure-to-error conversion.
func (c *Client) call(cmd string, fields []jval.Member, extraWait time.Duration) (*protocol.Response, error) {
	resp, err := c.send(cmd, fields, extraWait)
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, &ServerError{Cmd: cmd, Msg: resp.Err}
	}
	return resp, nil
}

func num(key string, v float64) jval.Member {
	return jval.Member{Key: key, Value: jval.Number(v)}
}

func str(key, v string) jval.Member {
	return jval.Member{Key: key, Value: jval.String(v)}
}

// Ping verifies the channel without touching emulation state.
func (c *Client) Ping() (string, error) {
	resp, err := c.call(protocol.NamePing, nil, 0)
	if err != nil {
		return "", err
	}
	return resp.Value.StringVal(), nil
}

// Read8 reads a single byte from emulator memory.
func (c *Client) Read8(addr uint32) (uint8, error) {
	resp, err := c.call(protocol.NameRead8, []jval.Member{num("addr", float64(addr))}, 0)
	if err != nil {
		return 0, err
	}
	return uint8(resp.Value.NumberVal()), nil
}

// Read16 reads a 16-bit little-endian value.
func (c *Client) Read16(addr uint32) (uint16, error) {
	resp, err := c.call(protocol.NameRead16, []jval.Member{num("addr", float64(addr))}, 0)
	if err != nil {
		return 0, err
	}
	return uint16(resp.Value.NumberVal()), nil
}

// Read32 reads a 32-bit little-endian value.
func (c *Client) Read32(addr uint32) (uint32, error) {
	resp, err := c.call(protocol.NameRead32, []jval.Member{num("addr", float64(addr))}, 0)
	if err != nil {
		return 0, err
	}
	return uint32(resp.Value.NumberVal()), nil
}

// ReadRange reads n contiguous bytes. The server transports the data as a
// hex string, decoded here.
func (c *Client) ReadRange(addr uint32, n int) ([]byte, error) {
	resp, err := c.call(protocol.NameReadRange, []jval.Member{
		num("addr", float64(addr)),
		num("length", float64(n)),
	}, 0)
	if err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(resp.Value.StringVal())
	if err != nil {
		return nil, fmt.Errorf("decode readRange payload: %w", err)
	}
	return data, nil
}

// Write8 writes a single byte.
func (c *Client) Write8(addr uint32, v uint8) error {
	_, err := c.call(protocol.NameWrite8, []jval.Member{
		num("addr", float64(addr)),
		num("value", float64(v)),
	}, 0)
	return err
}

// Write16 writes a 16-bit value.
func (c *Client) Write16(addr uint32, v uint16) error {
	_, err := c.call(protocol.NameWrite16, []jval.Member{
		num("addr", float64(addr)),
		num("value", float64(v)),
	}, 0)
	return err
}

// Write32 writes a 32-bit value.
func (c *Client) Write32(addr uint32, v uint32) error {
	_, err := c.call(protocol.NameWrite32, []jval.Member{
		num("addr", float64(addr)),
		num("value", float64(v)),
	}, 0)
	return err
}

// Press holds a button for the given number of frames. Acceptance is
// immediate; the hold itself plays out over subsequent frames. A
// non-positive frames count lets the server apply its default.
func (c *Client) Press(button string, frames int) error {
	fields := []jval.Member{str("button", button)}
	if frames > 0 {
		fields = append(fields, num("frames", float64(frames)))
	}
	_, err := c.call(protocol.NamePress, fields, 0)
	return err
}

// GetKeys returns the names of currently asserted buttons.
func (c *Client) GetKeys() ([]string, error) {
	resp, err := c.call(protocol.NameGetKeys, nil, 0)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, item := range resp.Value.Items() {
		names = append(names, item.StringVal())
	}
	return names, nil
}

// Screenshot captures the current frame, returning the image container
// bytes (PNG for stock hosts).
func (c *Client) Screenshot() ([]byte, error) {
	resp, err := c.call(protocol.NameScreenshot, nil, 0)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(resp.Value.StringVal())
	if err != nil {
		return nil, fmt.Errorf("decode screenshot payload: %w", err)
	}
	return data, nil
}

// SaveState saves the emulator state to a numbered slot. A non-positive
// slot lets the server default to slot 1.
func (c *Client) SaveState(slot int) error {
	var fields []jval.Member
	if slot > 0 {
		fields = append(fields, num("slot", float64(slot)))
	}
	_, err := c.call(protocol.NameSaveState, fields, 0)
	return err
}

// LoadState loads the emulator state from a numbered slot.
func (c *Client) LoadState(slot int) error {
	var fields []jval.Member
	if slot > 0 {
		fields = append(fields, num("slot", float64(slot)))
	}
	_, err := c.call(protocol.NameLoadState, fields, 0)
	return err
}

// RunFrames advances emulation by count frames and returns once they have
// elapsed. The read deadline is widened to cover the requested frames.
func (c *Client) RunFrames(count int) error {
	if count < 1 {
		count = 1
	}
	extra := time.Duration(count) * frameDuration
	_, err := c.call(protocol.NameRunFrames, []jval.Member{num("count", float64(count))}, extra)
	return err
}
