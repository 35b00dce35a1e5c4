package server

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/gbalink/gbalink/internal/host"
	"github.com/gbalink/gbalink/internal/jval"
	"github.com/gbalink/gbalink/internal/protocol"
)

// dispatch maps one decoded request to a host capability call. It returns
// either an immediate response or deferred=true when the answer belongs to
// a later tick (the entry is already enqueued). The dispatcher itself never
// touches a socket; its only side effects are host calls and queue pushes.
//
// A panic out of a handler is converted into a failure response here so one
// misbehaving command cannot stop the tick loop or hurt other connections.
func (s *Server) dispatch(c *conn, req *protocol.Request) (resp *protocol.Response, deferred bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panicked", "conn", c.id, "cmd", req.Cmd, "panic", r)
			resp = protocol.NewErrorResponsef("internal error handling %s", req.Cmd).WithID(req)
			deferred = false
		}
	}()

	if req.Cmd == "" {
		return protocol.NewErrorResponse("missing cmd field").WithID(req), false
	}

	switch protocol.ParseCommand(req.Cmd) {
	case protocol.CmdPing:
		// Channel liveness only; does not touch the host.
		return protocol.NewOKResponse(jval.String("pong")).WithID(req), false

	case protocol.CmdRead8:
		v, err := s.host.Read8(reqAddr(req))
		return readReply(req, uint32(v), err)

	case protocol.CmdRead16:
		v, err := s.host.Read16(reqAddr(req))
		return readReply(req, uint32(v), err)

	case protocol.CmdRead32:
		v, err := s.host.Read32(reqAddr(req))
		return readReply(req, v, err)

	case protocol.CmdReadRange:
		length := int(req.NumberField("length", 1))
		if length <= 0 {
			length = 1
		}
		data, err := s.host.ReadRange(reqAddr(req), length)
		if err != nil {
			return protocol.NewErrorResponse(err.Error()).WithID(req), false
		}
		return protocol.NewOKResponse(jval.String(hex.EncodeToString(data))).WithID(req), false

	case protocol.CmdWrite8:
		err := s.host.Write8(reqAddr(req), uint8(req.NumberField("value", 0)))
		return writeReply(req, err)

	case protocol.CmdWrite16:
		err := s.host.Write16(reqAddr(req), uint16(req.NumberField("value", 0)))
		return writeReply(req, err)

	case protocol.CmdWrite32:
		err := s.host.Write32(reqAddr(req), uint32(req.NumberField("value", 0)))
		return writeReply(req, err)

	case protocol.CmdPress:
		name := req.StringField("button")
		key, ok := host.KeyByName(name)
		if !ok {
			return protocol.NewErrorResponsef("unknown button: %s", name).WithID(req), false
		}
		frames := int(req.NumberField("frames", float64(s.holdFrames)))
		if frames <= 0 {
			return protocol.NewErrorResponse("frames must be positive").WithID(req), false
		}
		// The hold runs asynchronously across ticks, but its acceptance
		// is synchronous.
		s.holdsNew = append(s.holdsNew, holdEntry{key: key, remaining: frames})
		return protocol.NewEmptyResponse().WithID(req), false

	case protocol.CmdGetKeys:
		names := s.host.KeyState().Names()
		items := make([]jval.Value, len(names))
		for i, n := range names {
			items[i] = jval.String(n)
		}
		return protocol.NewOKResponse(jval.Array(items...)).WithID(req), false

	case protocol.CmdScreenshot:
		data, err := s.host.CaptureFrame()
		if err != nil {
			return protocol.NewErrorResponse(err.Error()).WithID(req), false
		}
		return protocol.NewOKResponse(jval.String(base64.StdEncoding.EncodeToString(data))).WithID(req), false

	case protocol.CmdSaveState:
		return writeReply(req, s.host.SaveState(int(req.NumberField("slot", 1))))

	case protocol.CmdLoadState:
		return writeReply(req, s.host.LoadState(int(req.NumberField("slot", 1))))

	case protocol.CmdRunFrames:
		count := int(req.NumberField("count", 1))
		if count < 1 {
			count = 1
		}
		s.deferredNew = append(s.deferredNew, deferredEntry{
			owner:     c,
			remaining: count,
			id:        req.ID,
			hasID:     req.HasID,
		})
		return nil, true

	default:
		return protocol.NewErrorResponsef("unknown command: %s", req.Cmd).WithID(req), false
	}
}

func reqAddr(req *protocol.Request) uint32 {
	return uint32(req.NumberField("addr", 0))
}

// readReply renders a scalar read as a decimal number, or the host's error
// text on rejection.
func readReply(req *protocol.Request, v uint32, err error) (*protocol.Response, bool) {
	if err != nil {
		return protocol.NewErrorResponse(err.Error()).WithID(req), false
	}
	return protocol.NewOKResponse(jval.Number(float64(v))).WithID(req), false
}

// writeReply is the shared success-with-no-value / host-error reply shape.
func writeReply(req *protocol.Request, err error) (*protocol.Response, bool) {
	if err != nil {
		return protocol.NewErrorResponse(err.Error()).WithID(req), false
	}
	return protocol.NewEmptyResponse().WithID(req), false
}
