// Package protocol defines the line-oriented JSON protocol between control
// clients and the emulator-side server.
//
// Each line is one JSON object. Requests carry a required "cmd" field, an
// optional free-form "id" used purely for response correlation, and
// command-specific fields. Responses carry "ok", then either "value" or
// "error", and echo the request's "id" verbatim when one was present.
package protocol

import (
	"fmt"

	"github.com/gbalink/gbalink/internal/jval"
)

// Request is one decoded command request.
type Request struct {
	// Cmd is the raw command name. Empty when the request object has no
	// "cmd" field; that case is reported by the dispatcher rather than
	// treated as a decode error, so the id can still be echoed.
	Cmd string

	// ID is the client's correlation token, echoed verbatim in the
	// response. Valid only when HasID is true. Never interpreted.
	ID    jval.Value
	HasID bool

	obj jval.Value
}

// DecodeRequest parses one request line. It fails if the line is not valid
// JSON or not a JSON object; in that case no id can be recovered.
func DecodeRequest(line string) (*Request, error) {
	v, err := jval.Decode(line)
	if err != nil {
		return nil, err
	}
	if v.Kind() != jval.KindObject {
		return nil, fmt.Errorf("request must be a JSON object, got %s", v.Kind())
	}

	req := &Request{obj: v}
	if cmd, ok := v.Get("cmd"); ok && cmd.Kind() == jval.KindString {
		req.Cmd = cmd.StringVal()
	}
	if id, ok := v.Get("id"); ok {
		req.ID = id
		req.HasID = true
	}
	return req, nil
}

// Field returns a command-specific request field.
func (r *Request) Field(key string) (jval.Value, bool) {
	return r.obj.Get(key)
}

// NumberField returns a numeric request field, or def if the field is
// absent or not a number.
func (r *Request) NumberField(key string, def float64) float64 {
	v, ok := r.obj.Get(key)
	if !ok || v.Kind() != jval.KindNumber {
		return def
	}
	return v.NumberVal()
}

// StringField returns a text request field, or "" if absent or not text.
func (r *Request) StringField(key string) string {
	v, ok := r.obj.Get(key)
	if !ok {
		return ""
	}
	return v.StringVal()
}

// Response is one command response, produced either synchronously by the
// dispatcher or later by the frame scheduler for deferred commands.
type Response struct {
	OK bool

	// Value is the success payload. Valid only when HasValue is true; a
	// success response may legitimately carry no value.
	Value    jval.Value
	HasValue bool

	// Err is the failure text. Set exactly when OK is false.
	Err string

	ID    jval.Value
	HasID bool
}

// NewOKResponse creates a successful response carrying a value.
func NewOKResponse(value jval.Value) *Response {
	return &Response{OK: true, Value: value, HasValue: true}
}

// NewEmptyResponse creates a successful response with no value.
func NewEmptyResponse() *Response {
	return &Response{OK: true}
}

// NewErrorResponse creates a failure response.
func NewErrorResponse(msg string) *Response {
	return &Response{Err: msg}
}

// NewErrorResponsef creates a failure response with a formatted message.
func NewErrorResponsef(format string, args ...any) *Response {
	return &Response{Err: fmt.Sprintf(format, args...)}
}

// WithID attaches the request's correlation id to the response, if the
// request carried one. Returns the response for chaining.
func (r *Response) WithID(req *Request) *Response {
	if req != nil && req.HasID {
		r.ID = req.ID
		r.HasID = true
	}
	return r
}

// WithCorrelation attaches a raw correlation id (deferred-completion path,
// where the originating request is long gone).
func (r *Response) WithCorrelation(id jval.Value, hasID bool) *Response {
	r.ID = id
	r.HasID = hasID
	return r
}

// Encode renders the response as one JSON line, without the trailing
// newline (the connection layer owns framing).
func (r *Response) Encode() string {
	members := []jval.Member{{Key: "ok", Value: jval.Bool(r.OK)}}
	if r.OK {
		if r.HasValue {
			members = append(members, jval.Member{Key: "value", Value: r.Value})
		}
	} else {
		members = append(members, jval.Member{Key: "error", Value: jval.String(r.Err)})
	}
	if r.HasID {
		members = append(members, jval.Member{Key: "id", Value: r.ID})
	}
	return jval.Encode(jval.Object(members...))
}

// DecodeResponse parses one response line (client side).
func DecodeResponse(line string) (*Response, error) {
	v, err := jval.Decode(line)
	if err != nil {
		return nil, err
	}
	if v.Kind() != jval.KindObject {
		return nil, fmt.Errorf("response must be a JSON object, got %s", v.Kind())
	}

	resp := &Response{}
	if ok, found := v.Get("ok"); found {
		resp.OK = ok.BoolVal()
	}
	if val, found := v.Get("value"); found {
		resp.Value = val
		resp.HasValue = true
	}
	if errv, found := v.Get("error"); found {
		resp.Err = errv.StringVal()
	}
	if id, found := v.Get("id"); found {
		resp.ID = id
		resp.HasID = true
	}
	return resp, nil
}
