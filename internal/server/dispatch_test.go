package server

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/gbalink/gbalink/internal/host"
)

// roundTrip queues one request line, runs one tick, and returns the single
// response line produced.
func roundTrip(t *testing.T, s *Server, fc *fakeConn, line string) string {
	t.Helper()
	before := len(fc.lines())
	fc.send(line)
	s.Tick()
	got := fc.lines()
	if len(got) != before+1 {
		t.Fatalf("request %q produced %d responses, want 1", line, len(got)-before)
	}
	return got[before]
}

func TestDispatchPing(t *testing.T) {
	s, _, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"cmd":"ping","id":42}`)
	if want := `{"ok":true,"value":"pong","id":42}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	s, _, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"cmd":"frobnicate"}`)
	if want := `{"ok":false,"error":"unknown command: frobnicate"}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
}

func TestDispatchMissingCommand(t *testing.T) {
	s, _, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"id":7}`)
	if want := `{"ok":false,"error":"missing cmd field","id":7}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
}

func TestDispatchMalformedLine(t *testing.T) {
	s, _, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"cmd": }`)
	if !strings.Contains(got, `"ok":false`) || !strings.Contains(got, "invalid") {
		t.Errorf("response = %q, want failure mentioning invalid input", got)
	}
	// The id is unrecoverable from a malformed line.
	if strings.Contains(got, `"id"`) {
		t.Errorf("response %q echoes an id for a malformed line", got)
	}
}

func TestDispatchReads(t *testing.T) {
	s, h, fc := newTestServer(t)

	if err := h.Write32(0x02000100, 0x01020304); err != nil {
		t.Fatalf("seed memory: %v", err)
	}

	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "read8 renders decimal",
			line: `{"cmd":"read8","addr":33554688}`, // 0x02000100
			want: `{"ok":true,"value":4}`,
		},
		{
			name: "read16 little-endian",
			line: `{"cmd":"read16","addr":33554688}`,
			want: `{"ok":true,"value":772}`, // 0x0304
		},
		{
			name: "read32",
			line: `{"cmd":"read32","addr":33554688}`,
			want: `{"ok":true,"value":16909060}`, // 0x01020304
		},
		{
			name: "readRange renders lowercase hex",
			line: `{"cmd":"readRange","addr":33554688,"length":4}`,
			want: `{"ok":true,"value":"04030201"}`,
		},
		{
			name: "readRange clamps non-positive length to one byte",
			line: `{"cmd":"readRange","addr":33554688,"length":-5}`,
			want: `{"ok":true,"value":"04"}`,
		},
		{
			name: "readRange defaults omitted length to one byte",
			line: `{"cmd":"readRange","addr":33554688}`,
			want: `{"ok":true,"value":"04"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roundTrip(t, s, fc, tt.line); got != tt.want {
				t.Errorf("response = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispatchWrites(t *testing.T) {
	s, h, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"cmd":"write16","addr":33554432,"value":48879,"id":"w"}`)
	if want := `{"ok":true,"id":"w"}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
	v, err := h.Read16(0x02000000)
	if err != nil {
		t.Fatalf("Read16: %v", err)
	}
	if v != 0xBEEF {
		t.Errorf("memory = %#x, want 0xBEEF", v)
	}
}

func TestDispatchHostFailure(t *testing.T) {
	s, _, fc := newTestServer(t)

	// 0x0 is outside every host region; the host's rejection text flows
	// into the failure response with the id echoed.
	got := roundTrip(t, s, fc, `{"cmd":"read8","addr":0,"id":9}`)
	if !strings.Contains(got, `"ok":false`) || !strings.Contains(got, "out of bounds") {
		t.Errorf("response = %q, want host error text", got)
	}
	if !strings.Contains(got, `"id":9`) {
		t.Errorf("response = %q, want id echoed", got)
	}
}

func TestDispatchPress(t *testing.T) {
	s, _, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"cmd":"press","button":"a","frames":3}`)
	if want := `{"ok":true}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
	if len(s.holds) != 1 || s.holds[0].key != host.KeyA || s.holds[0].remaining != 3 {
		t.Errorf("hold queue = %+v, want one 3-frame hold of A", s.holds)
	}
}

func TestDispatchPressDefaults(t *testing.T) {
	s, _, fc := newTestServer(t)

	roundTrip(t, s, fc, `{"cmd":"press","button":"START"}`)
	if len(s.holds) != 1 || s.holds[0].remaining != DefaultHoldFrames {
		t.Errorf("hold queue = %+v, want default %d frames", s.holds, DefaultHoldFrames)
	}
}

func TestDispatchPressInvalid(t *testing.T) {
	s, _, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"cmd":"press","button":"Z"}`)
	if want := `{"ok":false,"error":"unknown button: Z"}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}

	got = roundTrip(t, s, fc, `{"cmd":"press","button":"A","frames":0}`)
	if !strings.Contains(got, "frames must be positive") {
		t.Errorf("response = %q, want positive-frames error", got)
	}
	if len(s.holds)+len(s.holdsNew) != 0 {
		t.Errorf("rejected press still enqueued a hold")
	}
}

func TestDispatchGetKeys(t *testing.T) {
	s, h, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"cmd":"getKeys"}`)
	if want := `{"ok":true,"value":[]}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}

	h.SetHeldKeys(host.KeyA | host.KeyDown)
	got = roundTrip(t, s, fc, `{"cmd":"getKeys"}`)
	if want := `{"ok":true,"value":["A","DOWN"]}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
}

func TestDispatchScreenshot(t *testing.T) {
	s, _, fc := newTestServer(t)

	got := roundTrip(t, s, fc, `{"cmd":"screenshot"}`)
	if !strings.Contains(got, `"ok":true`) {
		t.Fatalf("response = %q, want success", got)
	}
	// Extract the base64 payload and verify it decodes to PNG bytes.
	start := strings.Index(got, `"value":"`) + len(`"value":"`)
	end := strings.LastIndex(got, `"`)
	data, err := base64.StdEncoding.DecodeString(got[start:end])
	if err != nil {
		t.Fatalf("value is not valid base64: %v", err)
	}
	if len(data) < 4 || data[1] != 'P' || data[2] != 'N' || data[3] != 'G' {
		t.Errorf("decoded frame is not PNG (%d bytes)", len(data))
	}
}

func TestDispatchScreenshotFailure(t *testing.T) {
	s, h, fc := newTestServer(t)

	h.CaptureErr = errTest("video backend gone")
	got := roundTrip(t, s, fc, `{"cmd":"screenshot","id":1}`)
	if want := `{"ok":false,"error":"video backend gone","id":1}`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
}

func TestDispatchStates(t *testing.T) {
	s, h, fc := newTestServer(t)

	if err := h.Write8(0x02000000, 5); err != nil {
		t.Fatalf("seed memory: %v", err)
	}

	// Slot defaults to 1 on both commands.
	if got := roundTrip(t, s, fc, `{"cmd":"saveState"}`); got != `{"ok":true}` {
		t.Fatalf("saveState = %q", got)
	}
	if err := h.Write8(0x02000000, 6); err != nil {
		t.Fatalf("Write8: %v", err)
	}
	if got := roundTrip(t, s, fc, `{"cmd":"loadState"}`); got != `{"ok":true}` {
		t.Fatalf("loadState = %q", got)
	}
	v, err := h.Read8(0x02000000)
	if err != nil {
		t.Fatalf("Read8: %v", err)
	}
	if v != 5 {
		t.Errorf("memory after loadState = %d, want 5", v)
	}

	got := roundTrip(t, s, fc, `{"cmd":"saveState","slot":12}`)
	if !strings.Contains(got, `"ok":false`) || !strings.Contains(got, "slot") {
		t.Errorf("saveState slot 12 = %q, want slot error", got)
	}
}

func TestDispatchRunFramesDefersResponse(t *testing.T) {
	s, _, fc := newTestServer(t)

	fc.send(`{"cmd":"runFrames","count":3,"id":"x"}`)
	s.Tick()

	if got := fc.lines(); got != nil {
		t.Errorf("deferred command answered immediately: %v", got)
	}
	if len(s.deferred) != 1 || s.deferred[0].remaining != 3 {
		t.Errorf("deferred queue = %+v, want one 3-frame entry", s.deferred)
	}
}

func TestDispatchRunFramesMinimumCount(t *testing.T) {
	s, _, fc := newTestServer(t)

	fc.send(`{"cmd":"runFrames","count":0}`)
	s.Tick()
	if len(s.deferred) != 1 || s.deferred[0].remaining != 1 {
		t.Errorf("deferred queue = %+v, want count clamped to 1", s.deferred)
	}
}

func TestDispatchPanicRecovery(t *testing.T) {
	h := &panicHost{MemHost: host.NewMemHost()}
	s := New(h, Params{}, nil)
	fc := &fakeConn{}
	s.register(fc)

	fc.send(`{"cmd":"screenshot","id":5}`)
	s.Tick()

	got := fc.lines()
	if len(got) != 1 {
		t.Fatalf("got %d responses, want 1: %v", len(got), got)
	}
	if want := `{"ok":false,"error":"internal error handling screenshot","id":5}`; got[0] != want {
		t.Errorf("response = %q, want %q", got[0], want)
	}

	// The tick loop survives and other commands still work.
	if got := roundTrip(t, s, fc, `{"cmd":"ping"}`); got != `{"ok":true,"value":"pong"}` {
		t.Errorf("ping after panic = %q", got)
	}
}

// panicHost panics on frame capture; everything else behaves normally.
type panicHost struct {
	*host.MemHost
}

func (p *panicHost) CaptureFrame() ([]byte, error) {
	panic("capture exploded")
}

type errTest string

func (e errTest) Error() string { return string(e) }
