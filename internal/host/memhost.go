package host

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// GBA work RAM layout mirrored by MemHost.
const (
	ewramBase = 0x02000000
	ewramSize = 0x40000
	iwramBase = 0x03000000
	iwramSize = 0x8000

	screenWidth  = 240
	screenHeight = 160

	maxStateSlot = 9
)

type region struct {
	base uint32
	data []byte
}

// MemHost is an in-memory Host. It models the GBA's external and internal
// work RAM, snapshot slots, and a synthetic screen. The development server
// runs against it, and it backs the package's deterministic tests.
type MemHost struct {
	regions []region
	held    Keys
	inject  Keys
	frame   uint64
	states  map[int][][]byte

	// CaptureErr, when set, is returned by CaptureFrame. Test hook.
	CaptureErr error
}

// NewMemHost creates a MemHost with zeroed work RAM.
func NewMemHost() *MemHost {
	return &MemHost{
		regions: []region{
			{base: ewramBase, data: make([]byte, ewramSize)},
			{base: iwramBase, data: make([]byte, iwramSize)},
		},
		states: make(map[int][][]byte),
	}
}

// slice returns the n bytes at addr, or an error if the range falls outside
// every region.
func (h *MemHost) slice(addr uint32, n int) ([]byte, error) {
	for _, r := range h.regions {
		if addr >= r.base && uint64(addr)+uint64(n) <= uint64(r.base)+uint64(len(r.data)) {
			off := addr - r.base
			return r.data[off : off+uint32(n)], nil
		}
	}
	return nil, &InvalidAddressError{Addr: addr, Length: n}
}

func (h *MemHost) Read8(addr uint32) (uint8, error) {
	b, err := h.slice(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (h *MemHost) Read16(addr uint32) (uint16, error) {
	b, err := h.slice(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (h *MemHost) Read32(addr uint32) (uint32, error) {
	b, err := h.slice(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (h *MemHost) ReadRange(addr uint32, n int) ([]byte, error) {
	b, err := h.slice(addr, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (h *MemHost) Write8(addr uint32, v uint8) error {
	b, err := h.slice(addr, 1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (h *MemHost) Write16(addr uint32, v uint16) error {
	b, err := h.slice(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, v)
	return nil
}

func (h *MemHost) Write32(addr uint32, v uint32) error {
	b, err := h.slice(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

func (h *MemHost) InjectKeys(mask Keys) {
	h.inject = mask
}

func (h *MemHost) KeyState() Keys {
	return h.held | h.inject
}

// SetHeldKeys sets the player-held key mask, distinct from injected keys.
func (h *MemHost) SetHeldKeys(mask Keys) {
	h.held = mask
}

// AdvanceFrame moves the synthetic emulation forward one frame. Injected
// keys last a single frame, so the mask is cleared here and the scheduler
// re-injects on its next tick.
func (h *MemHost) AdvanceFrame() {
	h.frame++
	h.inject = 0
}

// Frame returns the current frame counter.
func (h *MemHost) Frame() uint64 {
	return h.frame
}

// CaptureFrame renders the synthetic screen as PNG bytes. The pattern
// depends on the frame counter so consecutive captures differ.
func (h *MemHost) CaptureFrame() ([]byte, error) {
	if h.CaptureErr != nil {
		return nil, h.CaptureErr
	}

	img := image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))
	shift := uint8(h.frame)
	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x) + shift,
				G: uint8(y) + shift,
				B: shift,
				A: 0xFF,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *MemHost) SaveState(slot int) error {
	if slot < 1 || slot > maxStateSlot {
		return &InvalidSlotError{Slot: slot}
	}
	snap := make([][]byte, len(h.regions))
	for i, r := range h.regions {
		snap[i] = make([]byte, len(r.data))
		copy(snap[i], r.data)
	}
	h.states[slot] = snap
	return nil
}

func (h *MemHost) LoadState(slot int) error {
	if slot < 1 || slot > maxStateSlot {
		return &InvalidSlotError{Slot: slot}
	}
	snap, ok := h.states[slot]
	if !ok {
		return fmt.Errorf("no saved state in slot %d", slot)
	}
	for i := range h.regions {
		copy(h.regions[i].data, snap[i])
	}
	return nil
}
