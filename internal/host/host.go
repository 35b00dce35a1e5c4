// Package host defines the capability surface the control server consumes
// from the emulator it is embedded in, plus an in-memory implementation
// used by tests and the development server.
//
// A real emulator embedding provides its own Host backed by native APIs and
// drives the server from its per-frame callback; nothing in this package
// touches sockets or frames.
package host

import "fmt"

// Host is the set of primitive emulator capabilities the server drives.
// All calls are synchronous and must not block: they run inside the
// emulator's frame callback.
type Host interface {
	// Byte-addressed memory access. 16- and 32-bit reads and writes are
	// little-endian. Out-of-range addresses are rejected by the host with
	// an error; the server performs no range checking of its own.
	Read8(addr uint32) (uint8, error)
	Read16(addr uint32) (uint16, error)
	Read32(addr uint32) (uint32, error)
	ReadRange(addr uint32, n int) ([]byte, error)
	Write8(addr uint32, v uint8) error
	Write16(addr uint32, v uint16) error
	Write32(addr uint32, v uint32) error

	// InjectKeys replaces the injected key mask for the current frame.
	// The mask does not persist: the scheduler recomputes and re-injects
	// it on every tick, including the zero mask when nothing is held.
	InjectKeys(mask Keys)

	// KeyState returns the combined currently-asserted key state,
	// including both player input and injected keys.
	KeyState() Keys

	// CaptureFrame returns the current frame as encoded image container
	// bytes. The encoding is opaque to the server.
	CaptureFrame() ([]byte, error)

	// Snapshot slots.
	SaveState(slot int) error
	LoadState(slot int) error
}

// InvalidAddressError indicates a memory access outside the host's
// addressable range.
type InvalidAddressError struct {
	Addr   uint32
	Length int
}

func (e *InvalidAddressError) Error() string {
	if e.Length > 1 {
		return fmt.Sprintf("address range 0x%08X+%d out of bounds", e.Addr, e.Length)
	}
	return fmt.Sprintf("address 0x%08X out of bounds", e.Addr)
}

// InvalidSlotError indicates a snapshot slot outside the valid range.
type InvalidSlotError struct {
	Slot int
}

func (e *InvalidSlotError) Error() string {
	return fmt.Sprintf("invalid state slot %d (valid slots are 1-9)", e.Slot)
}
