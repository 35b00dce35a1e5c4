package host

import "strings"

// Keys is a bitmask of GBA keypad keys, in KEYINPUT register bit order.
type Keys uint16

const (
	KeyA Keys = 1 << iota
	KeyB
	KeySelect
	KeyStart
	KeyRight
	KeyLeft
	KeyUp
	KeyDown
	KeyR
	KeyL
)

// keyNames lists button names in keypad bit order. Index i names bit 1<<i.
var keyNames = []string{
	"A", "B", "SELECT", "START", "RIGHT", "LEFT", "UP", "DOWN", "R", "L",
}

// KeyByName resolves a button name to its key bit. Matching is
// case-insensitive. The second result is false for unknown names.
func KeyByName(name string) (Keys, bool) {
	upper := strings.ToUpper(name)
	for i, n := range keyNames {
		if n == upper {
			return 1 << i, true
		}
	}
	return 0, false
}

// Names returns the button names asserted in mask, in keypad bit order.
func (k Keys) Names() []string {
	var names []string
	for i, n := range keyNames {
		if k&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return names
}
