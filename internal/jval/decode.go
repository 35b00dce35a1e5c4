package jval

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError reports malformed JSON input with the byte offset at which
// decoding failed.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid JSON at offset %d: %s", e.Offset, e.Msg)
}

// Decode parses one JSON text into a Value. Malformed input yields a
// *SyntaxError; defaults are never silently substituted.
func Decode(text string) (Value, error) {
	d := &decoder{input: text}
	d.skipSpace()
	v, err := d.decodeValue()
	if err != nil {
		return Value{}, err
	}
	d.skipSpace()
	if d.pos < len(d.input) {
		return Value{}, d.errorf("unexpected trailing character %q", d.input[d.pos])
	}
	return v, nil
}

type decoder struct {
	input string
	pos   int
}

func (d *decoder) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: d.pos, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) skipSpace() {
	for d.pos < len(d.input) {
		switch d.input[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) decodeValue() (Value, error) {
	if d.pos >= len(d.input) {
		return Value{}, d.errorf("unexpected end of input")
	}
	switch c := d.input[d.pos]; {
	case c == '{':
		return d.decodeObject()
	case c == '[':
		return d.decodeArray()
	case c == '"':
		s, err := d.decodeString()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case c == '-' || (c >= '0' && c <= '9'):
		return d.decodeNumber()
	case c == 't':
		if err := d.expect("true"); err != nil {
			return Value{}, err
		}
		return Bool(true), nil
	case c == 'f':
		if err := d.expect("false"); err != nil {
			return Value{}, err
		}
		return Bool(false), nil
	case c == 'n':
		if err := d.expect("null"); err != nil {
			return Value{}, err
		}
		return Null(), nil
	default:
		return Value{}, d.errorf("unexpected character %q", c)
	}
}

func (d *decoder) expect(lit string) error {
	if !strings.HasPrefix(d.input[d.pos:], lit) {
		return d.errorf("invalid literal, expected %q", lit)
	}
	d.pos += len(lit)
	return nil
}

func (d *decoder) decodeObject() (Value, error) {
	d.pos++ // consume '{'
	var members []Member
	d.skipSpace()
	if d.pos < len(d.input) && d.input[d.pos] == '}' {
		d.pos++
		return Object(), nil
	}
	for {
		d.skipSpace()
		if d.pos >= len(d.input) || d.input[d.pos] != '"' {
			return Value{}, d.errorf("expected object key")
		}
		key, err := d.decodeString()
		if err != nil {
			return Value{}, err
		}
		d.skipSpace()
		if d.pos >= len(d.input) || d.input[d.pos] != ':' {
			return Value{}, d.errorf("expected ':' after object key")
		}
		d.pos++
		d.skipSpace()
		v, err := d.decodeValue()
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: v})

		d.skipSpace()
		if d.pos >= len(d.input) {
			return Value{}, d.errorf("unterminated object")
		}
		switch d.input[d.pos] {
		case ',':
			d.pos++
		case '}':
			d.pos++
			return Object(members...), nil
		default:
			return Value{}, d.errorf("expected ',' or '}' in object, got %q", d.input[d.pos])
		}
	}
}

func (d *decoder) decodeArray() (Value, error) {
	d.pos++ // consume '['
	var items []Value
	d.skipSpace()
	if d.pos < len(d.input) && d.input[d.pos] == ']' {
		d.pos++
		return Array(), nil
	}
	for {
		d.skipSpace()
		v, err := d.decodeValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)

		d.skipSpace()
		if d.pos >= len(d.input) {
			return Value{}, d.errorf("unterminated array")
		}
		switch d.input[d.pos] {
		case ',':
			d.pos++
		case ']':
			d.pos++
			return Array(items...), nil
		default:
			return Value{}, d.errorf("expected ',' or ']' in array, got %q", d.input[d.pos])
		}
	}
}

// decodeString decodes a quoted string. Escape handling is lenient: the
// standard short escapes are recognized, and an unrecognized escape passes
// the escaped character through literally instead of failing.
func (d *decoder) decodeString() (string, error) {
	d.pos++ // consume opening '"'
	var sb strings.Builder
	for {
		if d.pos >= len(d.input) {
			return "", d.errorf("unterminated string")
		}
		c := d.input[d.pos]
		switch c {
		case '"':
			d.pos++
			return sb.String(), nil
		case '\\':
			d.pos++
			if d.pos >= len(d.input) {
				return "", d.errorf("unterminated escape sequence")
			}
			switch e := d.input[d.pos]; e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '/':
				sb.WriteByte('/')
			default:
				sb.WriteByte(e)
			}
			d.pos++
		default:
			sb.WriteByte(c)
			d.pos++
		}
	}
}

// decodeNumber scans an optional leading minus, a digit run, an optional
// fraction, and an optional exponent, then parses the slice as float64.
// Out-of-range magnitudes are accepted as ±Inf (the infinity sentinels
// round-trip through this path).
func (d *decoder) decodeNumber() (Value, error) {
	start := d.pos
	if d.input[d.pos] == '-' {
		d.pos++
	}
	digits := 0
	for d.pos < len(d.input) && d.input[d.pos] >= '0' && d.input[d.pos] <= '9' {
		d.pos++
		digits++
	}
	if digits == 0 {
		return Value{}, d.errorf("invalid number")
	}
	if d.pos < len(d.input) && d.input[d.pos] == '.' {
		d.pos++
		for d.pos < len(d.input) && d.input[d.pos] >= '0' && d.input[d.pos] <= '9' {
			d.pos++
		}
	}
	if d.pos < len(d.input) && (d.input[d.pos] == 'e' || d.input[d.pos] == 'E') {
		d.pos++
		if d.pos < len(d.input) && (d.input[d.pos] == '+' || d.input[d.pos] == '-') {
			d.pos++
		}
		for d.pos < len(d.input) && d.input[d.pos] >= '0' && d.input[d.pos] <= '9' {
			d.pos++
		}
	}

	n, err := strconv.ParseFloat(d.input[start:d.pos], 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return Value{}, d.errorf("invalid number %q", d.input[start:d.pos])
		}
	}
	return Number(n), nil
}
