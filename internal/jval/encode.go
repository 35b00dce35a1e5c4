package jval

import (
	"math"
	"strconv"
	"strings"
)

// Non-finite sentinels. Strict JSON has no way to spell NaN or infinity, so
// NaN becomes null and the infinities become out-of-range number literals
// (which decode back to ±Inf via float64 overflow).
const (
	nanToken    = "null"
	posInfToken = "1e999"
	negInfToken = "-1e999"
)

// Encode renders a Value as compact JSON text. It never fails: non-finite
// numbers encode as the documented sentinel tokens.
func Encode(v Value) string {
	var sb strings.Builder
	encodeValue(&sb, v)
	return sb.String()
}

func encodeValue(sb *strings.Builder, v Value) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.boolVal {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		encodeNumber(sb, v.numVal)
	case KindString:
		encodeString(sb, v.strVal)
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.arrVal {
			if i > 0 {
				sb.WriteByte(',')
			}
			encodeValue(sb, item)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, m := range v.objVal {
			if i > 0 {
				sb.WriteByte(',')
			}
			encodeString(sb, m.Key)
			sb.WriteByte(':')
			encodeValue(sb, m.Value)
		}
		sb.WriteByte('}')
	}
}

func encodeNumber(sb *strings.Builder, n float64) {
	switch {
	case math.IsNaN(n):
		sb.WriteString(nanToken)
	case math.IsInf(n, 1):
		sb.WriteString(posInfToken)
	case math.IsInf(n, -1):
		sb.WriteString(negInfToken)
	default:
		sb.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
	}
}

// encodeString escapes backslash, double quote, newline, carriage return,
// and tab. Everything else passes through unescaped, which is sufficient
// for the ASCII-dominant protocol traffic.
func encodeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
}
