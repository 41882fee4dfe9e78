package textutil

import (
	"strings"
	"unicode"
)

// TrimSide selects which end(s) of a string are trimmed.
type TrimSide string

const (
	TrimBoth  TrimSide = "both"
	TrimStart TrimSide = "start"
	TrimEnd   TrimSide = "end"
)

// Trim removes trim from the selected side(s) of s.
//
// With asUnit the whole trim string is stripped repeatedly as one token
// ("ab" removes "abab" but not "ba"); otherwise any run of characters that
// occur in trim is removed. A single space trims Unicode whitespace.
func Trim(s, trim string, side TrimSide, asUnit bool) string {
	if trim == "" {
		return s
	}
	if trim == " " {
		return trimSpace(s, side)
	}
	if asUnit {
		return trimUnit(s, trim, side)
	}
	return trimChars(s, trim, side)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func trimSpace(s string, side TrimSide) string {
	switch side {
	case TrimStart:
		return strings.TrimLeftFunc(s, isSpace)
	case TrimEnd:
		return strings.TrimRightFunc(s, isSpace)
	default:
		return strings.TrimFunc(s, isSpace)
	}
}

func trimUnit(s, unit string, side TrimSide) string {
	if side != TrimEnd {
		for strings.HasPrefix(s, unit) {
			s = s[len(unit):]
		}
	}
	if side != TrimStart {
		for strings.HasSuffix(s, unit) {
			s = s[:len(s)-len(unit)]
		}
	}
	return s
}

func trimChars(s, set string, side TrimSide) string {
	switch side {
	case TrimStart:
		return strings.TrimLeft(s, set)
	case TrimEnd:
		return strings.TrimRight(s, set)
	default:
		return strings.Trim(s, set)
	}
}
