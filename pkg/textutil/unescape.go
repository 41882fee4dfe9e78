package textutil

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var simpleEscapes = map[byte]string{
	'b':  "\b",
	'f':  "\f",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'v':  "\v",
	'0':  "\x00",
	'\'': "'",
	'"':  "\"",
	'\\': "\\",
}

// Unescape interprets backslash escape sequences the way string literals in
// user configuration are written: \n \r \t \b \f \v \0 \' \" \\, \xHH,
// \uHHHH, \u{H..}, \UHHHHHHHH and octal \NNN. Unknown sequences are kept
// verbatim.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			i++
			continue
		}
		out, n := unescapeAt(s[i+1:])
		if n == 0 {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteString(out)
		i += 1 + n
	}
	return b.String()
}

// unescapeAt decodes the sequence following a backslash and reports how many
// bytes it consumed; 0 means the sequence is not recognised.
func unescapeAt(s string) (string, int) {
	switch c := s[0]; {
	case c == 'u' && len(s) > 1 && s[1] == '{':
		end := strings.IndexByte(s, '}')
		if end < 3 {
			return "", 0
		}
		if r, ok := parseCodePoint(s[2:end]); ok {
			return string(r), end + 1
		}
		return "", 0
	case c == 'u':
		if len(s) >= 5 {
			if r, ok := parseHexRune(s[1:5]); ok {
				return utf16Aware(r, s[5:])
			}
		}
		return "", 0
	case c == 'U':
		if len(s) >= 9 {
			if r, ok := parseCodePoint(s[1:9]); ok {
				return string(r), 9
			}
		}
		return "", 0
	case c == 'x':
		if len(s) >= 3 {
			if r, ok := parseHexRune(s[1:3]); ok {
				return string(r), 3
			}
		}
		return "", 0
	case c >= '0' && c <= '7':
		n := octalLen(s)
		if n >= 2 || c != '0' {
			v, err := strconv.ParseUint(s[:n], 8, 32)
			if err == nil {
				return string(rune(v)), n
			}
		}
		return simpleEscapes['0'], 1
	default:
		if out, ok := simpleEscapes[c]; ok {
			return out, 1
		}
		return "", 0
	}
}

// utf16Aware joins a \uD8xx\uDCxx surrogate pair into a single rune.
func utf16Aware(r rune, rest string) (string, int) {
	if r >= 0xD800 && r < 0xDC00 && len(rest) >= 6 && rest[0] == '\\' && rest[1] == 'u' {
		if lo, ok := parseHexRune(rest[2:6]); ok && lo >= 0xDC00 && lo < 0xE000 {
			return string((r-0xD800)<<10 + (lo - 0xDC00) + 0x10000), 11
		}
	}
	if r >= 0xD800 && r < 0xE000 {
		return string(utf8.RuneError), 5
	}
	return string(r), 5
}

func octalLen(s string) int {
	max := 3
	if s[0] > '3' {
		max = 2
	}
	n := 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '7' {
		n++
	}
	return n
}

func parseHexRune(s string) (rune, bool) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func parseCodePoint(s string) (rune, bool) {
	r, ok := parseHexRune(s)
	if !ok || r > utf8.MaxRune {
		return 0, false
	}
	return r, true
}
