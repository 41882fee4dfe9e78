package entities

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
)

var errMalformedURI = errors.New("malformed URI sequence")

const (
	uriUnreserved = "-_.!~*'()"
	uriReserved   = ";/?:@&=+$,#"
	upperHex      = "0123456789ABCDEF"
)

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// EncodeURI percent-encodes s, leaving URI syntax characters intact.
func EncodeURI(s string) (string, error) {
	return percentEncode(s, uriUnreserved+uriReserved)
}

// EncodeURIComponent percent-encodes everything except unreserved characters.
func EncodeURIComponent(s string) (string, error) {
	return percentEncode(s, uriUnreserved)
}

// DecodeURI decodes percent escapes except those producing URI syntax characters.
func DecodeURI(s string) (string, error) {
	return percentDecode(s, uriReserved)
}

// DecodeURIComponent decodes every percent escape.
func DecodeURIComponent(s string) (string, error) {
	return percentDecode(s, "")
}

func percentEncode(s, keep string) (string, error) {
	if !utf8.ValidString(s) {
		return "", manipulation.NewCharsetError("uri", errMalformedURI)
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) || (c < utf8.RuneSelf && strings.IndexByte(keep, c) >= 0) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String(), nil
}

func percentDecode(s, preserve string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}
		first, ok := hexByte(s, i)
		if !ok {
			return "", manipulation.NewCharsetError("uri", errMalformedURI)
		}
		if first < utf8.RuneSelf {
			if strings.IndexByte(preserve, first) >= 0 {
				b.WriteString(s[i : i+3])
			} else {
				b.WriteByte(first)
			}
			i += 3
			continue
		}
		n := sequenceLength(first)
		if n == 0 {
			return "", manipulation.NewCharsetError("uri", errMalformedURI)
		}
		buf := []byte{first}
		j := i + 3
		for k := 1; k < n; k++ {
			if j >= len(s) || s[j] != '%' {
				return "", manipulation.NewCharsetError("uri", errMalformedURI)
			}
			cont, ok := hexByte(s, j)
			if !ok || cont&0xC0 != 0x80 {
				return "", manipulation.NewCharsetError("uri", errMalformedURI)
			}
			buf = append(buf, cont)
			j += 3
		}
		if !utf8.Valid(buf) {
			return "", manipulation.NewCharsetError("uri", errMalformedURI)
		}
		b.Write(buf)
		i = j
	}
	return b.String(), nil
}

func hexByte(s string, i int) (byte, bool) {
	if i+2 >= len(s) {
		return 0, false
	}
	hi, ok1 := unhex(s[i+1])
	lo, ok2 := unhex(s[i+2])
	return hi<<4 | lo, ok1 && ok2
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func sequenceLength(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	}
	return 0
}
