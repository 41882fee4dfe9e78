// Package entities converts text between plain form and URL, XML or HTML
// escaped forms.
package entities

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
)

// Kind names an entity family.
type Kind string

const (
	None         Kind = "none"
	URL          Kind = "url"
	URLComponent Kind = "urlComponent"
	XML          Kind = "xml"
	HTML         Kind = "html"
)

// DecodeMode controls how forgiving XML and HTML decoding is.
type DecodeMode string

const (
	Legacy DecodeMode = "legacy"
	Strict DecodeMode = "strict"
)

// EncodeMode selects which characters XML and HTML encoding escapes.
type EncodeMode string

const (
	Extensive EncodeMode = "extensive"
	UTF8      EncodeMode = "utf8"
	NonASCII  EncodeMode = "nonAscii"
)

// ParseKind validates an entity kind name.
func ParseKind(field, s string) (Kind, error) {
	switch k := Kind(s); k {
	case None, URL, URLComponent, XML, HTML:
		return k, nil
	case "":
		return None, nil
	}
	return "", manipulation.InvalidOption(field, s)
}

// ParseDecodeMode validates a decode mode. Empty means legacy.
func ParseDecodeMode(field, s string) (DecodeMode, error) {
	switch m := DecodeMode(s); m {
	case Legacy, Strict:
		return m, nil
	case "":
		return Legacy, nil
	}
	return "", manipulation.InvalidOption(field, s)
}

// ParseEncodeMode validates an encode mode, accepting "escapeUTF8" as an
// alias of utf8. Empty means extensive.
func ParseEncodeMode(field, s string) (EncodeMode, error) {
	switch m := EncodeMode(s); m {
	case Extensive, UTF8, NonASCII:
		return m, nil
	case "escapeUTF8":
		return UTF8, nil
	case "":
		return Extensive, nil
	}
	return "", manipulation.InvalidOption(field, s)
}

// Decode turns escaped text of the given kind back into plain text.
func Decode(s string, kind Kind, mode DecodeMode) (string, error) {
	switch kind {
	case None, "":
		return s, nil
	case URL:
		return DecodeURI(s)
	case URLComponent:
		return DecodeURIComponent(s)
	case XML:
		return DecodeXML(s, mode), nil
	case HTML:
		return DecodeHTML(s, mode), nil
	}
	return "", manipulation.InvalidOption("decode", string(kind))
}

// Encode escapes plain text into the given kind.
func Encode(s string, kind Kind, mode EncodeMode) (string, error) {
	switch kind {
	case None, "":
		return s, nil
	case URL:
		return EncodeURI(s)
	case URLComponent:
		return EncodeURIComponent(s)
	case XML:
		return EncodeXML(s, mode), nil
	case HTML:
		return EncodeHTML(s, mode), nil
	}
	return "", manipulation.InvalidOption("encode", string(kind))
}

var (
	htmlStrictRef = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)
	xmlStrictRef  = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|amp|lt|gt|quot|apos);`)
	xmlLegacyRef  = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|amp|lt|gt|quot|apos);?`)
)

// DecodeHTML decodes HTML character references. Legacy mode also accepts
// references without a terminating semicolon; strict mode only decodes
// well-formed references and leaves everything else untouched.
func DecodeHTML(s string, mode DecodeMode) string {
	if !strings.Contains(s, "&") {
		return s
	}
	if mode == Strict {
		return htmlStrictRef.ReplaceAllStringFunc(s, html.UnescapeString)
	}
	return html.UnescapeString(s)
}

// DecodeXML decodes the five predefined XML entities and numeric references.
func DecodeXML(s string, mode DecodeMode) string {
	if !strings.Contains(s, "&") {
		return s
	}
	re := xmlStrictRef
	if mode != Strict {
		re = xmlLegacyRef
	}
	return re.ReplaceAllStringFunc(s, func(ref string) string {
		if !strings.HasSuffix(ref, ";") {
			ref += ";"
		}
		return html.UnescapeString(ref)
	})
}

var xmlSpecials = map[rune]string{
	'&': "&amp;", '<': "&lt;", '>': "&gt;", '"': "&quot;", '\'': "&apos;",
}

// EncodeXML escapes the XML specials. Every mode except utf8 also escapes
// non-ASCII characters as hexadecimal references, so nonAscii behaves like
// extensive.
func EncodeXML(s string, mode EncodeMode) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if e, ok := xmlSpecials[r]; ok {
			b.WriteString(e)
			continue
		}
		if r >= 0x80 && mode != UTF8 {
			writeNumeric(&b, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EncodeHTML escapes text for HTML. utf8 only escapes the markup specials,
// nonAscii also escapes every non-ASCII character, and extensive additionally
// escapes ASCII punctuation that has a named entity.
func EncodeHTML(s string, mode EncodeMode) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if e, ok := xmlSpecials[r]; ok {
			b.WriteString(e)
			continue
		}
		switch {
		case mode == UTF8:
			b.WriteRune(r)
		case r < 0x80:
			if name, ok := asciiNames[r]; ok && mode == Extensive {
				writeNamed(&b, name)
			} else {
				b.WriteRune(r)
			}
		default:
			if name, ok := namedRunes[r]; ok {
				writeNamed(&b, name)
			} else {
				writeNumeric(&b, r)
			}
		}
	}
	return b.String()
}

func writeNamed(b *strings.Builder, name string) {
	b.WriteByte('&')
	b.WriteString(name)
	b.WriteByte(';')
}

func writeNumeric(b *strings.Builder, r rune) {
	b.WriteString("&#x")
	b.WriteString(strconv.FormatInt(int64(r), 16))
	b.WriteByte(';')
}
