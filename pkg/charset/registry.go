package charset

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
)

var errMalformed = errors.New("malformed byte sequence")

// BOM is the byte order mark as it appears in decoded text.
const BOM = "\uFEFF"

// Charset is a registered byte-text encoding.
type Charset struct {
	Name     string
	BOMAware bool
	enc      encoding.Encoding
}

// DecodeOptions controls Decode.
type DecodeOptions struct {
	StripBOM bool
}

// EncodeOptions controls Encode.
type EncodeOptions struct {
	AddBOM bool
}

var (
	registry []*Charset
	byName   = map[string]*Charset{}
	byKey    = map[string]*Charset{}
)

// endianness-by-BOM variants write or consume their own BOM, which would
// conflict with the explicit StripBOM/AddBOM policy.
var selfBOM = map[string]struct{}{
	"UTF-16": {},
	"UTF-32": {},
}

func init() {
	families := [][]encoding.Encoding{
		unicode.All,
		utf32.All,
		charmap.All,
		japanese.All,
		korean.All,
		simplifiedchinese.All,
		traditionalchinese.All,
	}
	if ascii, err := ianaindex.IANA.Encoding("US-ASCII"); err == nil && ascii != nil {
		families = append(families, []encoding.Encoding{ascii})
	}
	for _, family := range families {
		for _, enc := range family {
			name, err := ianaindex.MIME.Name(enc)
			if err != nil || name == "" {
				// no registered name: private or platform specific
				continue
			}
			if _, ok := selfBOM[name]; ok {
				continue
			}
			if _, ok := byName[strings.ToLower(name)]; ok {
				continue
			}
			c := &Charset{Name: name, enc: enc, BOMAware: isUnicodeFamily(name)}
			registry = append(registry, c)
			byName[strings.ToLower(name)] = c
			byKey[compact(name)] = c
		}
	}
	sort.Slice(registry, func(i, j int) bool {
		return strings.ToLower(registry[i].Name) < strings.ToLower(registry[j].Name)
	})
}

func isUnicodeFamily(name string) bool {
	n := strings.ToUpper(name)
	return strings.HasPrefix(n, "UTF-8") || strings.HasPrefix(n, "UTF-16") || strings.HasPrefix(n, "UTF-32")
}

// compact reduces a name to lower-case letters and digits so that
// "utf16le", "UTF_16LE" and "UTF-16LE" resolve to the same charset.
func compact(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lookup resolves a canonical name or alias to a registered charset.
func Lookup(name string) (*Charset, error) {
	n := strings.TrimSpace(name)
	if c, ok := byName[strings.ToLower(n)]; ok {
		return c, nil
	}
	if enc, err := ianaindex.IANA.Encoding(n); err == nil && enc != nil {
		if c := fromEncoding(enc); c != nil {
			return c, nil
		}
	}
	if enc, err := htmlindex.Get(n); err == nil && enc != nil {
		if c := fromEncoding(enc); c != nil {
			return c, nil
		}
	}
	if c, ok := byKey[compact(n)]; ok && compact(n) != "" {
		return c, nil
	}
	return nil, manipulation.NewCharsetError(name, nil)
}

func fromEncoding(enc encoding.Encoding) *Charset {
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil {
		return nil
	}
	return byName[strings.ToLower(canonical)]
}

// List returns the canonical names of all registered charsets, sorted.
func List() []string {
	ret := make([]string, 0, len(registry))
	for _, c := range registry {
		ret = append(ret, c.Name)
	}
	return ret
}

// All returns every registered charset, sorted by name.
func All() []Charset {
	ret := make([]Charset, 0, len(registry))
	for _, c := range registry {
		ret = append(ret, *c)
	}
	return ret
}

// IsBOMAware reports whether name resolves to a charset supporting byte order marks.
func IsBOMAware(name string) bool {
	c, err := Lookup(name)
	if err != nil {
		return false
	}
	return c.BOMAware
}

// SameCharset reports whether both names resolve to the same registered charset.
// Unknown names are compared textually.
func SameCharset(a, b string) bool {
	ca, errA := Lookup(a)
	cb, errB := Lookup(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return ca == cb
}

// Decode converts data in the named charset to a string.
func Decode(data []byte, name string, opts DecodeOptions) (string, error) {
	c, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return c.Decode(data, opts)
}

// Encode converts s to bytes in the named charset.
func Encode(s string, name string, opts EncodeOptions) ([]byte, error) {
	c, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.Encode(s, opts)
}

// Decode converts data to a string. Malformed byte sequences are rejected
// rather than silently replaced.
func (c *Charset) Decode(data []byte, opts DecodeOptions) (string, error) {
	if c.enc == unicode.UTF8 && !utf8.Valid(data) {
		return "", manipulation.NewCharsetError(c.Name, encoding.ErrInvalidUTF8)
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", manipulation.NewCharsetError(c.Name, err)
	}
	// x/text decoders substitute U+FFFD for bytes they cannot map; a
	// replacement that was not in the input does not survive re-encoding.
	if bytes.ContainsRune(out, utf8.RuneError) {
		back, err := c.enc.NewEncoder().Bytes(out)
		if err != nil || !bytes.Equal(back, data) {
			return "", manipulation.NewCharsetError(c.Name, errMalformed)
		}
	}
	s := string(out)
	if opts.StripBOM && c.BOMAware {
		s = strings.TrimPrefix(s, BOM)
	}
	return s, nil
}

// Encode converts s to bytes. Runes the charset cannot represent fail the call.
func (c *Charset) Encode(s string, opts EncodeOptions) ([]byte, error) {
	if opts.AddBOM && c.BOMAware {
		s = BOM + s
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, manipulation.NewCharsetError(c.Name, err)
	}
	return out, nil
}
