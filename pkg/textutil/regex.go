package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var regexLiteral = regexp.MustCompile(`^/(.*)/([gimusy]*)$`)

// ParseRegexLiteral splits a "/body/flags" literal. Anything else is taken
// as a bare pattern without flags and ok is false.
func ParseRegexLiteral(s string) (body, flags string, ok bool) {
	m := regexLiteral.FindStringSubmatch(s)
	if m == nil {
		return s, "", false
	}
	return m[1], m[2], true
}

// Regex is a compiled pattern carrying the g and y flags, which regexp2 has
// no notion of.
type Regex struct {
	re     *regexp2.Regexp
	global bool
	sticky bool
	named  bool
}

// CompileRegex compiles body with ECMAScript semantics and the given flags.
func CompileRegex(body, flags string) (*Regex, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	r := &Regex{}
	seen := map[rune]bool{}
	for _, f := range flags {
		if seen[f] {
			return nil, fmt.Errorf("duplicate flag %q", f)
		}
		seen[f] = true
		switch f {
		case 'g':
			r.global = true
		case 'y':
			r.sticky = true
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
			opts |= regexp2.Unicode
		default:
			return nil, fmt.Errorf("unsupported flag %q", f)
		}
	}
	re, err := regexp2.Compile(body, opts)
	if err != nil {
		return nil, err
	}
	r.re = re
	for _, name := range re.GetGroupNames() {
		if _, err := strconv.Atoi(name); err != nil {
			r.named = true
			break
		}
	}
	return r, nil
}

// MustCompileRegex is like CompileRegex but panics on error.
func MustCompileRegex(body, flags string) *Regex {
	r, err := CompileRegex(body, flags)
	if err != nil {
		panic(err)
	}
	return r
}

// Replace substitutes matches in input with template, expanding $-tokens.
// Without the g flag only the first match is replaced; with y a match must
// start where the previous one ended.
func (r *Regex) Replace(input, template string) (string, error) {
	runes := []rune(input)
	m, err := r.re.FindRunesMatch(runes)
	if err != nil {
		return "", err
	}
	if m == nil {
		return input, nil
	}
	var b strings.Builder
	last := 0
	for m != nil {
		if r.sticky && m.Index != last {
			break
		}
		b.WriteString(string(runes[last:m.Index]))
		b.WriteString(r.expand(template, m, runes))
		last = m.Index + m.Length
		if !r.global {
			break
		}
		m, err = r.re.FindNextMatch(m)
		if err != nil {
			return "", err
		}
	}
	b.WriteString(string(runes[last:]))
	return b.String(), nil
}

// expand implements the replacement patterns of String.prototype.replace:
// $$, $&, $`, $', $n, $nn and $<name>.
func (r *Regex) expand(template string, m *regexp2.Match, runes []rune) string {
	if !strings.Contains(template, "$") {
		return template
	}
	groups := m.GroupCount() - 1
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		next := template[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(m.String())
			i++
		case next == '`':
			b.WriteString(string(runes[:m.Index]))
			i++
		case next == '\'':
			b.WriteString(string(runes[m.Index+m.Length:]))
			i++
		case next >= '0' && next <= '9':
			n, width := groupRef(template[i+1:], groups)
			if width == 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(groupValue(m.GroupByNumber(n)))
			i += width
		case next == '<' && r.named:
			end := strings.IndexByte(template[i+2:], '>')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			name := template[i+2 : i+2+end]
			b.WriteString(groupValue(m.GroupByName(name)))
			i += 2 + end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// groupRef parses $n or $nn, preferring the two-digit form when that group exists.
func groupRef(s string, groups int) (int, int) {
	if len(s) >= 2 && s[1] >= '0' && s[1] <= '9' {
		if n := int(s[0]-'0')*10 + int(s[1]-'0'); n >= 1 && n <= groups {
			return n, 2
		}
	}
	if n := int(s[0] - '0'); n >= 1 && n <= groups {
		return n, 1
	}
	return 0, 0
}

func groupValue(g *regexp2.Group) string {
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// QuantifiedGroup wraps pattern in a non-capturing group with a repetition
// count: min 0 gives "*", max 0 gives "{min,}", otherwise "{min,max}".
func QuantifiedGroup(pattern string, min, max int) string {
	var q string
	switch {
	case min <= 0:
		q = "*"
	case max <= 0:
		q = fmt.Sprintf("{%d,}", min)
	default:
		q = fmt.Sprintf("{%d,%d}", min, max)
	}
	return "(?:" + pattern + ")" + q
}

// ReplaceSubstring replaces the first, or every, literal occurrence of old.
func ReplaceSubstring(s, old, replacement string, all bool) string {
	if all {
		return strings.ReplaceAll(s, old, replacement)
	}
	return strings.Replace(s, old, replacement, 1)
}
