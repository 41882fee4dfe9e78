package operation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-go-golems/text-manipulation/pkg/charset"
	"github.com/go-go-golems/text-manipulation/pkg/entities"
	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/textutil"
	"github.com/huandu/xstrings"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold applies ops to value in order and returns the final value.
func Fold(value string, ops []Operation) (string, error) {
	var err error
	for i, op := range ops {
		value, err = Apply(value, op)
		if err != nil {
			return "", &StepError{Step: i, Kind: op.Kind(), Err: err}
		}
	}
	return value, nil
}

// Apply runs a single operation against value.
func Apply(value string, op Operation) (string, error) {
	switch o := op.(type) {
	case Concat:
		return o.Before + value + o.After, nil
	case DecodeEncode:
		return applyDecodeEncode(value, o)
	case DecodeEncodeEntities:
		return applyEntities(value, o)
	case LetterCase:
		return applyLetterCase(value, o)
	case Normalize:
		return applyNormalize(value, o)
	case Replace:
		return applyReplace(value, o)
	case Trim:
		return applyTrim(value, o)
	case Pad:
		return applyPad(value, o)
	case Substring:
		return applySubstring(value, o)
	case Repeat:
		if o.Times < 0 {
			return "", manipulation.InvalidParameter("times", o.Times)
		}
		return strings.Repeat(value, o.Times), nil
	case nil:
		return "", manipulation.InvalidOption("action", "")
	}
	return "", manipulation.InvalidOption("action", string(op.Kind()))
}

func applyDecodeEncode(value string, o DecodeEncode) (string, error) {
	if charset.SameCharset(o.DecodeCharset, o.EncodeCharset) {
		return value, nil
	}
	decoded, err := charset.Decode([]byte(value), o.DecodeCharset, charset.DecodeOptions{StripBOM: o.StripBOM})
	if err != nil {
		return "", err
	}
	encoded, err := charset.Encode(decoded, o.EncodeCharset, charset.EncodeOptions{AddBOM: o.AddBOM})
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(encoded), string(utf8.RuneError)), nil
}

func applyEntities(value string, o DecodeEncodeEntities) (string, error) {
	if o.Decode == o.Encode {
		return value, nil
	}
	decoded, err := entities.Decode(value, o.Decode, o.DecodeMode)
	if err != nil {
		return "", err
	}
	return entities.Encode(decoded, o.Encode, o.EncodeMode)
}

func applyLetterCase(value string, o LetterCase) (string, error) {
	switch o.Case {
	case CaseUpper:
		return cases.Upper(language.Und).String(value), nil
	case CaseLower:
		return cases.Lower(language.Und).String(value), nil
	case CaseLocaleUpper, CaseLocaleLower:
		tag, err := languageTag(o.Locale)
		if err != nil {
			return "", err
		}
		if o.Case == CaseLocaleUpper {
			return cases.Upper(tag).String(value), nil
		}
		return cases.Lower(tag).String(value), nil
	case CaseCapitalize:
		return capitalize(value), nil
	case CaseTitle:
		words := strings.Split(value, " ")
		for i, w := range words {
			words[i] = capitalize(w)
		}
		return strings.Join(words, " "), nil
	case CaseSnake:
		return xstrings.ToSnakeCase(value), nil
	case CaseKebab:
		return xstrings.ToKebabCase(value), nil
	case CaseCamel:
		words := splitWords(value)
		for i, w := range words {
			w = strings.ToLower(w)
			if i > 0 {
				w = xstrings.FirstRuneToUpper(w)
			}
			words[i] = w
		}
		return strings.Join(words, ""), nil
	case CaseStart:
		words := splitWords(value)
		for i, w := range words {
			words[i] = xstrings.FirstRuneToUpper(w)
		}
		return strings.Join(words, " "), nil
	}
	return "", manipulation.InvalidOption("case", string(o.Case))
}

func languageTag(locale string) (language.Tag, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, manipulation.InvalidParameter("locale", locale)
	}
	return tag, nil
}

var apostrophes = strings.NewReplacer("'", "", "\u2019", "")

// splitWords breaks value into words on separators and case changes, keeping
// the original letter case ("FOO_BAR" gives FOO, BAR; "XMLHttp" gives XML, Http).
func splitWords(value string) []string {
	var words []string
	fields := strings.FieldsFunc(apostrophes.Replace(value), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		words = append(words, splitCaseChanges(f)...)
	}
	return words
}

func splitCaseChanges(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		lowerToUpper := (unicode.IsLower(prev) || unicode.IsDigit(prev)) && unicode.IsUpper(cur)
		acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if lowerToUpper || acronymEnd {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func applyNormalize(value string, o Normalize) (string, error) {
	switch o.Form {
	case NFC:
		return norm.NFC.String(value), nil
	case NFD:
		return norm.NFD.String(value), nil
	case NFKC:
		return norm.NFKC.String(value), nil
	case NFKD:
		return norm.NFKD.String(value), nil
	}
	return "", manipulation.InvalidOption("form", string(o.Form))
}

func applyTrim(value string, o Trim) (string, error) {
	switch o.Side {
	case textutil.TrimBoth, textutil.TrimStart, textutil.TrimEnd:
		return textutil.Trim(value, o.Chars, o.Side, o.AsUnit), nil
	}
	return "", manipulation.InvalidOption("trim", string(o.Side))
}

func applyPad(value string, o Pad) (string, error) {
	if o.TargetLength < 0 {
		return "", manipulation.InvalidParameter("targetLength", o.TargetLength)
	}
	if o.Side != PadStart && o.Side != PadEnd {
		return "", manipulation.InvalidOption("pad", string(o.Side))
	}
	missing := o.TargetLength - utf8.RuneCountInString(value)
	if missing <= 0 || o.Fill == "" {
		return value, nil
	}
	fill := []rune(strings.Repeat(o.Fill, missing/utf8.RuneCountInString(o.Fill)+1))[:missing]
	if o.Side == PadStart {
		return string(fill) + value, nil
	}
	return value + string(fill), nil
}

func applySubstring(value string, o Substring) (string, error) {
	runes := []rune(value)
	n := len(runes)
	begin := resolveOffset(o.Start, n)
	end := n
	switch o.End {
	case EndComplete, "":
	case EndPosition:
		end = resolveOffset(o.Position, n)
	case EndLength:
		if o.Length < 0 {
			return "", manipulation.InvalidParameter("length", o.Length)
		}
		if o.Start < 0 {
			end = clamp(n+o.Start+o.Length, 0, n)
		} else {
			end = clamp(o.Start+o.Length, 0, n)
		}
	default:
		return "", manipulation.InvalidOption("end", string(o.End))
	}
	if end <= begin {
		return "", nil
	}
	return string(runes[begin:end]), nil
}

// resolveOffset maps a possibly negative offset onto [0, n].
func resolveOffset(off, n int) int {
	if off < 0 {
		off += n
	}
	return clamp(off, 0, n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
