package operation

import (
	"errors"
	"testing"

	"github.com/go-go-golems/text-manipulation/pkg/entities"
	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/textutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func apply(t *testing.T, value string, op Operation) string {
	t.Helper()
	got, err := Apply(value, op)
	require.NoError(t, err)
	return got
}

func TestConcatAndRepeat(t *testing.T) {
	assert.Equal(t, "<x>", apply(t, "x", Concat{Before: "<", After: ">"}))
	assert.Equal(t, "x", apply(t, "x", Concat{}))
	assert.Equal(t, "ababab", apply(t, "ab", Repeat{Times: 3}))
	assert.Equal(t, "", apply(t, "ab", Repeat{Times: 0}))

	_, err := Apply("ab", Repeat{Times: -1})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidParameter))
}

func TestDecodeEncode(t *testing.T) {
	inputs := []string{"", "plain", "café", "中文 ✓", "\uFEFFbom"}
	for _, cs := range []string{"utf8", "utf-16le", "latin1", "shift_jis"} {
		for _, in := range inputs {
			assert.Equal(t, in, apply(t, in, DecodeEncode{DecodeCharset: cs, EncodeCharset: cs, StripBOM: true, AddBOM: true}), cs)
		}
	}

	// UTF-8 bytes of "é" read as Latin-1 are two characters.
	got := apply(t, "é", DecodeEncode{DecodeCharset: "latin1", EncodeCharset: "utf-8"})
	assert.Equal(t, "Ã©", got)

	got = apply(t, "\uFEFFhi", DecodeEncode{DecodeCharset: "utf-8", EncodeCharset: "utf8", StripBOM: true})
	assert.Equal(t, "\uFEFFhi", got, "same charset is a no-op")

	got = apply(t, "hi", DecodeEncode{DecodeCharset: "utf-8", EncodeCharset: "utf-16le"})
	assert.Equal(t, "h\x00i\x00", got)

	_, err := Apply("x", DecodeEncode{DecodeCharset: "nope", EncodeCharset: "utf8"})
	assert.True(t, errors.Is(err, manipulation.ErrCharset))
}

func TestDecodeEncodeEntities(t *testing.T) {
	for _, k := range []entities.Kind{entities.None, entities.URL, entities.URLComponent, entities.XML, entities.HTML} {
		in := "a%20b &amp; <c>"
		assert.Equal(t, in, apply(t, in, DecodeEncodeEntities{Decode: k, Encode: k}), k)
	}

	got := apply(t, "a%20%3Cb%3E", DecodeEncodeEntities{Decode: entities.URLComponent, Encode: entities.HTML, EncodeMode: entities.UTF8})
	assert.Equal(t, "a &lt;b&gt;", got)

	got = apply(t, "&lt;b&gt;", DecodeEncodeEntities{Decode: entities.HTML, DecodeMode: entities.Strict, Encode: entities.None})
	assert.Equal(t, "<b>", got)

	_, err := Apply("%E0", DecodeEncodeEntities{Decode: entities.URL, Encode: entities.None})
	assert.True(t, errors.Is(err, manipulation.ErrCharset))
}

func TestLetterCase(t *testing.T) {
	tests := []struct {
		c     Case
		input string
		want  string
	}{
		{CaseUpper, "hello world", "HELLO WORLD"},
		{CaseLower, "Hello World", "hello world"},
		{CaseCapitalize, "hELLO wORLD", "Hello world"},
		{CaseTitle, "hELLO wORLD", "Hello World"},
		{CaseSnake, "Hello World", "hello_world"},
		{CaseKebab, "Hello World", "hello-world"},
		{CaseCamel, "Hello World", "helloWorld"},
		{CaseCamel, "first_name", "firstName"},
		{CaseStart, "hello world", "Hello World"},
		{CaseStart, "firstName", "First Name"},
		{CaseUpper, "stra\u00dfe", "STRASSE"},
		{CaseStart, "FOO_BAR", "FOO BAR"},
		{CaseStart, "XMLHttpRequest", "XML Http Request"},
		{CaseStart, "--foo-bar--", "Foo Bar"},
		{CaseCamel, "FOO_BAR", "fooBar"},
		{CaseCamel, "XMLHttpRequest", "xmlHttpRequest"},
	}
	for _, tt := range tests {
		t.Run(string(tt.c)+"/"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, apply(t, tt.input, LetterCase{Case: tt.c}))
		})
	}

	assert.Equal(t, "İSTANBUL", apply(t, "istanbul", LetterCase{Case: CaseLocaleUpper, Locale: "tr"}))
	assert.Equal(t, "ıi", apply(t, "Iİ", LetterCase{Case: CaseLocaleLower, Locale: "tr-TR"}))
	assert.Equal(t, "ISTANBUL", apply(t, "istanbul", LetterCase{Case: CaseLocaleUpper, Locale: "en"}))

	_, err := Apply("x", LetterCase{Case: CaseLocaleUpper, Locale: "not a locale!"})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidParameter))

	_, err = Apply("x", LetterCase{Case: "shouting"})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidOption))
}

func TestNormalize(t *testing.T) {
	composed, decomposed := "\u00e9", "e\u0301"
	assert.Equal(t, composed, apply(t, decomposed, Normalize{Form: NFC}))
	assert.Equal(t, decomposed, apply(t, composed, Normalize{Form: NFD}))
	assert.Equal(t, "fi", apply(t, "\uFB01", Normalize{Form: NFKC}))
	assert.Equal(t, "fi"+decomposed, apply(t, "\uFB01"+composed, Normalize{Form: NFKD}))

	_, err := Apply("x", Normalize{Form: "NFX"})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidOption))
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		op    Replace
		want  string
	}{
		{"substring first", "a.b.c", Replace{Mode: ModeSubstring, Pattern: ".", Value: "-"}, "a-b.c"},
		{"substring all", "a.b.c", Replace{Mode: ModeSubstring, Pattern: ".", Value: "-", ReplaceAll: true}, "a-b-c"},
		{"substring extended value", "a b", Replace{Mode: ModeSubstring, Pattern: " ", Value: `\t`, Extended: true}, "a\tb"},
		{"substring raw value", "a b", Replace{Mode: ModeSubstring, Pattern: " ", Value: `\t`}, `a\tb`},
		{"extended substring", "a\tb\tc", Replace{Mode: ModeExtendedSubstring, Pattern: `\t`, Value: ",", ReplaceAll: true}, "a,b,c"},
		{"regex literal", "ABCxAbc", Replace{Mode: ModeRegex, Pattern: "/a(b)c/gi", Value: "$1"}, "Bxb"},
		{"regex bare pattern", "aaa", Replace{Mode: ModeRegex, Pattern: "a", Value: "b"}, "baa"},
		{"regex extended template", "a1b2", Replace{Mode: ModeRegex, Pattern: `/\d/g`, Value: `[$&]\n`, Extended: true}, "a[1]\nb[2]\n"},
		{"regex named group", "2024-01", Replace{Mode: ModeRegex, Pattern: `/(?<y>\d+)-(?<m>\d+)/`, Value: "$<m>/$<y>"}, "01/2024"},
		{"tags any", "<b>bold</b> <x-foo>", Replace{Mode: ModePredefinedRule, Rule: Rule{Kind: RuleTags}, Value: ""}, "bold "},
		{"tags recognised only", "<b>bold</b> <x-foo>", Replace{Mode: ModePredefinedRule, Rule: Rule{Kind: RuleTags, OnlyRecognisedHTML: true}}, "bold <x-foo>"},
		{"tags uppercase recognised", "<DIV class=x>t</DIV>", Replace{Mode: ModePredefinedRule, Rule: Rule{Kind: RuleTags, OnlyRecognisedHTML: true}, Value: "|"}, "|t|"},
		{"character groups digits", "a12b3", Replace{Mode: ModePredefinedRule, Rule: Rule{Kind: RuleCharacterGroups, Digit: &Repetition{Min: 1}}, Value: "#"}, "a#b#"},
		{"character groups bounded", "12345", Replace{Mode: ModePredefinedRule, Rule: Rule{Kind: RuleCharacterGroups, Digit: &Repetition{Min: 2, Max: 2}}, Value: "#"}, "##5"},
		{"character groups newline", "a\r\nb\nc", Replace{Mode: ModePredefinedRule, Rule: Rule{Kind: RuleCharacterGroups, Newline: &Repetition{Min: 1, Max: 1}}, Value: `\n`, Extended: true}, "a\nb\nc"},
		{"character groups none enabled", "abc", Replace{Mode: ModePredefinedRule, Rule: Rule{Kind: RuleCharacterGroups}, Value: "#"}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apply(t, tt.input, tt.op))
		})
	}

	_, err := Apply("x", Replace{Mode: "fuzzy"})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidOption))

	_, err = Apply("x", Replace{Mode: ModeRegex, Pattern: "/(/g"})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidParameter))

	_, err = Apply("x", Replace{Mode: ModePredefinedRule, Rule: Rule{Kind: "emoji"}})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidOption))
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "X", apply(t, "ababXab", Trim{Side: textutil.TrimBoth, Chars: "ab", AsUnit: true}))
	assert.Equal(t, "X", apply(t, "ababXab", Trim{Side: textutil.TrimBoth, Chars: "ab"}))
	assert.Equal(t, "ababXab", apply(t, "ababXab", Trim{Side: textutil.TrimBoth, Chars: "ba", AsUnit: true}))
	assert.Equal(t, "Hi ", apply(t, "  Hi ", Trim{Side: textutil.TrimStart, Chars: " "}))

	_, err := Apply("x", Trim{Side: "middle", Chars: "x"})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidOption))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "   ab", apply(t, "ab", Pad{Side: PadStart, TargetLength: 5, Fill: " "}))
	assert.Equal(t, "ab-=-", apply(t, "ab", Pad{Side: PadEnd, TargetLength: 5, Fill: "-="}))
	assert.Equal(t, "abcdef", apply(t, "abcdef", Pad{Side: PadStart, TargetLength: 3, Fill: "0"}))
	assert.Equal(t, "ab", apply(t, "ab", Pad{Side: PadStart, TargetLength: 5}))
	assert.Equal(t, "ééé", apply(t, "é", Pad{Side: PadStart, TargetLength: 3, Fill: "é"}))

	_, err := Apply("ab", Pad{Side: PadStart, TargetLength: -1, Fill: " "})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidParameter))
}

func TestSubstring(t *testing.T) {
	byLength := apply(t, "HelloWorld", Substring{Start: -3, End: EndLength, Length: 2})
	byPosition := apply(t, "HelloWorld", Substring{Start: 7, End: EndPosition, Position: 9})
	assert.Equal(t, "rl", byLength)
	assert.Equal(t, byLength, byPosition)

	assert.Equal(t, "World", apply(t, "HelloWorld", Substring{Start: 5, End: EndComplete}))
	assert.Equal(t, "ld", apply(t, "HelloWorld", Substring{Start: -2}))
	assert.Equal(t, "Hel", apply(t, "HelloWorld", Substring{Start: 0, End: EndLength, Length: 3}))
	assert.Equal(t, "Worl", apply(t, "HelloWorld", Substring{Start: 5, End: EndPosition, Position: -1}))
	assert.Equal(t, "", apply(t, "HelloWorld", Substring{Start: 8, End: EndPosition, Position: 2}))
	assert.Equal(t, "HelloWorld", apply(t, "HelloWorld", Substring{Start: -50}))
	assert.Equal(t, "fé", apply(t, "café", Substring{Start: 2}))

	_, err := Apply("x", Substring{End: EndLength, Length: -1})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidParameter))

	_, err = Apply("x", Substring{End: "middle"})
	assert.True(t, errors.Is(err, manipulation.ErrInvalidOption))
}

func TestFold(t *testing.T) {
	got, err := Fold("  Hello  ", []Operation{
		Trim{Side: textutil.TrimBoth, Chars: " "},
		LetterCase{Case: CaseUpper},
		Concat{After: "!"},
	})
	require.NoError(t, err)
	assert.Equal(t, "HELLO!", got)

	_, err = Fold("x", []Operation{Concat{}, Repeat{Times: -2}})
	require.Error(t, err)
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 1, stepErr.Step)
	assert.Equal(t, KindRepeat, stepErr.Kind)
	assert.True(t, errors.Is(err, manipulation.ErrInvalidParameter))

	got, err = Fold("same", nil)
	require.NoError(t, err)
	assert.Equal(t, "same", got)
}

func TestSpecBuild(t *testing.T) {
	var specs []Spec
	require.NoError(t, yaml.Unmarshal([]byte(`
- action: trim
  trim: trimBoth
  trim_string: ab
  trim_as_unit: true
- action: letterCase
  case: localeUpper
  locale: tr
- action: replace
  replace: predefinedRule
  rule: characterGroups
  digit: {min: 1}
  value: "#"
- action: decodeEncodeEntities
  decode: html
  encode: xml
  encode_mode: escapeUTF8
- action: pad
  pad: padEnd
  target_length: 4
  pad_string: "."
`), &specs))

	ops, err := BuildAll(specs)
	require.NoError(t, err)
	require.Len(t, ops, 5)
	assert.Equal(t, Trim{Side: textutil.TrimBoth, Chars: "ab", AsUnit: true}, ops[0])
	assert.Equal(t, LetterCase{Case: CaseLocaleUpper, Locale: "tr"}, ops[1])
	assert.Equal(t, DecodeEncodeEntities{
		Decode: entities.HTML, DecodeMode: entities.Legacy,
		Encode: entities.XML, EncodeMode: entities.UTF8,
	}, ops[3])

	got, err := Fold("abi1ab", ops)
	require.NoError(t, err)
	assert.Equal(t, "İ#..", got)
}

func TestSpecBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"unknown action", Spec{Action: "explode"}, manipulation.ErrInvalidOption},
		{"unknown case", Spec{Action: "letterCase", Case: "wavy"}, manipulation.ErrInvalidOption},
		{"bad locale", Spec{Action: "letterCase", Case: "localeLower", Locale: "??"}, manipulation.ErrInvalidParameter},
		{"unknown form", Spec{Action: "normalize", Form: "NFQ"}, manipulation.ErrInvalidOption},
		{"unknown replace mode", Spec{Action: "replace", Replace: "glob"}, manipulation.ErrInvalidOption},
		{"bad regex", Spec{Action: "replace", Replace: "regex", Pattern: "/[/"}, manipulation.ErrInvalidParameter},
		{"unknown rule", Spec{Action: "replace", Replace: "predefinedRule", Rule: "urls"}, manipulation.ErrInvalidOption},
		{"inverted repetition", Spec{Action: "replace", Replace: "predefinedRule", Rule: "characterGroups", Digit: &RepetitionSpec{Min: 3, Max: 1}}, manipulation.ErrInvalidParameter},
		{"unknown trim", Spec{Action: "trim", Trim: "middle"}, manipulation.ErrInvalidOption},
		{"negative pad", Spec{Action: "pad", TargetLength: -1}, manipulation.ErrInvalidParameter},
		{"unknown pad", Spec{Action: "pad", Pad: "center"}, manipulation.ErrInvalidOption},
		{"negative length", Spec{Action: "substring", End: "length", Length: -2}, manipulation.ErrInvalidParameter},
		{"unknown end", Spec{Action: "substring", End: "middle"}, manipulation.ErrInvalidOption},
		{"negative repeat", Spec{Action: "repeat", Times: -1}, manipulation.ErrInvalidParameter},
		{"unknown entity", Spec{Action: "decodeEncodeEntities", Decode: "base64"}, manipulation.ErrInvalidOption},
		{"unknown encode mode", Spec{Action: "decodeEncodeEntities", Encode: "html", EncodeMode: "all"}, manipulation.ErrInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}
