// Package operation implements the closed set of text operations a
// TextGroup applies, in order, to every value it reads.
package operation

import (
	"fmt"

	"github.com/go-go-golems/text-manipulation/pkg/entities"
	"github.com/go-go-golems/text-manipulation/pkg/textutil"
)

// Kind identifies an operation in configuration files.
type Kind string

const (
	KindConcat               Kind = "concat"
	KindDecodeEncode         Kind = "decodeEncode"
	KindDecodeEncodeEntities Kind = "decodeEncodeEntities"
	KindLetterCase           Kind = "letterCase"
	KindNormalize            Kind = "normalize"
	KindReplace              Kind = "replace"
	KindTrim                 Kind = "trim"
	KindPad                  Kind = "pad"
	KindSubstring            Kind = "substring"
	KindRepeat               Kind = "repeat"
)

// Kinds lists every operation kind in declaration order.
var Kinds = []Kind{
	KindConcat, KindDecodeEncode, KindDecodeEncodeEntities, KindLetterCase, KindNormalize,
	KindReplace, KindTrim, KindPad, KindSubstring, KindRepeat,
}

// Operation is one configured step. The set of implementations is closed;
// Apply dispatches over it with a type switch.
type Operation interface {
	Kind() Kind
	sealed()
}

type Concat struct {
	Before string
	After  string
}

// DecodeEncode reinterprets the value's bytes from one charset into another.
type DecodeEncode struct {
	DecodeCharset string
	EncodeCharset string
	StripBOM      bool
	AddBOM        bool
}

type DecodeEncodeEntities struct {
	Decode     entities.Kind
	DecodeMode entities.DecodeMode
	Encode     entities.Kind
	EncodeMode entities.EncodeMode
}

type Case string

const (
	CaseCamel       Case = "camel"
	CaseCapitalize  Case = "capitalize"
	CaseTitle       Case = "titlecase"
	CaseKebab       Case = "kebab"
	CaseSnake       Case = "snake"
	CaseStart       Case = "start"
	CaseUpper       Case = "upper"
	CaseLower       Case = "lower"
	CaseLocaleUpper Case = "localeUpper"
	CaseLocaleLower Case = "localeLower"
)

// LetterCase changes letter case. Locale is a BCP 47 tag and only used by
// the locale variants.
type LetterCase struct {
	Case   Case
	Locale string
}

type Form string

const (
	NFC  Form = "NFC"
	NFD  Form = "NFD"
	NFKC Form = "NFKC"
	NFKD Form = "NFKD"
)

type Normalize struct {
	Form Form
}

type ReplaceMode string

const (
	ModeSubstring         ReplaceMode = "substring"
	ModeExtendedSubstring ReplaceMode = "extendedSubstring"
	ModeRegex             ReplaceMode = "regex"
	ModePredefinedRule    ReplaceMode = "predefinedRule"
)

type RuleKind string

const (
	RuleTags            RuleKind = "tags"
	RuleCharacterGroups RuleKind = "characterGroups"
)

// Repetition bounds one character group: Min 0 means any count, Max 0 means
// no upper bound.
type Repetition struct {
	Min int
	Max int
}

// Rule configures the predefined replacement rules. A nil group is disabled.
type Rule struct {
	Kind               RuleKind
	OnlyRecognisedHTML bool
	Newline            *Repetition
	Digit              *Repetition
	Alpha              *Repetition
	Whitespace         *Repetition
}

// Replace substitutes Pattern (a literal or a regex, depending on Mode) with
// Value. Extended unescapes backslash sequences in Value first.
type Replace struct {
	Mode       ReplaceMode
	Pattern    string
	Value      string
	ReplaceAll bool
	Extended   bool
	Rule       Rule
}

type Trim struct {
	Side   textutil.TrimSide
	Chars  string
	AsUnit bool
}

type PadSide string

const (
	PadStart PadSide = "start"
	PadEnd   PadSide = "end"
)

type Pad struct {
	Side         PadSide
	TargetLength int
	Fill         string
}

type EndMode string

const (
	EndComplete EndMode = "complete"
	EndPosition EndMode = "position"
	EndLength   EndMode = "length"
)

// Substring selects a rune window. Start and Position may be negative to
// count from the end.
type Substring struct {
	Start    int
	End      EndMode
	Position int
	Length   int
}

type Repeat struct {
	Times int
}

func (Concat) Kind() Kind               { return KindConcat }
func (DecodeEncode) Kind() Kind         { return KindDecodeEncode }
func (DecodeEncodeEntities) Kind() Kind { return KindDecodeEncodeEntities }
func (LetterCase) Kind() Kind           { return KindLetterCase }
func (Normalize) Kind() Kind            { return KindNormalize }
func (Replace) Kind() Kind              { return KindReplace }
func (Trim) Kind() Kind                 { return KindTrim }
func (Pad) Kind() Kind                  { return KindPad }
func (Substring) Kind() Kind            { return KindSubstring }
func (Repeat) Kind() Kind               { return KindRepeat }

func (Concat) sealed() {}
func (DecodeEncode) sealed() {}
func (DecodeEncodeEntities) sealed() {}
func (LetterCase) sealed() {}
func (Normalize) sealed() {}
func (Replace) sealed() {}
func (Trim) sealed() {}
func (Pad) sealed() {}
func (Substring) sealed() {}
func (Repeat) sealed() {}

// StepError attributes a failure to the position of the operation in its chain.
type StepError struct {
	Step int
	Kind Kind
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("operation %d (%s): %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
