package operation

import (
	"github.com/go-go-golems/text-manipulation/pkg/entities"
	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/textutil"
)

// RepetitionSpec is the YAML form of a character group repetition.
type RepetitionSpec struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Spec is the flat configuration form of an operation: an action plus the
// keys that action reads. Keys belonging to other actions are ignored.
type Spec struct {
	Action string `yaml:"action"`

	Before string `yaml:"before,omitempty"`
	After  string `yaml:"after,omitempty"`

	DecodeCharset string `yaml:"decode_charset,omitempty"`
	EncodeCharset string `yaml:"encode_charset,omitempty"`
	StripBOM      bool   `yaml:"strip_bom,omitempty"`
	AddBOM        bool   `yaml:"add_bom,omitempty"`

	Decode     string `yaml:"decode,omitempty"`
	DecodeMode string `yaml:"decode_mode,omitempty"`
	Encode     string `yaml:"encode,omitempty"`
	EncodeMode string `yaml:"encode_mode,omitempty"`

	Case   string `yaml:"case,omitempty"`
	Locale string `yaml:"locale,omitempty"`

	Form string `yaml:"form,omitempty"`

	Replace            string          `yaml:"replace,omitempty"`
	Pattern            string          `yaml:"pattern,omitempty"`
	Value              string          `yaml:"value,omitempty"`
	ReplaceAll         bool            `yaml:"replace_all,omitempty"`
	Extended           bool            `yaml:"extended,omitempty"`
	Rule               string          `yaml:"rule,omitempty"`
	OnlyRecognisedHTML bool            `yaml:"only_recognised_html,omitempty"`
	Newline            *RepetitionSpec `yaml:"newline,omitempty"`
	Digit              *RepetitionSpec `yaml:"digit,omitempty"`
	Alpha              *RepetitionSpec `yaml:"alpha,omitempty"`
	Whitespace         *RepetitionSpec `yaml:"whitespace,omitempty"`

	Trim       string `yaml:"trim,omitempty"`
	TrimString string `yaml:"trim_string,omitempty"`
	TrimAsUnit bool   `yaml:"trim_as_unit,omitempty"`

	Pad          string `yaml:"pad,omitempty"`
	TargetLength int    `yaml:"target_length,omitempty"`
	PadString    string `yaml:"pad_string,omitempty"`

	Start       int    `yaml:"start,omitempty"`
	End         string `yaml:"end,omitempty"`
	EndPosition int    `yaml:"end_position,omitempty"`
	Length      int    `yaml:"length,omitempty"`

	Times int `yaml:"times,omitempty"`
}

var trimAliases = map[string]textutil.TrimSide{
	"both":      textutil.TrimBoth,
	"start":     textutil.TrimStart,
	"end":       textutil.TrimEnd,
	"trimBoth":  textutil.TrimBoth,
	"trimStart": textutil.TrimStart,
	"trimEnd":   textutil.TrimEnd,
}

var padAliases = map[string]PadSide{
	"start":    PadStart,
	"end":      PadEnd,
	"padStart": PadStart,
	"padEnd":   PadEnd,
}

// Build validates the spec and converts it to its typed operation. Unknown
// actions and sub-modes fail with ErrInvalidOption, out-of-range numbers with
// ErrInvalidParameter.
func (s Spec) Build() (Operation, error) {
	switch Kind(s.Action) {
	case KindConcat:
		return Concat{Before: s.Before, After: s.After}, nil

	case KindDecodeEncode:
		return DecodeEncode{
			DecodeCharset: defaultString(s.DecodeCharset, "utf8"),
			EncodeCharset: defaultString(s.EncodeCharset, "utf8"),
			StripBOM:      s.StripBOM,
			AddBOM:        s.AddBOM,
		}, nil

	case KindDecodeEncodeEntities:
		return s.buildEntities()

	case KindLetterCase:
		c := Case(s.Case)
		switch c {
		case CaseCamel, CaseCapitalize, CaseTitle, CaseKebab, CaseSnake, CaseStart, CaseUpper, CaseLower:
		case CaseLocaleUpper, CaseLocaleLower:
			if _, err := languageTag(s.Locale); err != nil {
				return nil, err
			}
		default:
			return nil, manipulation.InvalidOption("case", s.Case)
		}
		return LetterCase{Case: c, Locale: s.Locale}, nil

	case KindNormalize:
		f := Form(defaultString(s.Form, string(NFC)))
		switch f {
		case NFC, NFD, NFKC, NFKD:
			return Normalize{Form: f}, nil
		}
		return nil, manipulation.InvalidOption("form", s.Form)

	case KindReplace:
		return s.buildReplace()

	case KindTrim:
		side, ok := trimAliases[defaultString(s.Trim, "both")]
		if !ok {
			return nil, manipulation.InvalidOption("trim", s.Trim)
		}
		return Trim{Side: side, Chars: defaultString(s.TrimString, " "), AsUnit: s.TrimAsUnit}, nil

	case KindPad:
		side, ok := padAliases[defaultString(s.Pad, "start")]
		if !ok {
			return nil, manipulation.InvalidOption("pad", s.Pad)
		}
		if s.TargetLength < 0 {
			return nil, manipulation.InvalidParameter("target_length", s.TargetLength)
		}
		return Pad{Side: side, TargetLength: s.TargetLength, Fill: s.PadString}, nil

	case KindSubstring:
		end := EndMode(defaultString(s.End, string(EndComplete)))
		switch end {
		case EndComplete, EndPosition:
		case EndLength:
			if s.Length < 0 {
				return nil, manipulation.InvalidParameter("length", s.Length)
			}
		default:
			return nil, manipulation.InvalidOption("end", s.End)
		}
		return Substring{Start: s.Start, End: end, Position: s.EndPosition, Length: s.Length}, nil

	case KindRepeat:
		if s.Times < 0 {
			return nil, manipulation.InvalidParameter("times", s.Times)
		}
		return Repeat{Times: s.Times}, nil
	}
	return nil, manipulation.InvalidOption("action", s.Action)
}

func (s Spec) buildEntities() (Operation, error) {
	dec, err := entities.ParseKind("decode", s.Decode)
	if err != nil {
		return nil, err
	}
	enc, err := entities.ParseKind("encode", s.Encode)
	if err != nil {
		return nil, err
	}
	decMode, err := entities.ParseDecodeMode("decode_mode", s.DecodeMode)
	if err != nil {
		return nil, err
	}
	encMode, err := entities.ParseEncodeMode("encode_mode", s.EncodeMode)
	if err != nil {
		return nil, err
	}
	return DecodeEncodeEntities{Decode: dec, DecodeMode: decMode, Encode: enc, EncodeMode: encMode}, nil
}

func (s Spec) buildReplace() (Operation, error) {
	op := Replace{
		Mode:       ReplaceMode(defaultString(s.Replace, string(ModeSubstring))),
		Pattern:    s.Pattern,
		Value:      s.Value,
		ReplaceAll: s.ReplaceAll,
		Extended:   s.Extended,
	}
	switch op.Mode {
	case ModeSubstring, ModeExtendedSubstring:
	case ModeRegex:
		if _, err := compilePattern(s.Pattern); err != nil {
			return nil, err
		}
	case ModePredefinedRule:
		op.Rule = Rule{
			Kind:               RuleKind(defaultString(s.Rule, string(RuleTags))),
			OnlyRecognisedHTML: s.OnlyRecognisedHTML,
			Newline:            s.Newline.repetition(),
			Digit:              s.Digit.repetition(),
			Alpha:              s.Alpha.repetition(),
			Whitespace:         s.Whitespace.repetition(),
		}
		if _, err := ruleRegex(op.Rule); err != nil {
			return nil, err
		}
	default:
		return nil, manipulation.InvalidOption("replace", s.Replace)
	}
	return op, nil
}

func (r *RepetitionSpec) repetition() *Repetition {
	if r == nil {
		return nil
	}
	return &Repetition{Min: r.Min, Max: r.Max}
}

// BuildAll builds every spec, stopping at the first invalid one.
func BuildAll(specs []Spec) ([]Operation, error) {
	ops := make([]Operation, 0, len(specs))
	for i, s := range specs {
		op, err := s.Build()
		if err != nil {
			return nil, &StepError{Step: i, Kind: Kind(s.Action), Err: err}
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
