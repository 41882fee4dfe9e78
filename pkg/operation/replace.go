package operation

import (
	"strings"

	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/textutil"
)

const recognisedHTMLTags = "a|abbr|address|area|article|aside|audio|b|base|bdi|bdo|blockquote|body|br|button|" +
	"canvas|caption|cite|code|col|colgroup|data|datalist|dd|del|details|dfn|dialog|div|dl|dt|em|embed|" +
	"fieldset|figcaption|figure|footer|form|h1|h2|h3|h4|h5|h6|head|header|hgroup|hr|html|i|iframe|img|" +
	"input|ins|kbd|label|legend|li|link|main|map|mark|menu|meta|meter|nav|noscript|object|ol|optgroup|" +
	"option|output|p|param|picture|pre|progress|q|rp|rt|ruby|s|samp|script|search|section|select|slot|" +
	"small|source|span|strong|style|sub|summary|sup|table|tbody|td|template|textarea|tfoot|th|thead|" +
	"time|title|tr|track|u|ul|var|video|wbr"

var (
	anyTagRegex        = textutil.MustCompileRegex(`<[^>]*>`, "g")
	recognisedTagRegex = textutil.MustCompileRegex(`</?(?:`+recognisedHTMLTags+`)\b[^>]*>`, "gi")
)

func applyReplace(value string, o Replace) (string, error) {
	replacement := o.Value
	if o.Extended {
		replacement = textutil.Unescape(replacement)
	}

	switch o.Mode {
	case ModeSubstring:
		if o.Pattern == "" {
			return value, nil
		}
		return textutil.ReplaceSubstring(value, o.Pattern, replacement, o.ReplaceAll), nil
	case ModeExtendedSubstring:
		pattern := textutil.Unescape(o.Pattern)
		if pattern == "" {
			return value, nil
		}
		return textutil.ReplaceSubstring(value, pattern, replacement, o.ReplaceAll), nil
	case ModeRegex:
		re, err := compilePattern(o.Pattern)
		if err != nil {
			return "", err
		}
		return re.Replace(value, replacement)
	case ModePredefinedRule:
		re, err := ruleRegex(o.Rule)
		if err != nil {
			return "", err
		}
		if re == nil {
			return value, nil
		}
		return re.Replace(value, replacement)
	}
	return "", manipulation.InvalidOption("replace", string(o.Mode))
}

// compilePattern accepts "/body/flags" literals as well as bare patterns.
func compilePattern(pattern string) (*textutil.Regex, error) {
	body, flags, _ := textutil.ParseRegexLiteral(pattern)
	re, err := textutil.CompileRegex(body, flags)
	if err != nil {
		return nil, manipulation.InvalidParameter("pattern", pattern)
	}
	return re, nil
}

// ruleRegex builds the regex for a predefined rule. It returns nil when the
// rule has nothing to match.
func ruleRegex(rule Rule) (*textutil.Regex, error) {
	switch rule.Kind {
	case RuleTags:
		if rule.OnlyRecognisedHTML {
			return recognisedTagRegex, nil
		}
		return anyTagRegex, nil
	case RuleCharacterGroups:
		groups := []struct {
			name    string
			pattern string
			rep     *Repetition
		}{
			{"newline", `\r\n|\r|\n`, rule.Newline},
			{"digit", `\d`, rule.Digit},
			{"alpha", `[a-zA-Z]`, rule.Alpha},
			{"whitespace", `\s`, rule.Whitespace},
		}
		var alternatives []string
		for _, g := range groups {
			if g.rep == nil {
				continue
			}
			if g.rep.Min < 0 || g.rep.Max < 0 || (g.rep.Max > 0 && g.rep.Max < g.rep.Min) {
				return nil, manipulation.InvalidParameter(g.name, *g.rep)
			}
			alternatives = append(alternatives, textutil.QuantifiedGroup(g.pattern, g.rep.Min, g.rep.Max))
		}
		if len(alternatives) == 0 {
			return nil, nil
		}
		re, err := textutil.CompileRegex(strings.Join(alternatives, "|"), "g")
		if err != nil {
			return nil, manipulation.InvalidParameter("characterGroups", strings.Join(alternatives, "|"))
		}
		return re, nil
	}
	return nil, manipulation.InvalidOption("rule", string(rule.Kind))
}
