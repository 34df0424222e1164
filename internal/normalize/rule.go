package normalize

import (
	"regexp"
	"strings"
)

// Rule is one rewrite pass. Literal rules replace every occurrence of Old with New;
// pattern rules run Pattern.ReplaceAllString with Replacement ($1 expansion applies).
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string

	literal  bool
	old, new string
}

// Literal builds a rule replacing every occurrence of old with new.
func Literal(name, old, new string) Rule {
	return Rule{Name: name, literal: true, old: old, new: new}
}

// Pattern builds a regular-expression rule. It panics on an invalid expression,
// so rules are meant to be built at package init.
func Pattern(name, expr, replacement string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(expr), Replacement: replacement}
}

// BreakBefore builds a rule that puts each keyword at the start of a line,
// preceded by breaks ("\n" or "\n\n"). Whitespace already in front of the keyword
// is folded into the break, so applying the rule twice changes nothing.
func BreakBefore(name, breaks string, keywords ...string) Rule {
	alts := make([]string, len(keywords))
	for i, k := range keywords {
		alts[i] = regexp.QuoteMeta(k)
		if !strings.HasSuffix(k, ":") {
			alts[i] += `\b`
		}
	}
	return Pattern(name, `\s*\b(`+strings.Join(alts, "|")+`)`, breaks+"$1")
}

func (r Rule) apply(s string) string {
	if r.literal {
		return strings.ReplaceAll(s, r.old, r.new)
	}
	return r.Pattern.ReplaceAllString(s, r.Replacement)
}
