package normalize

// Rule groups, listed in the order a profile applies them. Emphasis stripping
// comes before keyword breaks so "**Subject:**" is seen as a plain "Subject:".

// LineEndingRules converts CRLF and lone CR to LF.
func LineEndingRules() []Rule {
	return []Rule{
		Literal("crlf", "\r\n", "\n"),
		Literal("cr", "\r", "\n"),
	}
}

// EmphasisRules strips markdown bold and italic markers.
func EmphasisRules() []Rule {
	return []Rule{
		Literal("bold", "**", ""),
		Literal("italic", "*", ""),
	}
}

// EmailKeywordRules break before the subject line, greetings and closings.
func EmailKeywordRules() []Rule {
	return []Rule{
		BreakBefore("subject", "\n", "Subject:"),
		BreakBefore("greeting", "\n", "Dear", "Hello", "Hi"),
		BreakBefore("closing", "\n\n", "Best regards", "Best Regards", "Kind regards", "Kind Regards", "Regards", "Sincerely", "Thank you"),
	}
}

// ResumeSectionRules open a paragraph before every resume section label.
// Longer labels come first so "Work Experience:" is not split before "Experience:".
func ResumeSectionRules() []Rule {
	return []Rule{
		BreakBefore("section", "\n\n",
			"Professional Summary:", "Summary:",
			"Work Experience:", "Professional Experience:", "Experience:",
			"Education:",
			"Technical Skills:", "Skills:",
			"Projects:",
			"Certifications:",
		),
	}
}

// SentenceBreakRules end the line after every sentence terminator and label colon.
func SentenceBreakRules() []Rule {
	return []Rule{
		Literal("sentence", ". ", ".\n"),
		Literal("colon", ": ", ":\n"),
	}
}

// CleanupRules remove trailing spaces and collapse runs of blank lines.
func CleanupRules() []Rule {
	return []Rule{
		Pattern("trailing-space", `[ \t]+\n`, "\n"),
		Pattern("blank-lines", `\n{3,}`, "\n\n"),
	}
}
