package services

import "strings"

// leetSubstitutions maps the digit-for-letter swaps people use to sneak
// terms past a naive filter.
var leetSubstitutions = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
}

// ModerationFilter screens pin text against a configured blocked-term list.
// The list is fixed at construction; config is read-only after process
// start, so terms are normalized once up front.
type ModerationFilter struct {
	terms []string
}

// NewModerationFilter builds a filter from raw blocked terms. Terms that
// normalize to the empty string (all punctuation, all uncovered digits)
// are dropped so they can never match everything.
func NewModerationFilter(blockedWords []string) *ModerationFilter {
	terms := make([]string, 0, len(blockedWords))
	for _, w := range blockedWords {
		if n := normalizeForModeration(w); n != "" {
			terms = append(terms, n)
		}
	}
	return &ModerationFilter{terms: terms}
}

// IsBlocked reports whether any blocked term appears as a contiguous
// substring of the normalized text. An empty term set never blocks.
func (f *ModerationFilter) IsBlocked(text string) bool {
	normalized := normalizeForModeration(text)
	for _, term := range f.terms {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	return false
}

// normalizeForModeration lowercases, applies leet substitutions, and strips
// everything outside a-z, collapsing spacing/punctuation/digit obfuscation
// into one canonical form.
func normalizeForModeration(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(input) {
		if sub, ok := leetSubstitutions[r]; ok {
			r = sub
		}
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
