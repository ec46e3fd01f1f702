package impact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidPattern is returned for search terms that cannot be matched.
var ErrInvalidPattern = errors.New("invalid pattern")

// Matcher finds non-overlapping occurrences of a search term.
type Matcher struct {
	term    string
	literal bool
	re      *regexp.Regexp
}

// Literal matches term as plain text. Regex metacharacters have no meaning.
func Literal(term string) (Matcher, error) {
	if term == "" {
		return Matcher{}, fmt.Errorf("%w: empty search term", ErrInvalidPattern)
	}
	if !utf8.ValidString(term) {
		return Matcher{}, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPattern, term)
	}
	return Matcher{term: term, literal: true}, nil
}

// Pattern matches expr as RE2 syntax. Expressions that match the empty string
// are rejected since every position would count as an occurrence.
func Pattern(expr string) (Matcher, error) {
	if expr == "" {
		return Matcher{}, fmt.Errorf("%w: empty search term", ErrInvalidPattern)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Matcher{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	if re.MatchString("") {
		return Matcher{}, fmt.Errorf("%w: %q matches the empty string", ErrInvalidPattern, expr)
	}
	return Matcher{term: expr, re: re}, nil
}

// zero reports whether m was not built by Literal or Pattern.
func (m Matcher) zero() bool {
	return !m.literal && m.re == nil
}

func (m Matcher) String() string {
	return m.term
}

func (m Matcher) Count(s string) int {
	if m.literal {
		return strings.Count(s, m.term)
	}
	if m.re == nil {
		return 0
	}
	return len(m.re.FindAllStringIndex(s, -1))
}

// ReplaceAll substitutes every occurrence with replacement taken literally.
func (m Matcher) ReplaceAll(s, replacement string) string {
	if m.literal {
		return strings.ReplaceAll(s, m.term, replacement)
	}
	if m.re == nil {
		return s
	}
	return m.re.ReplaceAllLiteralString(s, replacement)
}
