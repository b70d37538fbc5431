// Package search compiles the pattern typed in the search bar into a label
// matcher.
//
// Patterns use RE2 syntax. Compilation is linear-time and matching never
// backtracks, so a pattern is re-compiled and re-applied to every label on
// each keystroke.
package search

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Mode selects how the typed text is interpreted.
type Mode string

const (
	ModeRegex   Mode = "regex"
	ModeLiteral Mode = "literal"
)

// EnvSearchMode overrides the configured search mode.
const EnvSearchMode = "H5NAV_SEARCH_MODE"

// Options controls pattern compilation.
type Options struct {
	Mode            Mode
	CaseInsensitive bool
}

// OptionsFromEnv applies H5NAV_SEARCH_MODE on top of base.
func OptionsFromEnv(base Options) Options {
	switch Mode(strings.ToLower(strings.TrimSpace(os.Getenv(EnvSearchMode)))) {
	case ModeLiteral:
		base.Mode = ModeLiteral
	case ModeRegex:
		base.Mode = ModeRegex
	}
	return base
}

// Matcher reports whether a label matches.
type Matcher interface {
	Match(text string) bool
}

// PatternError reports a pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Regexp matches labels against a compiled pattern. The empty pattern
// matches nothing.
type Regexp struct {
	pattern string
	re      *regexp.Regexp
}

// Compile compiles pattern according to opts.
func Compile(pattern string, opts Options) (*Regexp, error) {
	if pattern == "" {
		return &Regexp{}, nil
	}
	expr := pattern
	if opts.Mode == ModeLiteral {
		expr = regexp.QuoteMeta(pattern)
	}
	if opts.CaseInsensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return &Regexp{pattern: pattern, re: re}, nil
}

// Pattern returns the text the matcher was compiled from.
func (r *Regexp) Pattern() string { return r.pattern }

// Match reports whether text contains a match.
func (r *Regexp) Match(text string) bool {
	if r == nil || r.re == nil {
		return false
	}
	return r.re.MatchString(text)
}
