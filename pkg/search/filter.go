package search

// Filter is the active search state. The zero value has no search active.
type Filter struct {
	opts    Options
	current *Regexp
}

// NewFilter returns an inactive filter that compiles with opts.
func NewFilter(opts Options) *Filter {
	return &Filter{opts: opts}
}

// Set replaces the active search. A nil pattern clears it. When the pattern
// does not compile the previous search is kept and a *PatternError is
// returned.
func (f *Filter) Set(pattern *string) error {
	if pattern == nil {
		f.current = nil
		return nil
	}
	re, err := Compile(*pattern, f.opts)
	if err != nil {
		return err
	}
	f.current = re
	return nil
}

// Active reports whether a search is in effect, even with an empty pattern.
func (f *Filter) Active() bool {
	return f.current != nil
}

// Pattern returns the active pattern, empty when inactive.
func (f *Filter) Pattern() string {
	if f.current == nil {
		return ""
	}
	return f.current.pattern
}

// Matcher returns the active matcher, or nil when no search is active. The
// result is an untyped nil in that case so callers can compare it to nil.
func (f *Filter) Matcher() Matcher {
	if f.current == nil {
		return nil
	}
	return f.current
}
