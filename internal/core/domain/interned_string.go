package domain

import "unique"

// InternedString wraps a unique.Handle[string]. Header paths repeat across every source
// that includes them, so memo tables key on the handle instead of the string.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	return is.h.Value()
}
