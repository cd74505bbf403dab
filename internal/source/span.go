package source

import "fmt"

// Span is a contiguous half-open byte range within one source file.
// Diagnostics (internal/diag) anchor to a Span; the checker never carries
// raw offsets once a Span is available.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool { return s.Start == s.End }

// Len returns the length of the span in bytes.
func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span enclosing both s and other.
// If the spans belong to different files, s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// IsLeftThan reports whether s starts before other in the same file.
func (s Span) IsLeftThan(other Span) bool {
	return s.File == other.File && s.Start < other.Start
}
