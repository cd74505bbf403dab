// Package source models source files, byte spans, and line/column
// resolution. It is the only thing the checker core (internal/store and up)
// reads from the outside world: a source file is an input handle, never a
// direct file-system read (see internal/vfs for that).
package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records provenance/normalization metadata about a file.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory (tests, REPL fragments) rather than disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File holds the content and derived line index for one source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable 1-based line/column position.
type LineCol struct {
	Line uint32
	Col  uint32
}
