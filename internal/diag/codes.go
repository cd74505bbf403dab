package diag

import "fmt"

// Code ranges are grouped by pipeline stage: parsing, symbolize
// (module/name resolution), the reduced-term algebra, the
// predicate/subtype checker, and the inference runtime's own failure
// modes.
const (
	UnknownCode Code = 0

	// Parsing (internal/parsefront): 100-999.
	ParseSyntaxError   Code = 101
	ParseUnexpectedEOF Code = 102
	// ParseIOError reports a source file that could not be loaded at all
	// (internal/vfs), surfaced through the same diagnostic channel as a
	// syntax error rather than aborting the whole run.
	ParseIOError Code = 103

	// Symbolize (component C): 1000-1999.
	SymDuplicateItem      Code = 1001
	SymUnresolvedUse      Code = 1002
	SymUnknownClass       Code = 1003
	SymFieldCountMismatch Code = 1004

	// Reduced-term algebra (component D): 2000-2999.
	TermReduceFailed Code = 2001

	// Predicate & subtype checker (component F): 3000-3999.
	PredFailed             Code = 3001
	SubtypeFailed          Code = 3002
	WhereClauseUnsatisfied Code = 3003
	ContradictoryBound     Code = 3004

	// Expression/statement checker (component G): 4000-4999.
	PermissionAlreadyGiven  Code = 4001
	AwaitRequiresAsync      Code = 4002
	AtomicRequiresEffect    Code = 4003
	PlaceHeadNotInScope     Code = 4004
	UnknownFunction         Code = 4005
	ArgCountMismatch        Code = 4006
	GenericArgCountMismatch Code = 4007
	AwaitTargetNotAsync     Code = 4008

	// Inference runtime (component E): 5000-5999.
	InsufficientInformation Code = 5001

	// Internal invariant violations: 9000-9999 (never user-facing; see
	// store.Invariant for the panic that accompanies these).
	InternalCycleUnresolved Code = 9001
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 100 && ic < 1000:
		return fmt.Sprintf("PAR%04d", ic)
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TRM%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRD%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CHK%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("INF%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("BUG%04d", ic)
	}
	return "E0000"
}

func (c Code) String() string { return c.ID() }
