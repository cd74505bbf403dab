package symir

// Predicate is a property a reduced term may satisfy: Copy, Move, Owned,
// Lent, Unique, Shared. Where-clauses name one; requires() (internal/predicate)
// decides whether a term's head satisfies it.
type Predicate uint8

const (
	PredCopy Predicate = iota
	PredMove
	PredOwned
	PredLent
	PredUnique
	PredShared
)

func (p Predicate) String() string {
	switch p {
	case PredCopy:
		return "Copy"
	case PredMove:
		return "Move"
	case PredOwned:
		return "Owned"
	case PredLent:
		return "Lent"
	case PredUnique:
		return "Unique"
	case PredShared:
		return "Shared"
	default:
		return "Predicate(?)"
	}
}

// WhereClause binds a subject term to a required predicate, e.g. the `T
// is Copy` in `class C[T] where T is Copy`. The requires() query is
// defined over all six predicates, so WhereClause carries the full
// Predicate enum rather than a narrower ownership-only subset.
type WhereClause struct {
	Subject   SymTy
	Predicate Predicate
	Span      Span
}
