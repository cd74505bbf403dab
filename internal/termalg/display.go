package termalg

import (
	"fmt"
	"strings"

	"permcheck/internal/source"
	"permcheck/internal/symir"
)

// Namer resolves the handles a Base or Place carries into display names.
// The caller supplies it; the only implementation is this package's test
// stub, and the diagnostic renderer does not call the Display functions.
type Namer interface {
	ClassName(symir.ClassID) string
	StringName(source.StringID) string
}

// DisplayBase formats a Base for diagnostics.
func DisplayBase(b Base, n Namer) string {
	switch b.Kind {
	case BaseClass:
		if len(b.Args) == 0 {
			return n.ClassName(b.Class)
		}
		parts := make([]string, len(b.Args))
		for i, a := range b.Args {
			parts[i] = DisplayTerm(SingleTerm(symir.My, a), n)
		}
		return fmt.Sprintf("%s[%s]", n.ClassName(b.Class), strings.Join(parts, ", "))
	case BaseParam:
		return fmt.Sprintf("#%d", b.Param)
	case BasePrim:
		return b.Prim.String()
	case BaseInferVar:
		return fmt.Sprintf("?%d", b.InferVar)
	default:
		return "<error>"
	}
}

// DisplayPerm formats a single permission.
func DisplayPerm(p symir.SymPerm, n Namer) string {
	switch p.Kind {
	case symir.PermMy:
		return "my"
	case symir.PermOur:
		return "our"
	case symir.PermShared:
		return fmt.Sprintf("shared(%s)", displayPlace(p.Place, n))
	case symir.PermLeased:
		return fmt.Sprintf("leased(%s)", displayPlace(p.Place, n))
	case symir.PermParam:
		return fmt.Sprintf("#%d", p.Param)
	case symir.PermInferVar:
		return fmt.Sprintf("?%d", p.InferVar)
	default:
		return "<error>"
	}
}

func displayPlace(p symir.Place, n Namer) string {
	var b strings.Builder
	b.WriteString(n.StringName(p.Head))
	for _, proj := range p.Projections {
		b.WriteByte('.')
		b.WriteString(n.StringName(proj))
	}
	return b.String()
}

// DisplayChain formats `perm0.perm1...base`.
func DisplayChain(c Chain, n Namer) string {
	var b strings.Builder
	for _, p := range c.Perms {
		b.WriteString(DisplayPerm(p, n))
		b.WriteByte(' ')
	}
	b.WriteString(DisplayBase(c.Base, n))
	return b.String()
}

// DisplayTerm formats a term as its chains joined by " | " when there is
// more than one alternative.
func DisplayTerm(t Term, n Namer) string {
	parts := make([]string, len(t.Chains))
	for i, c := range t.Chains {
		parts[i] = DisplayChain(c, n)
	}
	return strings.Join(parts, " | ")
}
