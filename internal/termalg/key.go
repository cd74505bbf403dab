package termalg

import (
	"fmt"
	"sort"
	"strings"

	"permcheck/internal/source"
)

// Key returns a canonical string encoding of t, stable under chain
// reordering, suitable as a memoization map key (internal/predicate uses
// it to key the co-inductive sub(sub, sup) cache). It is not meant for
// user-facing display — see DisplayTerm for that.
func (t Term) Key() string {
	parts := make([]string, len(t.Chains))
	for i, c := range t.Chains {
		parts[i] = chainKey(c)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func chainKey(c Chain) string {
	var b strings.Builder
	for _, p := range c.Perms {
		fmt.Fprintf(&b, "%d(%d,%d,%d:%s)|", p.Kind, p.Param, p.InferVar, p.Place.Head, projKey(p.Place.Projections))
	}
	fmt.Fprintf(&b, "base:%d/%d/%d/%d/%d", c.Base.Kind, c.Base.Class, c.Base.Param, c.Base.Prim, c.Base.InferVar)
	return b.String()
}

func projKey(proj []source.StringID) string {
	parts := make([]string, len(proj))
	for i, p := range proj {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ".")
}
