package termalg

import "permcheck/internal/symir"

// Subst maps generic parameter indices to concrete types/permissions,
// instantiating a class or function's generics at a use site (e.g.
// `C[Int](1)` substituting T -> Int).
type Subst struct {
	Types []symir.SymTy  // indexed by GenericRef
	Perms []symir.SymPerm
}

// SubstTy replaces every TyParam in t with its substitution, recursing
// into named-class arguments. A GenericRef with no corresponding entry
// (index out of range) is left untouched.
func SubstTy(s Subst, t symir.SymTy) symir.SymTy {
	switch t.Kind {
	case symir.TyParam:
		if int(t.Param) < len(s.Types) {
			return s.Types[t.Param]
		}
		return t
	case symir.TyNamed:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]symir.SymTy, len(t.Args))
		for i, a := range t.Args {
			args[i] = SubstTy(s, a)
		}
		return symir.Named(t.Class, args...)
	default:
		return t
	}
}

// SubstPerm replaces a PermParam with its substitution; places embedded
// in Shared/Leased permissions are left as-is since substitution only
// ever targets generic parameters, never place expressions.
func SubstPerm(s Subst, p symir.SymPerm) symir.SymPerm {
	if p.Kind == symir.PermParam && int(p.Param) < len(s.Perms) {
		return s.Perms[p.Param]
	}
	return p
}
