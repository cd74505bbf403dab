package predicate

import (
	"permcheck/internal/store"
	"permcheck/internal/symir"
)

type fakeClasses map[symir.ClassID]*symir.Class

func (f fakeClasses) Class(id symir.ClassID) (*symir.Class, bool) {
	c, ok := f[id]
	return c, ok
}

func newTestEnv(generics []symir.GenericDecl, classes fakeClasses) *Environment {
	return NewEnvironment(store.NewStore(), classes, generics, symir.EffectDefault)
}

var errs func(reasons *[]string) OrElse = func(reasons *[]string) OrElse {
	return func(reason string) { *reasons = append(*reasons, reason) }
}
