package infer

import (
	"testing"

	"permcheck/internal/source"
	"permcheck/internal/symir"
)

func TestTaskCompletesImmediately(t *testing.T) {
	e := NewExecutor()
	ran := false
	id := e.Spawn(source.Span{}, func() StepResult {
		ran = true
		return StepResult{Done: true}
	})
	e.Drain(func(symir.InferVarID) {}, func(source.Span) { t.Fatal("should not report insufficient information") })
	if !ran || e.Pending(id) {
		t.Fatalf("task should have run and completed: ran=%v pending=%v", ran, e.Pending(id))
	}
}

func TestTaskResumesOnNotify(t *testing.T) {
	e := NewExecutor()
	var v symir.InferVarID = 1
	bound := false
	polls := 0

	id := e.Spawn(source.Span{}, func() StepResult {
		polls++
		if !bound {
			return StepResult{WaitOn: []symir.InferVarID{v}}
		}
		return StepResult{Done: true}
	})

	// First drain pass suspends; nothing notifies v, so it should remain pending.
	e.Drain(func(symir.InferVarID) {}, func(source.Span) {})
	if !e.Pending(id) {
		t.Fatal("task should still be pending before its variable is bound")
	}

	bound = true
	e.Notify(v)
	e.Drain(func(symir.InferVarID) {}, func(source.Span) { t.Fatal("should not need completion mode") })
	if e.Pending(id) {
		t.Fatal("task should have completed after Notify")
	}
	if polls < 2 {
		t.Fatalf("expected at least 2 polls, got %d", polls)
	}
}

func TestNotifyPreservesRegistrationOrder(t *testing.T) {
	e := NewExecutor()
	var v symir.InferVarID = 1
	var order []string

	spawnWaiter := func(name string) {
		polled := false
		e.Spawn(source.Span{}, func() StepResult {
			if !polled {
				polled = true
				return StepResult{WaitOn: []symir.InferVarID{v}}
			}
			order = append(order, name)
			return StepResult{Done: true}
		})
	}
	spawnWaiter("first")
	spawnWaiter("second")
	spawnWaiter("third")

	// Run once so each registers its wait.
	for len(e.ready) > 0 {
		e.runReadyOnce()
	}
	e.Notify(v)
	for len(e.ready) > 0 {
		e.runReadyOnce()
	}

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("Notify() re-polled out of registration order: %v", order)
	}
}

func TestDrainEntersCompletionModeAndCompletesTask(t *testing.T) {
	e := NewExecutor()
	var v symir.InferVarID = 5
	completed := false
	origin := source.Span{Start: 7}

	e.Spawn(origin, func() StepResult {
		if completed {
			return StepResult{Done: true}
		}
		return StepResult{WaitOn: []symir.InferVarID{v}}
	})

	var completedVars []symir.InferVarID
	e.Drain(func(vv symir.InferVarID) {
		completedVars = append(completedVars, vv)
		completed = true
	}, func(span source.Span) {
		t.Fatalf("task should have completed in completion mode's re-poll, got insufficient-information at %v", span)
	})

	if len(completedVars) != 1 || completedVars[0] != v {
		t.Fatalf("completeVar called with %v, want [%d]", completedVars, v)
	}
}

func TestDrainReportsInsufficientInformationWhenStillStuck(t *testing.T) {
	e := NewExecutor()
	origin := source.Span{Start: 3}
	e.Spawn(origin, func() StepResult {
		return StepResult{WaitOn: []symir.InferVarID{9}}
	})

	var reported []source.Span
	e.Drain(func(symir.InferVarID) {}, func(span source.Span) {
		reported = append(reported, span)
	})
	if len(reported) != 1 || reported[0] != origin {
		t.Fatalf("onInsufficient called with %v, want [%v]", reported, origin)
	}
}
