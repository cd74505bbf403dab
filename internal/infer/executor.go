// Package infer implements the deferred inference runtime: a
// single-threaded cooperative scheduler that drives many small checker
// tasks, each of which may suspend until enough is known about one or
// more inference variables' bounds.
//
// A task is modeled as a StepFunc rather than a goroutine: the executor
// never spawns OS threads or uses channels, so "single-threaded
// cooperative, no data races, deterministic wake-up order" holds by
// construction rather than by discipline. Each call to a task's StepFunc
// either finishes the task or reports the set of inference variables it
// is now waiting on; Notify re-queues the tasks waiting on a variable.
// internal/predicate records bounds and lists the variables whose bounds
// changed (Environment.PopDirty) but does not call Notify, and
// internal/exprcheck runs one task per function and never calls it, so
// there a blocked task is re-polled only by Drain's completion mode.
package infer

import (
	"fmt"
	"time"

	"permcheck/internal/source"
	"permcheck/internal/symir"
	"permcheck/internal/trace"
)

// TaskID identifies a spawned task within one Executor.
type TaskID uint32

// StepResult is what a StepFunc reports after one poll: either it
// finished (Done), or it is suspended waiting on WaitOn to change.
type StepResult struct {
	Done   bool
	WaitOn []symir.InferVarID
}

// StepFunc is one resumable unit of checker work. It must not block or
// spawn concurrency of its own; all state it needs across polls belongs
// in the closure.
type StepFunc func() StepResult

type taskState struct {
	id     TaskID
	step   StepFunc
	origin source.Span
	done   bool
	waitOn []symir.InferVarID
}

// Executor runs StepFuncs to completion:
// re-poll every waiter on a changed variable in registration order;
// enter completion mode when a round makes no progress; report
// insufficient information for anything still pending after that.
type Executor struct {
	// Tracer receives wake-up and completion-mode events; defaults to
	// trace.Nop.
	Tracer trace.Tracer

	tasks   map[TaskID]*taskState
	order   []TaskID
	ready   []TaskID
	waiters map[symir.InferVarID][]TaskID
	next    TaskID
}

// NewExecutor returns an empty executor.
func NewExecutor() *Executor {
	return &Executor{
		Tracer:  trace.Nop,
		tasks:   make(map[TaskID]*taskState),
		waiters: make(map[symir.InferVarID][]TaskID),
	}
}

func (e *Executor) traceEvent(msg string) {
	if e.Tracer.Level() >= trace.LevelDetail {
		e.Tracer.Emit(trace.Event{At: time.Now(), Level: trace.LevelDetail, Tag: "infer.wake", Msg: msg})
	}
}

// Spawn registers step as a new task, initially ready to run. origin is
// the span attributed to an "insufficient information" diagnostic should
// the task never complete.
func (e *Executor) Spawn(origin source.Span, step StepFunc) TaskID {
	e.next++
	id := e.next
	ts := &taskState{id: id, step: step, origin: origin}
	e.tasks[id] = ts
	e.order = append(e.order, id)
	e.ready = append(e.ready, id)
	return id
}

// Pending reports whether the task identified by id has not yet
// completed. Unknown IDs report false.
func (e *Executor) Pending(id TaskID) bool {
	ts, ok := e.tasks[id]
	return ok && !ts.done
}

func (e *Executor) register(ts *taskState, waitOn []symir.InferVarID) {
	ts.waitOn = waitOn
	for _, v := range waitOn {
		e.waiters[v] = append(e.waiters[v], ts.id)
	}
}

// Notify re-queues every task registered as waiting on v, in the order
// they registered. Call it whenever a bound on v is recorded.
func (e *Executor) Notify(v symir.InferVarID) {
	waiting := e.waiters[v]
	if len(waiting) == 0 {
		return
	}
	e.traceEvent(fmt.Sprintf("variable %d wakes %d task(s)", v, len(waiting)))
	delete(e.waiters, v)
	for _, id := range waiting {
		if ts, ok := e.tasks[id]; ok && !ts.done {
			e.ready = append(e.ready, id)
		}
	}
}

// runReadyOnce steps every task currently in the ready queue exactly
// once, collecting re-registrations for the next round. It reports
// whether any task completed.
func (e *Executor) runReadyOnce() bool {
	queue := e.ready
	e.ready = nil
	seen := make(map[TaskID]bool, len(queue))
	progressed := false
	for _, id := range queue {
		if seen[id] {
			continue
		}
		seen[id] = true
		ts := e.tasks[id]
		if ts == nil || ts.done {
			continue
		}
		res := ts.step()
		if res.Done {
			ts.done = true
			progressed = true
			continue
		}
		e.register(ts, res.WaitOn)
	}
	return progressed
}

func (e *Executor) allDone() bool {
	for _, id := range e.order {
		if !e.tasks[id].done {
			return false
		}
	}
	return true
}

// Drain runs every spawned task to completion:
//  1. Run ready tasks to a fixpoint (a round makes progress whenever any
//     task completes or any Notify call it triggers adds more ready work).
//  2. If tasks remain pending, enter completion mode: call completeVar
//     once for every inference variable any pending task is still
//     waiting on, then re-poll every pending task exactly once more.
//  3. Anything still pending after that calls onInsufficient with its
//     origin span.
func (e *Executor) Drain(completeVar func(symir.InferVarID), onInsufficient func(source.Span)) {
	for len(e.ready) > 0 {
		e.runReadyOnce()
	}
	if e.allDone() {
		return
	}

	e.traceEvent("entering completion mode")
	seenVar := make(map[symir.InferVarID]bool)
	for _, id := range e.order {
		ts := e.tasks[id]
		if ts.done {
			continue
		}
		for _, v := range ts.waitOn {
			if !seenVar[v] {
				seenVar[v] = true
				completeVar(v)
			}
		}
		e.ready = append(e.ready, id)
	}
	e.runReadyOnce()

	for _, id := range e.order {
		ts := e.tasks[id]
		if !ts.done {
			onInsufficient(ts.origin)
		}
	}
}
