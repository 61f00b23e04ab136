package fieldextract

import (
	"fmt"
	"strings"
)

// Strategy is one heuristic in a field's chain. Extract reports the cleaned
// value and whether it is acceptable; a rejected value lets the chain move on.
type Strategy interface {
	Name() string
	Extract(req Request) (string, bool)
}

type strategyFunc struct {
	name string
	fn   func(Request) (string, bool)
}

func (s strategyFunc) Name() string { return s.name }

func (s strategyFunc) Extract(req Request) (string, bool) { return s.fn(req) }

// newStrategy wraps fn as a named Strategy.
func newStrategy(name string, fn func(Request) (string, bool)) Strategy {
	return strategyFunc{name: name, fn: fn}
}

// Attempt records one strategy evaluation.
type Attempt struct {
	Strategy string
	Value    string
	Found    bool
	Panic    string
}

// Attempts is the ordered trace of a chain run.
type Attempts []Attempt

// Summary renders the trace as "name:status" pairs.
func (as Attempts) Summary() string {
	parts := make([]string, 0, len(as))
	for _, a := range as {
		status := "no_match"
		switch {
		case a.Panic != "":
			status = "failed"
		case a.Found:
			status = "success"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", a.Strategy, status))
	}
	return strings.Join(parts, ", ")
}

// run evaluates chain in order and stops at the first accepted value.
func run(chain []Strategy, req Request) (Result, Attempts) {
	var trace Attempts
	for _, s := range chain {
		a := attempt(s, req)
		trace = append(trace, a)
		if a.Found {
			return Result{Field: req.Field, Strategy: s.Name(), Value: a.Value}, trace
		}
	}
	return Result{Field: req.Field}, trace
}

// attempt isolates a strategy so a failing heuristic degrades to the next one.
func attempt(s Strategy, req Request) (a Attempt) {
	a.Strategy = s.Name()
	defer func() {
		if r := recover(); r != nil {
			a = Attempt{Strategy: s.Name(), Panic: fmt.Sprint(r)}
		}
	}()
	v, ok := s.Extract(req)
	if ok && v != "" {
		a.Value, a.Found = v, true
	}
	return a
}
