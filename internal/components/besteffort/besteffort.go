// Package besteffort runs a list of optional side actions where any single
// action failing (or panicking) must not affect the others or the caller.
package besteffort

import (
	"context"
	"fmt"
	"time"

	"prayertimes/internal/components/telemetry"
)

const report_action = "besteffort.action"

type Action struct {
	Name string
	Run  func(ctx context.Context) error
}

// Result is what happened to a single action, Err is nil on success.
type Result struct {
	Name string
	Err  error
}

type List struct {
	Actions []Action
	// Timeout bounds each action separately, zero means no bound beyond
	// the parent context.
	Timeout time.Duration
}

// Run executes every action in order. Failures are reported as warnings
// and returned for inspection, they are never propagated.
func (l List) Run(ctx context.Context, tel telemetry.API) []Result {
	results := make([]Result, 0, len(l.Actions))
	for _, action := range l.Actions {
		if ctx.Err() != nil {
			results = append(results, Result{Name: action.Name, Err: ctx.Err()})
			continue
		}
		err := l.runOne(ctx, action)
		if err != nil {
			tel.ReportWarning(report_action, action.Name, err)
		}
		results = append(results, Result{Name: action.Name, Err: err})
	}
	return results
}

func (l List) runOne(ctx context.Context, action Action) (err error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return action.Run(ctx)
}
