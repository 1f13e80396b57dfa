// Package pipeline tries the configured strategies one after the other and
// assembles the first valid result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"prayertimes/internal/components/assert"
	"prayertimes/internal/components/chrono"
	"prayertimes/internal/components/telemetry"
	"prayertimes/internal/config"
	"prayertimes/internal/prayer"
	"prayertimes/internal/sources"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_orchestrator_attempt = "orchestrator.attempt"
	report_orchestrator_run     = "orchestrator.run"
)

var tracer = otel.Tracer("prayertimes/pipeline")

// Step is one entry of the priority list.
type Step struct {
	Strategy sources.Strategy
	// Timeout bounds the whole attempt, zero means unbounded.
	Timeout time.Duration
}

// Plan is the ordered strategy list, earlier steps are preferred.
type Plan []Step

// PlanFromConfig resolves the configured strategy order, build is called
// once per step.
func PlanFromConfig(cfg config.Config, build func(name string) (sources.Strategy, error)) (Plan, error) {
	plan := make(Plan, 0, len(cfg.Strategies))
	for _, s := range cfg.Strategies {
		timeout, err := cfg.Timeout(s)
		if err != nil {
			return nil, err
		}
		strategy, err := build(s.Name)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", s.Name, err)
		}
		plan = append(plan, Step{Strategy: strategy, Timeout: timeout})
	}
	return plan, nil
}

// AggregateFailure is returned when every step of the plan failed, the
// failures are in plan order.
type AggregateFailure struct {
	Failures []sources.Failure
}

func (e *AggregateFailure) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("all %d strategies failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *AggregateFailure) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f
	}
	return out
}

type Orchestrator struct {
	plan     Plan
	locality prayer.Locality
	clock    chrono.API
	tel      telemetry.API
	attempts metric.Int64Counter
}

func New(plan Plan, locality prayer.Locality, clock chrono.API, tel telemetry.API) *Orchestrator {
	if len(plan) == 0 {
		panic("pipeline: plan must contain at least one step")
	}
	for _, step := range plan {
		assert.NotNil(step.Strategy)
	}
	assert.NotNil(clock)
	assert.NotNil(tel)

	attempts, _ := otel.Meter("prayertimes/pipeline").Int64Counter(
		"strategy_attempts",
		metric.WithDescription("strategy attempts by outcome"),
	)

	return &Orchestrator{
		plan:     plan,
		locality: locality,
		clock:    clock,
		tel:      telemetry.NewScopedAPI("pipeline", tel),
		attempts: attempts,
	}
}

// Run attempts each step exactly once, in order, and stops at the first
// success. The only error it returns is *AggregateFailure.
func (o *Orchestrator) Run(ctx context.Context) (prayer.Schedule, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.Run")
	defer span.End()

	failures := make([]sources.Failure, 0, len(o.plan))
	for i, step := range o.plan {
		outcome := o.attempt(ctx, i, step)
		if outcome.Ok() {
			schedule := prayer.Assemble(
				outcome.Partial,
				prayer.Origin{Source: step.Strategy.Name(), URL: step.Strategy.URL()},
				o.locality,
				o.clock.Now(),
			)
			span.SetAttributes(attribute.String("source", step.Strategy.Name()))
			return schedule, nil
		}
		failures = append(failures, *outcome.Failure)
	}

	err := &AggregateFailure{Failures: failures}
	span.SetStatus(codes.Error, "all strategies failed")
	o.tel.ReportBroken(report_orchestrator_run, err)
	return prayer.Schedule{}, err
}

func (o *Orchestrator) attempt(ctx context.Context, index int, step Step) sources.Outcome {
	name := step.Strategy.Name()
	ctx, span := tracer.Start(ctx, "Orchestrator.attempt")
	defer span.End()
	span.SetAttributes(
		attribute.String("strategy", name),
		attribute.Int("index", index),
	)

	if step.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	start := time.Now()
	outcome := Attempt(ctx, step.Strategy)
	elapsed := time.Since(start)

	result := "ok"
	if !outcome.Ok() {
		result = string(outcome.Failure.Stage)
		span.RecordError(outcome.Failure.Err)
		span.SetStatus(codes.Error, result)
		o.tel.ReportWarning(report_orchestrator_attempt, name, result, outcome.Failure.Err)
	}
	o.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", name),
		attribute.String("result", result),
	))
	o.tel.ReportDebug("strategy attempted", "strategy", name, "result", result, "elapsed", elapsed.String())

	return outcome
}

// Attempt runs fetch, parse and validate for a single strategy. A timed
// out fetch always becomes a *sources.FetchError with Timeout set, a panic
// becomes a failure of the stage it happened in.
func Attempt(ctx context.Context, s sources.Strategy) (outcome sources.Outcome) {
	defer func() {
		r := recover()
		if r != nil {
			outcome = sources.Failed(s.Name(), sources.StageFetch, fmt.Errorf("panic: %v", r))
		}
	}()

	raw, err := s.Fetch(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		return sources.Failed(s.Name(), sources.StageFetch, asFetchError(ctx, s.Name(), err))
	}

	return Evaluate(ctx, s, raw)
}

// Evaluate is the offline half of Attempt, it parses and validates a raw
// payload that was already fetched. The validation observer runs as part
// of the validate stage.
func Evaluate(ctx context.Context, s sources.Strategy, raw string) (outcome sources.Outcome) {
	stage := sources.StageParse
	defer func() {
		r := recover()
		if r != nil {
			outcome = sources.Failed(s.Name(), stage, fmt.Errorf("panic: %v", r))
		}
	}()

	partial, err := s.Parse(ctx, raw)
	if err != nil {
		var perr *sources.ParseError
		if !errors.As(err, &perr) {
			err = &sources.ParseError{Strategy: s.Name(), Err: err}
		}
		return sources.Failed(s.Name(), sources.StageParse, err)
	}

	stage = sources.StageValidate
	err = prayer.Validate(partial)
	if err != nil {
		observer, ok := s.(sources.ValidationObserver)
		if ok {
			observer.OnValidationFailure(ctx, raw, err)
		}
		outcome = sources.Failed(s.Name(), sources.StageValidate, err)
		outcome.Partial = partial
		return outcome
	}

	return sources.Success(partial)
}

func asFetchError(ctx context.Context, strategy string, err error) error {
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)

	var ferr *sources.FetchError
	if errors.As(err, &ferr) {
		if timedOut && !ferr.Timeout {
			copied := *ferr
			copied.Timeout = true
			return &copied
		}
		return err
	}
	return &sources.FetchError{Strategy: strategy, Timeout: timedOut, Err: err}
}
