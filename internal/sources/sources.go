// Package sources holds the strategies that each know how to obtain a
// partial prayer schedule from one kind of remote source.
package sources

import (
	"context"
	"fmt"

	"prayertimes/internal/prayer"
)

// Strategy is one self-contained way of obtaining prayer times. Fetch is
// the only method allowed to block on the network, Parse must be pure
// apart from tracing.
type Strategy interface {
	// Name identifies the strategy in configuration and in the final record.
	Name() string
	// URL is the address the strategy reads from, it is informational.
	URL() string
	Fetch(ctx context.Context) (string, error)
	// Parse never fails because a label is missing, absence is left for
	// prayer.Validate to judge.
	Parse(ctx context.Context, raw string) (prayer.PartialSchedule, error)
}

// ValidationObserver is implemented by strategies that want to look at the
// raw payload when their parse result failed validation.
type ValidationObserver interface {
	OnValidationFailure(ctx context.Context, raw string, err error)
}

type Stage string

const (
	StageFetch    Stage = "fetch"
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
)

// Failure is one strategy attempt that did not produce a valid schedule.
type Failure struct {
	Strategy string
	Stage    Stage
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s: %s", f.Strategy, f.Stage, f.Err.Error())
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Outcome is the tagged result of one attempt. Failure is nil on success,
// Partial is only kept on failure when the validate stage rejected it.
type Outcome struct {
	Partial prayer.PartialSchedule
	Failure *Failure
}

func Success(p prayer.PartialSchedule) Outcome {
	return Outcome{Partial: p}
}

func Failed(strategy string, stage Stage, err error) Outcome {
	return Outcome{Failure: &Failure{Strategy: strategy, Stage: stage, Err: err}}
}

func (o Outcome) Ok() bool {
	return o.Failure == nil
}

// FetchError is a transport failure, a non-2xx status or a timeout.
type FetchError struct {
	Strategy string
	// Status is the http status code, zero when no response was received.
	Status  int
	Timeout bool
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: fetch timed out: %s", e.Strategy, e.Err.Error())
	case e.Status != 0:
		return fmt.Sprintf("%s: fetch: unexpected status %d", e.Strategy, e.Status)
	}
	return fmt.Sprintf("%s: fetch: %s", e.Strategy, e.Err.Error())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError means the payload could not be read at all, as opposed to a
// payload that was read but did not contain every required time.
type ParseError struct {
	Strategy string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse: %s", e.Strategy, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
