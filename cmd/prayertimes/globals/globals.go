package globals

import (
	"context"

	"prayertimes/internal/components/telemetry"
	"prayertimes/internal/config"
)

const key = "prayertimes.ctx"

// Value is filled in by the root command before any subcommand runs.
type Value struct {
	Config    config.Config
	Tel       telemetry.API
	RunID     string
	Telemetry telemetry.Telemetry
	// Ready is false when the root command never got to load the config.
	Ready bool
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
