package app

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uber-go/tally"
	"github.com/uber/arena-editor/src/editor/gateway"
	"github.com/uber/arena-editor/src/editor/handler"
	"github.com/uber/arena-editor/src/editor/internal/clock"
	"github.com/uber/arena-editor/src/editor/internal/core"
	"github.com/uber/arena-editor/src/editor/internal/filetype"
	"github.com/uber/arena-editor/src/editor/internal/fs"
	"github.com/uber/arena-editor/src/editor/internal/httpfx"
	"github.com/uber/arena-editor/src/editor/internal/jsonrpcfx"
	"github.com/uber/arena-editor/src/editor/internal/serverinfofile"
	"go.uber.org/config"
	"go.uber.org/fx"
)

const (
	_serviceName      = "arena-editor"
	_metricsConfigKey = "metrics"

	_defaultReportInterval = time.Second
)

// Module defines the arena-editor application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	httpfx.Module,
	fs.Module,
	clock.Module,
	filetype.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(newRootScope),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)

// MetricsConfig is the metrics configuration section.
type MetricsConfig struct {
	Prefix         string        `yaml:"prefix"`
	ReportInterval time.Duration `yaml:"reportInterval"`
}

// Validate implements validation.Validatable.
func (c *MetricsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ReportInterval, validation.Min(time.Duration(0))),
	)
}

// newRootScope builds the root metrics scope and closes it when the application stops.
func newRootScope(lc fx.Lifecycle, cfg config.Provider) (tally.Scope, error) {
	var mc MetricsConfig
	if err := core.PopulateValidated(cfg, _metricsConfigKey, &mc); err != nil {
		return nil, fmt.Errorf("loading metrics config: %w", err)
	}
	if mc.ReportInterval == 0 {
		mc.ReportInterval = _defaultReportInterval
	}

	rs, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix: mc.Prefix,
		Tags: map[string]string{
			"service": _serviceName,
		},
	}, mc.ReportInterval)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})

	return rs, nil
}
