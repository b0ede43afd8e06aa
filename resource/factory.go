// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/bascule/acquire"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/sallust"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// tracerName names the tracer resource spans are started with.
const tracerName = "github.com/xmidt-org/linelist/resource"

// Config contains the data shared by every resource built by a Factory.
type Config struct {
	// Address is prepended to resource URLs that don't carry their own scheme
	// and host (i.e. https://example-linelist.io:8443).
	// (Optional). Without it, resource URLs must be absolute.
	Address string `validate:"omitempty,url"`

	// Timeout bounds each request when the default HTTP client is used.
	// (Optional). Zero means no timeout.
	Timeout time.Duration `validate:"gte=0"`

	// HTTPClient refers to the client that will be used to send requests.
	// (Optional) Defaults to a pooled go-cleanhttp client.
	HTTPClient *http.Client `validate:"-"`

	// Auth provides the mechanism to add auth headers to outgoing requests.
	// (Optional) If not provided, no auth headers are added.
	Auth Auth `validate:"-"`

	// KeepTrailingSlashes stops the trailing slashes of expanded URLs from
	// being removed.
	KeepTrailingSlashes bool

	// Logger to be used by the resources.
	// (Optional). By default a no op logger will be used.
	Logger *zap.Logger `validate:"-"`

	// Tracing starts a client span for each request and injects its context
	// into the request headers.
	// (Optional). By default spans are not recorded and W3C trace context
	// from the caller's context is still propagated.
	Tracing candlelight.Tracing `validate:"-" mapstructure:"-"`
}

// Auth contains authorization data for resource requests.
type Auth struct {
	JWT   acquire.RemoteBearerTokenAcquirerOptions
	Basic string
}

// Constructor builds a resource bound to url. defaults are applied to every
// call and actions are merged over the default action set.
type Constructor func(url string, defaults Params, actions Actions) (*Resource, error)

// Factory holds the transport pieces every Resource shares.
type Factory struct {
	client              *http.Client
	auth                acquire.Acquirer
	address             string
	keepTrailingSlashes bool
	measures            *Measures
	logger              *zap.Logger
	getLogger           func(context.Context) *zap.Logger
	tracer              trace.Tracer
	propagator          propagation.TextMapPropagator
}

var validate = validator.New()

// NewFactory creates a Factory. getLogger pulls a request scoped logger out of
// the call context and defaults to sallust.Get.
func NewFactory(config Config, measures *Measures, getLogger func(context.Context) *zap.Logger) (*Factory, error) {
	err := validateConfig(&config)
	if err != nil {
		return nil, err
	}
	if measures == nil {
		return nil, ErrNilMeasures
	}
	if getLogger == nil {
		getLogger = sallust.Get
	}

	tokenAcquirer, err := buildTokenAcquirer(config.Auth)
	if err != nil {
		return nil, err
	}

	tracerProvider := config.Tracing.TracerProvider()
	if tracerProvider == nil {
		tracerProvider = noop.NewTracerProvider()
	}
	propagator := config.Tracing.Propagator()
	if propagator == nil {
		propagator = propagation.TraceContext{}
	}

	return &Factory{
		tracer:              tracerProvider.Tracer(tracerName),
		propagator:          propagator,
		client:              config.HTTPClient,
		auth:                tokenAcquirer,
		address:             config.Address,
		keepTrailingSlashes: config.KeepTrailingSlashes,
		measures:            measures,
		logger:              config.Logger,
		getLogger:           getLogger,
	}, nil
}

// New builds a Resource. It has the Constructor signature.
func (f *Factory) New(url string, defaults Params, actions Actions) (*Resource, error) {
	rt, err := parseRoute(url, f.address, f.keepTrailingSlashes)
	if err != nil {
		return nil, err
	}

	bound := make(map[string]boundAction, len(defaultActions)+len(actions))
	for name, a := range defaultActions {
		bound[name] = boundAction{Action: a, route: rt}
	}
	for name, a := range actions {
		if len(a.Method) < 1 {
			return nil, fmt.Errorf(errWrappedFmt, ErrActionMethodEmpty, name)
		}
		b := boundAction{Action: a, route: rt}
		if len(a.URL) > 0 {
			b.route, err = parseRoute(a.URL, f.address, f.keepTrailingSlashes)
			if err != nil {
				return nil, err
			}
		}
		bound[name] = b
	}

	return &Resource{
		factory:  f,
		route:    rt,
		defaults: defaults.clone(),
		actions:  bound,
	}, nil
}

type factoryIn struct {
	fx.In
	Config   *Config
	Measures Measures
	Logger   *zap.Logger
	Tracing  candlelight.Tracing `optional:"true"`
}

// Provide unmarshals the factory config from the given key and makes a *Factory
// and its Constructor available to the container.
func Provide(configKey string) fx.Option {
	return fx.Options(
		ProvideMetrics(),
		fx.Provide(
			arrange.UnmarshalKey(configKey, &Config{}),
			func(in factoryIn) (*Factory, error) {
				var c Config
				if in.Config != nil {
					c = *in.Config
				}
				if c.Logger == nil {
					c.Logger = in.Logger
				}
				c.Tracing = in.Tracing
				return NewFactory(c, &in.Measures, nil)
			},
			func(f *Factory) Constructor {
				return f.New
			},
		),
	)
}

func isEmpty(options acquire.RemoteBearerTokenAcquirerOptions) bool {
	return len(options.AuthURL) < 1 || options.Buffer == 0 || options.Timeout == 0
}

func buildTokenAcquirer(auth Auth) (acquire.Acquirer, error) {
	if !isEmpty(auth.JWT) {
		return acquire.NewRemoteBearerTokenAcquirer(auth.JWT)
	} else if len(auth.Basic) > 0 {
		return acquire.NewFixedAuthAcquirer(auth.Basic)
	}
	return &acquire.DefaultAcquirer{}, nil
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf(errWrappedFmt, ErrInvalidConfig, err.Error())
	}

	if config.HTTPClient == nil {
		config.HTTPClient = cleanhttp.DefaultPooledClient()
		config.HTTPClient.Timeout = config.Timeout
	}

	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
	return nil
}
