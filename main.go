// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/linelist/metadatatemplate"
	"github.com/xmidt-org/linelist/model"
	"github.com/xmidt-org/linelist/resource"
	"github.com/xmidt-org/sallust"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	applicationName = "linelist"

	resourceConfigKey  = "resource"
	defaultSaveTimeout = 30 * time.Second
)

var (
	GitCommit = "undefined"
	Version   = "undefined"
	BuildTime = "undefined"
)

type saveIn struct {
	fx.In
	Templates *resource.Resource `name:"metadata_templates"`
	Gatherer  prometheus.Gatherer
}

// newApp wires the templates resource from v. The returned saveIn is filled
// in once the app is built without error.
func newApp(v *viper.Viper, logger *zap.Logger) (*fx.App, *saveIn) {
	in := new(saveIn)
	app := fx.New(
		arrange.LoggerFunc(logger.Sugar().Infof),
		arrange.ForViper(v),
		fx.Supply(logger, v),
		provideMetrics(),
		provideTracing(),
		resource.Provide(resourceConfigKey),
		metadatatemplate.Provide(),
		fx.Invoke(func(i saveIn) {
			*in = i
		}),
	)
	return app, in
}

// provideTracing builds the tracer used for outgoing requests from the
// tracing configuration.
func provideTracing() fx.Option {
	return fx.Provide(
		arrange.UnmarshalKey("tracing", candlelight.Config{}),
		func(config candlelight.Config) (candlelight.Tracing, error) {
			config.ApplicationName = applicationName
			return candlelight.New(config)
		},
	)
}

// save posts t and logs what the server answered.
func save(ctx context.Context, logger *zap.Logger, in *saveIn, t model.MetadataTemplate) error {
	ctx = sallust.With(ctx, logger)
	resp, err := in.Templates.Save(ctx, t)
	if err != nil {
		return err
	}

	logger.Info("saved metadata template",
		zap.String("url", in.Templates.URL()),
		zap.Int("code", resp.Code),
		zap.ByteString("body", resp.Body),
	)
	logMetrics(logger, in.Gatherer)
	return nil
}

func main() {
	v, logger, o, err := setup(os.Args[1:])
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	case o.version:
		printVersionInfo(os.Stdout)
		return
	}

	t, err := loadTemplate(o.template)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, in := newApp(v, logger)
	if err = app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSaveTimeout)
	defer cancel()
	if err = save(ctx, logger, in, t); err != nil {
		logger.Error("failed to save metadata template", zap.Error(err))
		cancel()
		os.Exit(3)
	}
}
