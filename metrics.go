// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/linelist/resource"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// provideMetrics sets up the prometheus registry the resource metrics are
// registered with.
func provideMetrics() fx.Option {
	return fx.Options(
		touchstone.Provide(),
		fx.Provide(
			arrange.UnmarshalKey("prometheus", touchstone.Config{}),
		),
	)
}

// logMetrics writes the resource request counts to the logger at debug.
func logMetrics(logger *zap.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		logger.Warn("failed to gather metrics", zap.Error(err))
		return
	}

	for _, mf := range families {
		if mf.GetName() != resource.RequestCounter {
			continue
		}
		for _, m := range mf.GetMetric() {
			fields := make([]zap.Field, 0, len(m.GetLabel())+1)
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			fields = append(fields, zap.Float64("count", m.GetCounter().GetValue()))
			logger.Debug(resource.RequestCounter, fields...)
		}
	}
}
