// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	RequestCounter = "resource_requests_total"
)

// Labels
const (
	ActionLabel  = "action"
	MethodLabel  = "method"
	OutcomeLabel = "outcome"
)

// Label Values
const (
	SuccessOutcome = "success"
	FailureOutcome = "failure"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: RequestCounter,
				Help: "Counter for the number of resource requests sent, by action, method and outcome.",
			},
			ActionLabel,
			MethodLabel,
			OutcomeLabel,
		),
	)
}

type Measures struct {
	fx.In
	Requests *prometheus.CounterVec `name:"resource_requests_total"`
}
