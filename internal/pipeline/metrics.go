package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// evaluationsTotal counts profile evaluations by outcome
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transfermatch_evaluations_total",
		Help: "Profile evaluations by outcome",
	}, []string{"outcome"})

	// evaluationDuration tracks how long one evaluation takes, loading excluded
	evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transfermatch_evaluation_duration_seconds",
		Help:    "Evaluation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	// groupVerdicts counts group verdicts by result
	groupVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transfermatch_group_verdicts_total",
		Help: "Requirement group verdicts by result",
	}, []string{"result"})

	// agreementLoads counts agreement loads by where the document came from
	agreementLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transfermatch_agreement_loads_total",
		Help: "Agreement loads by source",
	}, []string{"source"})

	// fetchAttemptsTotal counts HTTP fetch attempts by result
	fetchAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transfermatch_fetch_attempts_total",
		Help: "Agreement fetch attempts by result",
	}, []string{"result"})

	// parseIssues counts parse errors found in loaded agreements
	parseIssues = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transfermatch_parse_issues_total",
		Help: "Unparseable parts found in loaded agreements",
	})
)
