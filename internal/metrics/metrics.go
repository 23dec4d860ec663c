package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the registration pipeline and sign-in activity.
type Metrics struct {
	RegistrationsStarted   prometheus.Counter
	RegistrationsCompleted *prometheus.CounterVec
	RegistrationStepFailed *prometheus.CounterVec
	ApprovalDecisions      *prometheus.CounterVec
	RecoveryEmailFailures  prometheus.Counter
	Activations            prometheus.Counter
	Logins                 *prometheus.CounterVec
	StalledRegistrations   prometheus.Gauge
	WorkflowDuration       *prometheus.HistogramVec
}

// New registers all metrics with reg. Pass prometheus.DefaultRegisterer in
// binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RegistrationsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "journals_registrations_started_total",
			Help: "Registration submissions that passed validation",
		}),
		RegistrationsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "journals_registrations_completed_total",
			Help: "Registrations that reached the linked state",
		}, []string{"resumed"}),
		RegistrationStepFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "journals_registration_step_failures_total",
			Help: "Registration failures by workflow step",
		}, []string{"step"}),
		ApprovalDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "journals_approval_decisions_total",
			Help: "Approve and reject decisions by outcome",
		}, []string{"decision"}),
		RecoveryEmailFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "journals_recovery_email_failures_total",
			Help: "Set-password emails that could not be sent",
		}),
		Activations: f.NewCounter(prometheus.CounterOpts{
			Name: "journals_activations_total",
			Help: "Accounts activated by setting a first password",
		}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "journals_logins_total",
			Help: "Sign-in attempts by result",
		}, []string{"result"}),
		StalledRegistrations: f.NewGauge(prometheus.GaugeOpts{
			Name: "journals_stalled_registrations",
			Help: "Pending registrations that never reached the linked state",
		}),
		WorkflowDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "journals_workflow_duration_seconds",
			Help:    "Duration of multi-step workflows",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"workflow"}),
	}
}

// ObserveWorkflow records a workflow's duration. Call with time.Now() at
// the start of the workflow.
func (m *Metrics) ObserveWorkflow(workflow string, start time.Time) {
	m.WorkflowDuration.WithLabelValues(workflow).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementLogin(result string) {
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementStepFailure(step string) {
	m.RegistrationStepFailed.WithLabelValues(step).Inc()
}

func (m *Metrics) IncrementDecision(decision string) {
	m.ApprovalDecisions.WithLabelValues(decision).Inc()
}
