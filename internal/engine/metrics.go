package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/aptiz/internal/progress"
	"github.com/abhisek/aptiz/internal/session"
)

type metrics struct {
	sessionsStarted   *prometheus.CounterVec
	sessionsFinished  *prometheus.CounterVec
	answers           *prometheus.CounterVec
	persistFailures   prometheus.Counter
	sessionDuration   *prometheus.HistogramVec
	perturbedQuestion prometheus.Counter
}

// newMetrics registers the engine collectors on reg. A nil reg keeps the
// collectors unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		sessionsStarted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aptiz_sessions_started_total",
				Help: "Total number of sessions created",
			},
			[]string{"mode"},
		),
		sessionsFinished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aptiz_sessions_finished_total",
				Help: "Total number of sessions archived",
			},
			[]string{"mode", "passed"},
		),
		answers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aptiz_answers_total",
				Help: "Total number of scored answers",
			},
			[]string{"mode", "result"},
		),
		persistFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "aptiz_progress_write_failures_total",
				Help: "Total number of session records that could not be stored",
			},
		),
		sessionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aptiz_session_duration_seconds",
				Help:    "Wall-clock length of finished sessions",
				Buckets: []float64{30, 60, 120, 300, 480, 720, 900, 1200, 1800},
			},
			[]string{"mode"},
		),
		perturbedQuestion: f.NewCounter(
			prometheus.CounterOpts{
				Name: "aptiz_perturbed_questions_total",
				Help: "Total number of drawn questions with scaled numbers",
			},
		),
	}
}

func (m *metrics) started(mode session.Mode) {
	m.sessionsStarted.WithLabelValues(string(mode)).Inc()
}

func (m *metrics) finished(rec progress.SessionRecord) {
	passed := "false"
	if rec.Passed {
		passed = "true"
	}
	m.sessionsFinished.WithLabelValues(rec.Mode, passed).Inc()
	m.sessionDuration.WithLabelValues(rec.Mode).Observe(rec.EndedAt.Sub(rec.StartedAt).Seconds())
	m.answers.WithLabelValues(rec.Mode, "correct").Add(float64(rec.Correct))
	m.answers.WithLabelValues(rec.Mode, "wrong").Add(float64(rec.Wrong))
}

func (m *metrics) observeDraw(perturbed int) {
	m.perturbedQuestion.Add(float64(perturbed))
}

