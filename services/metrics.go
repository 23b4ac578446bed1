package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// viewsRecorded counts RecordView calls.
	// Labels:
	//   - outcome: "inserted", "refreshed", "error"
	viewsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_book_views_recorded_total",
			Help: "Total number of book views recorded",
		},
		[]string{"outcome"},
	)

	viewsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookstore_book_views_evicted_total",
			Help: "Total number of views removed to keep histories capped",
		},
	)

	// promotionEmails counts promotion e-mails per category.
	// Labels:
	//   - category: category name
	//   - outcome: "sent", "failed"
	promotionEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_promotion_emails_total",
			Help: "Total number of promotion e-mails attempted",
		},
		[]string{"category", "outcome"},
	)

	promotionCategoriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookstore_promotion_categories_skipped_total",
			Help: "Promotion categories skipped because no e-mail template is mapped",
		},
	)

	// jobRuns counts scheduled job executions.
	// Labels:
	//   - job: job name
	//   - outcome: "success", "failure"
	jobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "outcome"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookstore_job_duration_seconds",
			Help:    "Duration of scheduled job runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"job"},
	)
)
