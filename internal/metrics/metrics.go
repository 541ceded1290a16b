// ABOUTME: Prometheus collectors for storage and workflow activity.
// ABOUTME: Collectors are registered on the default registry at init.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StorageOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitlife", Name: "storage_operations_total", Help: "Storage writes by operation and outcome",
	}, []string{"op", "outcome"})

	SkippedExercises = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitlife", Name: "skipped_exercise_inserts_total", Help: "Exercise inserts skipped inside a committed workout",
	})

	Completions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitlife", Name: "workouts_completed_total", Help: "Workouts marked completed",
	})

	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitlife", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(StorageOps, SkippedExercises, Completions, DBPing)
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// ObserveOp counts one storage operation.
func ObserveOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StorageOps.WithLabelValues(op, outcome).Inc()
}

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// Serve exposes /metrics on addr until the server fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}
