package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// PostsWritten counts post mutations by action (create, update, delete).
	PostsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_posts_written_total",
		Help: "Total number of post mutations by action",
	}, []string{"action"})

	// CommentsCreated counts accepted comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_comments_created_total",
		Help: "Total number of comments created",
	})

	// FollowTransitions counts subscription state changes by action (follow, unfollow).
	FollowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_follow_transitions_total",
		Help: "Total number of follow and unfollow requests",
	}, []string{"action"})

	// PageCacheLookups counts page cache lookups by result (hit, miss, error).
	PageCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_page_cache_lookups_total",
		Help: "Page cache lookups by result",
	}, []string{"result"})

	// PageCacheClears counts full page cache invalidations.
	PageCacheClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_page_cache_clears_total",
		Help: "Total number of page cache invalidations",
	})

	// DatabaseQueryLatency records database statement latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

const queryStartKey = "observability:query_start"

// RegisterDatabaseMetrics installs GORM callbacks that observe statement latency.
func RegisterDatabaseMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	steps := []struct {
		operation string
		before    func(string) error
		after     func(string) error
	}{
		{"query",
			func(name string) error { return cb.Query().Before("gorm:query").Register(name, before) },
			func(name string) error { return cb.Query().After("gorm:query").Register(name, after("query")) }},
		{"create",
			func(name string) error { return cb.Create().Before("gorm:create").Register(name, before) },
			func(name string) error { return cb.Create().After("gorm:create").Register(name, after("create")) }},
		{"update",
			func(name string) error { return cb.Update().Before("gorm:update").Register(name, before) },
			func(name string) error { return cb.Update().After("gorm:update").Register(name, after("update")) }},
		{"delete",
			func(name string) error { return cb.Delete().Before("gorm:delete").Register(name, before) },
			func(name string) error { return cb.Delete().After("gorm:delete").Register(name, after("delete")) }},
	}

	for _, s := range steps {
		if err := s.before("observability:before_" + s.operation); err != nil {
			return err
		}
		if err := s.after("observability:after_" + s.operation); err != nil {
			return err
		}
	}
	return nil
}
