package analytics

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// StatsSource is anything that can report its counters.
type StatsSource interface {
	GetStats() map[string]interface{}
}

// Reporter periodically logs processor counters, which is where lost visits
// become visible.
type Reporter struct {
	scheduler *gocron.Scheduler
	log       *zap.Logger
}

// NewReporter schedules a stats log line every interval.
func NewReporter(source StatsSource, interval time.Duration, log *zap.Logger) (*Reporter, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid report interval %s", interval)
	}

	log = log.With(zap.String("component", "visit_stats_reporter"))
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(interval).Do(func() {
		stats := source.GetStats()
		fields := make([]zap.Field, 0, len(stats))
		for k, v := range stats {
			fields = append(fields, zap.Any(k, v))
		}
		log.Info("visit processor stats", fields...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule stats report: %w", err)
	}

	return &Reporter{scheduler: scheduler, log: log}, nil
}

// Start runs the schedule in the background.
func (r *Reporter) Start() {
	r.scheduler.StartAsync()
	r.log.Debug("stats reporter started")
}

// Stop halts the schedule.
func (r *Reporter) Stop() {
	r.scheduler.Stop()
	r.log.Debug("stats reporter stopped")
}
