// Package monitoring watches process health for long-running binaries.
package monitoring

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Counter reports how many goroutines a component currently owns
type Counter func() int

// GoroutineMonitor tracks goroutine metrics
type GoroutineMonitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	components     map[string]Counter
	logger         zerolog.Logger
	numGoroutine   func() int
	now            func() time.Time
}

// Option configures a GoroutineMonitor
type Option func(*GoroutineMonitor)

// WithCheckInterval sets how often goroutines are counted
func WithCheckInterval(d time.Duration) Option {
	return func(gm *GoroutineMonitor) { gm.checkInterval = d }
}

// WithAlertThreshold sets the count above which a warning is logged
func WithAlertThreshold(n int) Option {
	return func(gm *GoroutineMonitor) { gm.alertThreshold = n }
}

// NewGoroutineMonitor creates a new goroutine monitor
func NewGoroutineMonitor(logger zerolog.Logger, opts ...Option) *GoroutineMonitor {
	gm := &GoroutineMonitor{
		checkInterval:  30 * time.Second,
		alertThreshold: 1000,
		alertCooldown:  5 * time.Minute,
		components:     make(map[string]Counter),
		logger:         logger.With().Str("component", "GoroutineMonitor").Logger(),
		numGoroutine:   runtime.NumGoroutine,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(gm)
	}
	gm.baseline = gm.numGoroutine()
	gm.current = gm.baseline
	gm.peak = gm.baseline
	return gm
}

// Track registers a component whose goroutine count is reported with
// every check
func (gm *GoroutineMonitor) Track(name string, counter Counter) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.components[name] = counter
}

// Run checks goroutines every interval until ctx is cancelled
func (gm *GoroutineMonitor) Run(ctx context.Context) error {
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Dur("interval", gm.checkInterval).
		Msg("Started goroutine monitoring")

	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gm.Check()
		}
	}
}

// Check samples the goroutine count, logs it, and warns on a likely leak
func (gm *GoroutineMonitor) Check() GoroutineMetrics {
	current := gm.numGoroutine()
	now := gm.now()

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	shouldAlert := current > gm.alertThreshold &&
		now.Sub(gm.lastAlert) > gm.alertCooldown
	if shouldAlert {
		gm.lastAlert = now
	}
	gm.mu.Unlock()

	metrics := gm.GetMetrics()

	event := gm.logger.Debug().
		Int("current", metrics.Current).
		Int("baseline", metrics.Baseline).
		Int("peak", metrics.Peak).
		Float64("growth_rate", metrics.GrowthRate())
	for _, name := range sortedKeys(metrics.ComponentCounts) {
		event = event.Int(name, metrics.ComponentCounts[name])
	}
	event.Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Float64("growth_rate", metrics.GrowthRate()).
			Msg("High goroutine count detected - possible leak")
	}
	return metrics
}

// GetMetrics returns current goroutine metrics
func (gm *GoroutineMonitor) GetMetrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	counts := make(map[string]int, len(gm.components))
	for name, counter := range gm.components {
		counts[name] = counter()
	}
	return GoroutineMetrics{
		Current:         gm.current,
		Baseline:        gm.baseline,
		Peak:            gm.peak,
		Growth:          gm.current - gm.baseline,
		ComponentCounts: counts,
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current         int            `json:"current"`
	Baseline        int            `json:"baseline"`
	Peak            int            `json:"peak"`
	Growth          int            `json:"growth"`
	ComponentCounts map[string]int `json:"component_counts"`
}

// GrowthRate is the growth over baseline as a percentage
func (m GoroutineMetrics) GrowthRate() float64 {
	if m.Baseline == 0 {
		return 0
	}
	return float64(m.Growth) / float64(m.Baseline) * 100
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
