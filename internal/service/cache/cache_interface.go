// Package cache defines the result cache contract shared by the planning service and its tests.
package cache

import "github.com/guttosm/loadplan-service/internal/domain/model"

// Cache stores planning results under a request fingerprint.
type Cache interface {
	Get(key string) (model.PlanResult, bool)
	Set(key string, value model.PlanResult)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// HitRatio returns hits / (hits + misses), or 0 before the first lookup.
func (m Metrics) HitRatio() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
