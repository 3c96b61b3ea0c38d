package telemetry

import (
	"sync"
	"time"
)

// CardinalityLimiter bounds how many distinct values a string property
// may take per event. Values beyond the limit collapse to "other", so a
// misbehaving caller cannot mint unbounded backend dimensions.
type CardinalityLimiter struct {
	limits map[string]int
	seen   sync.Map // map[event.property]*sync.Map of value -> last seen time

	stopChan chan struct{}
	stopped  sync.Once
}

// NewCardinalityLimiter creates a limiter with per-property limits.
func NewCardinalityLimiter(limits map[string]int) *CardinalityLimiter {
	c := &CardinalityLimiter{
		limits:   limits,
		stopChan: make(chan struct{}),
	}
	// Periodic cleanup so forgotten values do not pin memory.
	go c.cleanupLoop()
	return c
}

// CheckAndLimit returns the value to emit for an event property: the
// value itself while under the limit, "other" once over it.
func (c *CardinalityLimiter) CheckAndLimit(event, property, value string) string {
	limit, hasLimit := c.limits[property]
	if !hasLimit {
		return value
	}

	key := event + "." + property
	valMapI, _ := c.seen.LoadOrStore(key, &sync.Map{})
	valMap := valMapI.(*sync.Map)

	count := 0
	valMap.Range(func(k, v interface{}) bool {
		count++
		return count < limit
	})

	if count >= limit {
		if _, exists := valMap.Load(value); !exists {
			return "other"
		}
	}

	valMap.Store(value, time.Now())
	return value
}

// CurrentCardinality returns the total distinct values tracked.
func (c *CardinalityLimiter) CurrentCardinality() int {
	total := 0
	c.seen.Range(func(key, valMapI interface{}) bool {
		valMapI.(*sync.Map).Range(func(k, v interface{}) bool {
			total++
			return true
		})
		return true
	})
	return total
}

// MaxCardinality returns the sum of all configured limits.
func (c *CardinalityLimiter) MaxCardinality() int {
	total := 0
	for _, limit := range c.limits {
		total += limit
	}
	return total
}

func (c *CardinalityLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopChan:
			return
		}
	}
}

// cleanup drops values not seen for 10 minutes.
func (c *CardinalityLimiter) cleanup() {
	cutoff := time.Now().Add(-10 * time.Minute)
	c.seen.Range(func(key, valMapI interface{}) bool {
		valMap := valMapI.(*sync.Map)
		valMap.Range(func(val, lastSeen interface{}) bool {
			if lastSeen.(time.Time).Before(cutoff) {
				valMap.Delete(val)
			}
			return true
		})
		return true
	})
}

// Stop stops the cleanup goroutine.
func (c *CardinalityLimiter) Stop() {
	c.stopped.Do(func() {
		close(c.stopChan)
	})
}
