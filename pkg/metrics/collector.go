package metrics

import (
	"time"

	"github.com/barrygolden/juliabox/pkg/manager"
)

// Collector periodically samples the liveness registry and publishes
// the number of tracked sessions as a gauge, independent of whatever
// the maintenance sweep itself observes in a given cycle.
type Collector struct {
	mgr    *manager.Manager
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector against mgr.
func NewCollector(mgr *manager.Manager) *Collector {
	return &Collector{
		mgr:    mgr,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	SessionsActive.Set(float64(c.mgr.Liveness().Count()))
}
