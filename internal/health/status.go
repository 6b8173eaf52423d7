package health

import (
	"time"

	"github.com/declanomara/tidepool/internal/domain"
)

// Severity orders collector health from best to worst, matching the
// (code, message) pairs §4.6 defines.
type Severity int

const (
	SeverityOK       Severity = 0
	SeverityDegraded Severity = 1
	SeverityError    Severity = 2
	SeverityUnknown  Severity = 3
)

// staleAfter is how long without a snapshot before a collector is
// considered errored due to staleness.
const staleAfter = 5 * time.Second

const (
	pusherDegradedQueueSize    = 1000
	pusherErrorQueueSize       = 10000
	validatorDegradedQueueSize = 1000
	validatorErrorQueueSize    = 10000
	lowThroughputVelocity      = 5
	lowThroughputWindow        = 60 * time.Second
)

func actionCountKey(s domain.HealthSnapshot) float64 {
	return float64(s.DataCollector.ActionCount)
}

// Status evaluates a collector's current health from its HealthCollection,
// returning the first (highest-severity-relevant) condition that applies,
// checked in the order §4.6 lists them.
func Status(c *HealthCollection) (Severity, string) {
	since, ok := c.TimeSinceLast()
	if !ok {
		return SeverityUnknown, "Unknown"
	}
	if since > staleAfter {
		return SeverityError, "Error: no snapshot received recently"
	}

	latest, ok := c.Latest()
	if !ok {
		return SeverityUnknown, "Unknown"
	}

	if latest.DataPusher.QueueSize > pusherErrorQueueSize {
		return SeverityError, "Error: Data pusher queue size is too large"
	}
	if latest.DataPusher.QueueSize > pusherDegradedQueueSize {
		return SeverityDegraded, "Degraded: Data pusher queue size is too large"
	}
	if latest.DataValidator.QueueSize > validatorErrorQueueSize {
		return SeverityError, "Error: Data validator queue size is too large"
	}
	if latest.DataValidator.QueueSize > validatorDegradedQueueSize {
		return SeverityDegraded, "Degraded: Data validator queue size is too large"
	}

	if v, ok := c.VelocityPast(actionCountKey, lowThroughputWindow); ok && v < lowThroughputVelocity {
		return SeverityDegraded, "Degraded: low throughput"
	}

	return SeverityOK, "OK"
}
