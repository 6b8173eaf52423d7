package domain

// HealthSnapshot is the telemetry document a collector publishes to its
// monitor over the health PUB socket (§3, §4.6). It is recomputed on every
// supervisor inner tick but only published when floor(Timestamp) changes
// between recomputations.
type HealthSnapshot struct {
	Timestamp     float64             `json:"timestamp"`
	Server        ServerHealth        `json:"server"`
	DataCollector ProcessPoolHealth   `json:"data_collector"`
	DataValidator ProcessPoolHealth   `json:"data_validator"`
	DataPusher    ProcessPoolHealth   `json:"data_pusher"`
}

// ServerHealth carries process-wide telemetry.
type ServerHealth struct {
	UptimeSeconds float64 `json:"uptime"`
}

// ProcessPoolHealth carries per-pool telemetry. QueueSize is 0 (and
// meaningless) for data_collector, which has no inbound queue.
type ProcessPoolHealth struct {
	NumProcesses int `json:"num_processes"`
	ActionCount  int `json:"action_count"`
	QueueSize    int `json:"queue_size,omitempty"`
}
