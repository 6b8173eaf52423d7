// Package health implements the HealthSnapshot wire codec (§3) and the
// bounded HealthCollection a monitor keeps per collector (§4.6).
package health

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/pkg/jsonfast"
)

// snapshotBuilderCapacity is sized generously for the fixed HealthSnapshot
// schema; jsonfast.Builder grows if exceeded, so this is a hint, not a cap.
const snapshotBuilderCapacity = 256

// Encode serializes a HealthSnapshot using the fast low-allocation builder
// rather than encoding/json, since this runs on every 100 ms inner tick of
// every collector.
func Encode(s domain.HealthSnapshot) []byte {
	b := jsonfast.New(snapshotBuilderCapacity)
	b.BeginObject()
	b.AddRawJSONField("timestamp", formatFloat(s.Timestamp))
	b.AddRawJSONField("server", encodeServer(s.Server))
	b.AddRawJSONField("data_collector", encodePool(s.DataCollector, false))
	b.AddRawJSONField("data_validator", encodePool(s.DataValidator, true))
	b.AddRawJSONField("data_pusher", encodePool(s.DataPusher, true))
	b.EndObject()
	return b.Bytes()
}

func encodeServer(s domain.ServerHealth) []byte {
	b := jsonfast.New(64)
	b.BeginObject()
	b.AddRawJSONField("uptime", formatFloat(s.UptimeSeconds))
	b.EndObject()
	return b.Bytes()
}

func encodePool(p domain.ProcessPoolHealth, withQueue bool) []byte {
	b := jsonfast.New(96)
	b.BeginObject()
	b.AddIntField("num_processes", p.NumProcesses)
	b.AddIntField("action_count", p.ActionCount)
	if withQueue {
		b.AddIntField("queue_size", p.QueueSize)
	}
	b.EndObject()
	return b.Bytes()
}

func formatFloat(f float64) []byte {
	return strconv.AppendFloat(nil, f, 'f', -1, 64)
}

// Decode parses a HealthSnapshot using the standard library, since SUB-side
// decoding happens once per message on Salus rather than on a hot path.
func Decode(data []byte) (domain.HealthSnapshot, error) {
	var s domain.HealthSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.HealthSnapshot{}, fmt.Errorf("health: decode snapshot: %w", err)
	}
	return s, nil
}
