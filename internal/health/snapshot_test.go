package health

import (
	"testing"

	"github.com/declanomara/tidepool/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := domain.HealthSnapshot{
		Timestamp: 1700000000.5,
		Server:    domain.ServerHealth{UptimeSeconds: 12.25},
		DataCollector: domain.ProcessPoolHealth{
			NumProcesses: 2,
			ActionCount:  42,
		},
		DataValidator: domain.ProcessPoolHealth{
			NumProcesses: 3,
			ActionCount:  40,
			QueueSize:    5,
		},
		DataPusher: domain.ProcessPoolHealth{
			NumProcesses: 1,
			ActionCount:  38,
			QueueSize:    2,
		},
	}

	encoded := Encode(s)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}
