package healthcheck_test

import (
	"testing"
	"time"

	"network_manager/internal/domain/entity"
	"network_manager/internal/infrastructure/network/healthcheck"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestObserveProbeRecordsStatus(t *testing.T) {
	t.Parallel()

	tracker := healthcheck.NewTracker(time.Minute, time.Second, zap.NewNop())

	tracker.ObserveProbe("mainnet.infura.io", entity.StatusAvailable)
	tracker.ObserveProbe("https://rpc.example.com/eth", entity.StatusUnavailable)

	records := tracker.Snapshot()
	require.Len(t, records, 2)
	assert.Equal(t, "https://rpc.example.com/eth", records[0].Endpoint)
	assert.Equal(t, string(entity.StatusUnavailable), records[0].Status)
	assert.Equal(t, "mainnet.infura.io", records[1].Endpoint)
	assert.Equal(t, string(entity.StatusAvailable), records[1].Status)
}

func TestObserveProbeKeysCaseInsensitively(t *testing.T) {
	t.Parallel()

	tracker := healthcheck.NewTracker(time.Minute, time.Second, zap.NewNop())

	tracker.ObserveProbe("https://RPC.example.com/eth", entity.StatusUnavailable)
	tracker.ObserveProbe("https://rpc.example.com/eth", entity.StatusAvailable)

	records := tracker.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, string(entity.StatusAvailable), records[0].Status)
}

func TestObserveProbeIgnoresEmptyEndpoint(t *testing.T) {
	t.Parallel()

	tracker := healthcheck.NewTracker(time.Minute, time.Second, zap.NewNop())
	tracker.ObserveProbe("", entity.StatusAvailable)
	assert.Empty(t, tracker.Snapshot())
}

func TestRecordsExpire(t *testing.T) {
	t.Parallel()

	tracker := healthcheck.NewTracker(30*time.Millisecond, time.Second, zap.NewNop())
	tracker.ObserveProbe("mainnet.infura.io", entity.StatusAvailable)

	require.Len(t, tracker.Snapshot(), 1)
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, tracker.Snapshot())
}

func TestPingUnreachableEndpoint(t *testing.T) {
	t.Parallel()

	tracker := healthcheck.NewTracker(time.Minute, 200*time.Millisecond, zap.NewNop())

	rec := tracker.Ping("http://127.0.0.1:1/")
	assert.Equal(t, "unreachable", rec.Status)
	assert.NotEmpty(t, rec.Error)

	records := tracker.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "unreachable", records[0].Status)
}
