package client

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingSender serves eth_blockNumber from an atomic counter, one increment
// per call.
type countingSender struct {
	head atomic.Uint64
}

func (s *countingSender) CallContext(_ context.Context, result interface{}, method string, _ ...interface{}) error {
	if method != "eth_blockNumber" {
		return nil
	}
	*(result.(*hexutil.Uint64)) = hexutil.Uint64(s.head.Add(1))
	return nil
}

func TestHeadPollerNotifiesSubscribersOnNewHeads(t *testing.T) {
	t.Parallel()

	poller := NewHeadPoller(&countingSender{}, 5*time.Millisecond, zap.NewNop())

	heads := make(chan uint64, 16)
	unsubscribe := poller.Subscribe(func(head uint64) { heads <- head })
	defer unsubscribe()

	poller.Start(context.Background())
	defer poller.Stop()

	var first, second uint64
	select {
	case first = <-heads:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first head")
	}
	select {
	case second = <-heads:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for second head")
	}

	assert.Greater(t, second, first, "heads must be notified in increasing order")
}

func TestHeadPollerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	poller := NewHeadPoller(&countingSender{}, 5*time.Millisecond, zap.NewNop())
	poller.Start(context.Background())

	poller.Stop()
	require.NotPanics(t, poller.Stop)
}

func TestHeadPollerStopBeforeStart(t *testing.T) {
	t.Parallel()

	poller := NewHeadPoller(&countingSender{}, 5*time.Millisecond, zap.NewNop())
	require.NotPanics(t, poller.Stop)
}

func TestHeadPollerDoubleStartIsNoOp(t *testing.T) {
	t.Parallel()

	poller := NewHeadPoller(&countingSender{}, 5*time.Millisecond, zap.NewNop())
	poller.Start(context.Background())
	require.NotPanics(t, func() { poller.Start(context.Background()) })
	poller.Stop()
}

func TestHeadPollerUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	poller := NewHeadPoller(&countingSender{}, 5*time.Millisecond, zap.NewNop())

	heads := make(chan uint64, 16)
	unsubscribe := poller.Subscribe(func(head uint64) { heads <- head })

	poller.Start(context.Background())
	select {
	case <-heads:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for head")
	}

	unsubscribe()
	poller.Stop()

	// Drain anything delivered before the unsubscribe took effect, then make
	// sure nothing else arrives.
	for len(heads) > 0 {
		<-heads
	}
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, heads)
}
