package handle_test

import (
	"sync"
	"testing"

	"network_manager/internal/pkg/handle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name string
}

func TestHandleGetReturnsInitialTarget(t *testing.T) {
	t.Parallel()

	first := &fakeSender{name: "first"}
	h := handle.New(first)

	assert.Same(t, first, h.Get())
}

func TestHandleIdentityStableAcrossSwaps(t *testing.T) {
	t.Parallel()

	first := &fakeSender{name: "first"}
	second := &fakeSender{name: "second"}

	h := handle.New(first)
	captured := h

	h.Swap(second)

	require.Same(t, captured, h, "swap must not change handle identity")
	assert.Same(t, second, captured.Get(), "old captures observe the new target")
}

func TestHandleConcurrentSwapAndGet(t *testing.T) {
	t.Parallel()

	h := handle.New(&fakeSender{name: "initial"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Swap(&fakeSender{name: "swapped"})
		}()
		go func() {
			defer wg.Done()
			got := h.Get()
			assert.NotNil(t, got)
		}()
	}
	wg.Wait()
}

func TestHandleValueTargets(t *testing.T) {
	t.Parallel()

	h := handle.New(42)
	assert.Equal(t, 42, h.Get())

	h.Swap(7)
	assert.Equal(t, 7, h.Get())
}
