package client

import (
	"context"
	"sync"
	"time"

	"network_manager/internal/app/port"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// HeadPoller implements port.BlockWatcher by polling eth_blockNumber on a
// fixed cadence and fanning new heads out to subscribers.
type HeadPoller struct {
	sender   port.RequestSender
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	subs   map[int]func(uint64)
	nextID int
	cancel context.CancelFunc
	done   chan struct{}
}

var _ port.BlockWatcher = (*HeadPoller)(nil)

// NewHeadPoller creates a stopped poller over the given sender.
func NewHeadPoller(sender port.RequestSender, interval time.Duration, logger *zap.Logger) *HeadPoller {
	return &HeadPoller{
		sender:   sender,
		interval: interval,
		logger:   logger,
		subs:     make(map[int]func(uint64)),
	}
}

// Start begins the poll loop. A second Start on a running poller is a no-op.
func (p *HeadPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go p.loop(ctx, done)
}

// Stop halts polling and waits for the loop to exit. Idempotent.
func (p *HeadPoller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Subscribe registers a listener for new head numbers.
func (p *HeadPoller) Subscribe(fn func(head uint64)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *HeadPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var lastHead uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var head hexutil.Uint64
			if err := p.sender.CallContext(ctx, &head, "eth_blockNumber"); err != nil {
				if ctx.Err() == nil {
					p.logger.Debug("head poll failed", zap.Error(err))
				}
				continue
			}
			if uint64(head) <= lastHead {
				continue
			}
			lastHead = uint64(head)
			p.logger.Debug("new chain head", zap.Uint64("head", lastHead))
			p.notify(lastHead)
		}
	}
}

func (p *HeadPoller) notify(head uint64) {
	p.mu.Lock()
	fns := make([]func(uint64), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(head)
	}
}
