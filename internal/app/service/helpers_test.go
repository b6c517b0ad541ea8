package service_test

import (
	"context"
	"encoding/json"
	"sync"

	"network_manager/internal/app/port"
	"network_manager/internal/domain/entity"
	"network_manager/internal/infrastructure/configloader"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// scriptedSender answers each JSON-RPC method from a canned JSON response or a
// canned error, counting calls per method. An optional hook runs on entry of
// every call and may block to simulate a slow endpoint.
type scriptedSender struct {
	mu        sync.Mutex
	calls     map[string]int
	responses map[string]string
	errs      map[string]error
	hook      func(method string)
}

func newScriptedSender() *scriptedSender {
	return &scriptedSender{
		calls:     make(map[string]int),
		responses: make(map[string]string),
		errs:      make(map[string]error),
	}
}

// availableSender answers like a healthy endpoint on the given hex chain id.
func availableSender(chainIDHex string, withFeeMarket bool) *scriptedSender {
	s := newScriptedSender()
	s.setResponse("eth_chainId", `"`+chainIDHex+`"`)
	if withFeeMarket {
		s.setResponse("eth_getBlockByNumber", `{"baseFeePerGas":"0x10"}`)
	} else {
		s.setResponse("eth_getBlockByNumber", `{}`)
	}
	return s
}

func (s *scriptedSender) CallContext(_ context.Context, result interface{}, method string, _ ...interface{}) error {
	s.mu.Lock()
	s.calls[method]++
	resp, hasResp := s.responses[method]
	err := s.errs[method]
	hook := s.hook
	s.mu.Unlock()

	if hook != nil {
		hook(method)
	}
	if err != nil {
		return err
	}
	if !hasResp {
		return nil
	}
	return json.Unmarshal([]byte(resp), result)
}

func (s *scriptedSender) setResponse(method, body string) {
	s.mu.Lock()
	s.responses[method] = body
	s.mu.Unlock()
}

func (s *scriptedSender) setError(method string, err error) {
	s.mu.Lock()
	if err == nil {
		delete(s.errs, method)
	} else {
		s.errs[method] = err
	}
	s.mu.Unlock()
}

func (s *scriptedSender) setHook(hook func(method string)) {
	s.mu.Lock()
	s.hook = hook
	s.mu.Unlock()
}

func (s *scriptedSender) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// fakeWatcher records lifecycle transitions and fans emitted heads out to its
// subscribers.
type fakeWatcher struct {
	mu      sync.Mutex
	started int
	stopped int
	subs    []func(uint64)
}

func (w *fakeWatcher) Start(context.Context) {
	w.mu.Lock()
	w.started++
	w.mu.Unlock()
}

func (w *fakeWatcher) Stop() {
	w.mu.Lock()
	w.stopped++
	w.mu.Unlock()
}

func (w *fakeWatcher) Subscribe(fn func(uint64)) func() {
	w.mu.Lock()
	w.subs = append(w.subs, fn)
	w.mu.Unlock()
	return func() {}
}

func (w *fakeWatcher) startCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

func (w *fakeWatcher) stopCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// fakeFactory delegates construction to buildFn, counting builds.
type fakeFactory struct {
	mu      sync.Mutex
	builds  []entity.EndpointConfig
	buildFn func(cfg entity.EndpointConfig) (port.RequestSender, port.BlockWatcher, error)
}

func (f *fakeFactory) Build(cfg entity.EndpointConfig) (port.RequestSender, port.BlockWatcher, error) {
	f.mu.Lock()
	f.builds = append(f.builds, cfg)
	build := f.buildFn
	f.mu.Unlock()
	return build(cfg)
}

func (f *fakeFactory) setBuildFn(build func(cfg entity.EndpointConfig) (port.RequestSender, port.BlockWatcher, error)) {
	f.mu.Lock()
	f.buildFn = build
	f.mu.Unlock()
}

func (f *fakeFactory) buildCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.builds)
}

// factoryFor always hands out the same sender with a fresh watcher per build.
func factoryFor(sender port.RequestSender) *fakeFactory {
	return &fakeFactory{
		buildFn: func(entity.EndpointConfig) (port.RequestSender, port.BlockWatcher, error) {
			return sender, &fakeWatcher{}, nil
		},
	}
}

// memStore keeps the last saved snapshot in memory.
type memStore struct {
	mu      sync.Mutex
	saved   *entity.PersistedState
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load() (*entity.PersistedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return nil, nil
	}
	cp := *m.saved
	return &cp, nil
}

func (m *memStore) Save(st entity.PersistedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &st
	return nil
}

func (m *memStore) last() *entity.PersistedState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}

func testConfig() *configloader.Config {
	cfg := &configloader.Config{}
	cfg.Probe.RequestTimeoutSeconds = 5
	return cfg
}
