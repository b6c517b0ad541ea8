// Package healthcheck records per-endpoint health observations for the admin
// read-out. Records expire on a TTL so the read-out never shows stale data as
// current.
package healthcheck

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"network_manager/internal/app/port"
	"network_manager/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is the health observation kept per endpoint URL.
type Record struct {
	Endpoint  string    `json:"endpoint"`
	Status    string    `json:"status"` // healthy, unreachable, or a connectivity status
	Height    uint64    `json:"height,omitempty"`
	LatencyMs float64   `json:"latencyMs,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tracker caches health records with a TTL and can actively ping an endpoint
// with a direct eth_blockNumber request.
type Tracker struct {
	client  *fasthttp.Client
	cache   *gocache.Cache
	timeout time.Duration
	logger  *zap.Logger
}

var _ port.HealthObserver = (*Tracker)(nil)

// NewTracker creates a tracker whose records expire after ttl.
func NewTracker(ttl, timeout time.Duration, logger *zap.Logger) *Tracker {
	return &Tracker{
		client:  &fasthttp.Client{},
		cache:   gocache.New(ttl, ttl),
		timeout: timeout,
		logger:  logger,
	}
}

// ObserveProbe records a probe outcome for the endpoint. Satisfies
// port.HealthObserver; called by the orchestrator after each probe commit.
func (t *Tracker) ObserveProbe(endpoint string, status entity.ConnectivityStatus) {
	if endpoint == "" {
		return
	}
	t.cache.Set(strings.ToLower(endpoint), Record{
		Endpoint:  endpoint,
		Status:    string(status),
		UpdatedAt: time.Now(),
	}, gocache.DefaultExpiration)
}

type blockNumberRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type blockNumberResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Ping issues a direct eth_blockNumber request against url, records the
// observation and returns it.
func (t *Tracker) Ping(url string) Record {
	rec := Record{Endpoint: url, UpdatedAt: time.Now()}

	payload, err := json.Marshal(blockNumberRequest{Jsonrpc: "2.0", Method: "eth_blockNumber", Params: []interface{}{}, ID: 1})
	if err != nil {
		rec.Status = "unreachable"
		rec.Error = err.Error()
		t.store(rec)
		return rec
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetRequestURI(url)
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	err = t.client.DoTimeout(req, resp, t.timeout)
	rec.LatencyMs = float64(time.Since(start).Microseconds()) / 1000

	switch {
	case err != nil:
		rec.Status = "unreachable"
		rec.Error = err.Error()
	case resp.StatusCode() != fasthttp.StatusOK:
		rec.Status = "unreachable"
		rec.Error = fmt.Sprintf("http status %d", resp.StatusCode())
	default:
		var parsed blockNumberResponse
		if jsonErr := json.Unmarshal(resp.Body(), &parsed); jsonErr != nil {
			rec.Status = "unreachable"
			rec.Error = jsonErr.Error()
		} else if parsed.Error != nil {
			rec.Status = "unreachable"
			rec.Error = fmt.Sprintf("rpc error %d: %s", parsed.Error.Code, parsed.Error.Message)
		} else {
			rec.Status = "healthy"
			var height uint64
			if _, scanErr := fmt.Sscanf(parsed.Result, "0x%x", &height); scanErr == nil {
				rec.Height = height
			}
		}
	}

	t.logger.Debug("endpoint ping",
		zap.String("endpoint", url),
		zap.String("status", rec.Status),
		zap.Float64("latencyMs", rec.LatencyMs))
	t.store(rec)
	return rec
}

func (t *Tracker) store(rec Record) {
	t.cache.Set(strings.ToLower(rec.Endpoint), rec, gocache.DefaultExpiration)
}

// Snapshot returns the unexpired records, sorted by endpoint URL.
func (t *Tracker) Snapshot() []Record {
	items := t.cache.Items()
	records := make([]Record, 0, len(items))
	for _, item := range items {
		if rec, ok := item.Object.(Record); ok {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Endpoint < records[j].Endpoint })
	return records
}
