package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NetworkSwitchesTotal counts completed switch operations by target kind.
	NetworkSwitchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "network_manager_switches_total",
		Help: "Total number of completed network switch operations.",
	}, []string{"kind"})

	// ProbeOutcomesTotal counts committed probe outcomes by resulting status.
	ProbeOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "network_manager_probe_outcomes_total",
		Help: "Total number of committed status probe outcomes.",
	}, []string{"status"})

	// StaleProbesTotal counts probes discarded because a switch superseded them.
	StaleProbesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "network_manager_stale_probes_total",
		Help: "Total number of probe results discarded as stale.",
	})

	// ConnectivityStatus shows the current status (1 on exactly one label).
	ConnectivityStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "network_manager_connectivity_status",
		Help: "Current connectivity status of the active network (1 for the active status, 0 otherwise).",
	}, []string{"status"})

	// ChainHead shows the latest head number reported by the block watcher.
	ChainHead = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "network_manager_chain_head",
		Help: "Latest block number observed on the active network.",
	})

	// CustomEndpointsCreatedTotal counts newly inserted custom endpoint
	// definitions by attribution source. Updates do not count.
	CustomEndpointsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "network_manager_custom_endpoints_created_total",
		Help: "Total number of custom endpoint definitions created.",
	}, []string{"source"})
)

// SetConnectivityStatus flips the status gauge so exactly one label is 1.
func SetConnectivityStatus(status string) {
	for _, s := range []string{"unknown", "available", "unavailable", "blocked"} {
		v := 0.0
		if s == status {
			v = 1.0
		}
		ConnectivityStatus.WithLabelValues(s).Set(v)
	}
}
