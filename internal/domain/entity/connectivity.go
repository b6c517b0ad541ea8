package entity

// ConnectivityStatus is the current classification of the active endpoint's
// reachability. Available, Unavailable and Blocked are resting states; Unknown
// is transiently re-entered at the start of every network switch.
type ConnectivityStatus string

const (
	StatusUnknown     ConnectivityStatus = "unknown"
	StatusAvailable   ConnectivityStatus = "available"
	StatusUnavailable ConnectivityStatus = "unavailable"
	StatusBlocked     ConnectivityStatus = "blocked"
)

// CapabilityDynamicFee marks whether the network's latest block exposes a
// base-fee-per-gas field.
const CapabilityDynamicFee = "dynamic-fee"

// ConnectivityState aggregates the probed status of the active endpoint. An
// absent capability entry means "not yet determined", which is distinct from
// an explicit false.
type ConnectivityState struct {
	Status       ConnectivityStatus `json:"status" yaml:"status"`
	Capabilities map[string]bool    `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

// Reset returns the state every network switch starts from: status Unknown
// with all capabilities cleared.
func (ConnectivityState) Reset() ConnectivityState {
	return ConnectivityState{Status: StatusUnknown}
}
