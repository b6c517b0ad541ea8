package entity

// EventKind names a notification published on the bus.
type EventKind string

const (
	// EventNetworkWillChange is published strictly before any resource
	// replacement of a refresh sequence.
	EventNetworkWillChange EventKind = "network:will-change"
	// EventNetworkDidChange is published once the new resources are installed,
	// strictly before the post-switch probe starts.
	EventNetworkDidChange EventKind = "network:did-change"
	// EventNetworkBlocked signals that a managed network settled to Blocked.
	EventNetworkBlocked EventKind = "network:blocked"
	// EventNetworkUnblocked signals that the network is no longer gated.
	EventNetworkUnblocked EventKind = "network:unblocked"
	// EventStateChanged carries the field identifiers changed by a committed
	// state transition.
	EventStateChanged EventKind = "state:changed"
)

// Event is the tagged notification unit dispatched through the bus.
type Event struct {
	Kind          EventKind `json:"kind"`
	ChangedFields []string  `json:"changedFields,omitempty"`
}
