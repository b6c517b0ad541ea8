package entity

// PersistedState is the durable snapshot of the connection manager, restored
// on process start. The live resource pair is never persisted; it is rebuilt
// from EndpointConfig by an explicit initialization call.
type PersistedState struct {
	ChainGenerationID  *string                   `json:"chainGenerationId"`
	ConnectivityStatus ConnectivityStatus        `json:"connectivityStatus"`
	EndpointConfig     EndpointConfig            `json:"endpointConfig"`
	ConnectivityState  ConnectivityState         `json:"connectivityState"`
	CustomEndpoints    map[string]CustomEndpoint `json:"customEndpoints"`
}
