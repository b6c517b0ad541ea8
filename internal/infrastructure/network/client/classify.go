package client

import (
	"errors"
	"strings"

	"network_manager/internal/domain/entity"

	"github.com/ethereum/go-ethereum/rpc"
)

// geoblockMarker is the well-known payload marker the managed provider returns
// when a request originates from a gated region.
const geoblockMarker = "countryBlocked"

// jsonRPCInternalError is the generic JSON-RPC internal server error code.
const jsonRPCInternalError = -32603

// classifyRPCError folds a remote failure into the closed *entity.RPCFailure
// type. The prober matches the reason exhaustively; everything that is neither
// the geoblock marker nor an internal server error is FailureOther.
func classifyRPCError(err error) error {
	reason := entity.FailureOther

	var rpcErr rpc.Error
	switch {
	case strings.Contains(err.Error(), geoblockMarker):
		reason = entity.FailureGeoblocked
	case errors.As(err, &rpcErr) && rpcErr.ErrorCode() == jsonRPCInternalError:
		reason = entity.FailureInternal
	}

	return &entity.RPCFailure{Reason: reason, Err: err}
}
