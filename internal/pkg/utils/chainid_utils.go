package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"network_manager/internal/domain/entity"
)

// maxSafeChainID is the largest chain id that survives every integer
// representation downstream consumers use (2^53 - 1 minus the signing offset).
const maxSafeChainID = 4503599627370476

// NormalizeChainGenerationID converts a chain generation id from any of its
// accepted wire forms (JSON number, 0x-hex string, decimal string) into a
// decimal string. Anything else fails with entity.ErrMalformedGenerationID.
func NormalizeChainGenerationID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", fmt.Errorf("%w: empty result", entity.ErrMalformedGenerationID)
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("%w: %q", entity.ErrMalformedGenerationID, string(trimmed))
		}
		return normalizeIDString(s)
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return "", fmt.Errorf("%w: %q", entity.ErrMalformedGenerationID, string(trimmed))
	}
	v, ok := new(big.Int).SetString(num.String(), 10)
	if !ok {
		return "", fmt.Errorf("%w: non-integer number %q", entity.ErrMalformedGenerationID, num.String())
	}
	return v.String(), nil
}

func normalizeIDString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		v, ok := new(big.Int).SetString(rest, 16)
		if !ok {
			return "", fmt.Errorf("%w: bad hex %q", entity.ErrMalformedGenerationID, s)
		}
		return v.String(), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return "", fmt.Errorf("%w: %q", entity.ErrMalformedGenerationID, s)
	}
	return v.String(), nil
}

// ValidChainIDHex reports whether s is a well-formed, range-safe chain id in
// canonical 0x-hex form: 0x prefix, no leading zero digit, and a value in
// (0, maxSafeChainID].
func ValidChainIDHex(s string) bool {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok || digits == "" || digits[0] == '0' {
		return false
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return false
	}
	return v > 0 && v <= maxSafeChainID
}
