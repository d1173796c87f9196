package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	trackingNumberPrefix   = "TRK"
	trackingNumberLength   = 12
	trackingNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// TrackingNumberGenerator produces a new tracking number.
// Uniqueness is enforced by the store, not the generator.
type TrackingNumberGenerator func() (string, error)

// GenerateTrackingNumber returns "TRK" followed by 12 random upper-case
// alphanumerics
func GenerateTrackingNumber() (string, error) {
	buf := make([]byte, trackingNumberLength)
	base := big.NewInt(int64(len(trackingNumberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("failed to generate tracking number: %w", err)
		}
		buf[i] = trackingNumberAlphabet[n.Int64()]
	}
	return trackingNumberPrefix + string(buf), nil
}
