package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/farmbasket/checkout-service/internal/domain/model"
)

// Signature computes the expected HMAC-SHA256 signature over
// "<gatewayOrderID>|<gatewayPaymentID>" with the gateway key secret, the
// scheme the processor signs widget results with.
func Signature(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// CheckSignature verifies a widget result's signature locally. It is a
// cheap pre-check only; the server-side Verify round-trip remains mandatory.
func CheckSignature(secret string, result model.GatewayResult) error {
	expected := Signature(secret, result.GatewayOrderID, result.GatewayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(result.Signature)) {
		return ErrBadSignature
	}
	return nil
}
