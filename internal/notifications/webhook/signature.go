package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// SignatureHeader carries the payload signature:
//
//	X-RainCheck-Signature: t=<unix>,v1=<hex hmac-sha256>
//
// The signed content is "<unix>.<payload>".
const SignatureHeader = "X-RainCheck-Signature"

// SignatureManager signs webhook payloads with HMAC-SHA256.
type SignatureManager struct{}

// NewSignatureManager creates a SignatureManager.
func NewSignatureManager() *SignatureManager {
	return &SignatureManager{}
}

// SignPayload returns the SignatureHeader value for payload.
func (sm *SignatureManager) SignPayload(payload []byte, secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("webhook signature: empty secret")
	}

	timestamp := now.Unix()
	v1 := computeHMAC(fmt.Sprintf("%d.%s", timestamp, payload), secret)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, v1), nil
}

// computeHMAC returns the lowercase hex HMAC-SHA256 of content under key.
func computeHMAC(content, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(content))
	return hex.EncodeToString(mac.Sum(nil))
}
