package zendesk

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

// Webhook signature headers sent by Zendesk
const (
	SignatureHeader          = "X-Zendesk-Webhook-Signature"
	SignatureTimestampHeader = "X-Zendesk-Webhook-Signature-Timestamp"
)

// WebhookTolerance bounds the clock skew accepted between the signed
// timestamp and now. Older deliveries are treated as replays.
const WebhookTolerance = 5 * time.Minute

// VerifyWebhookSignature checks a Zendesk webhook signature:
// base64(HMAC-SHA256(secret, timestamp + body)). The RFC 3339 timestamp
// must lie within WebhookTolerance of now.
func VerifyWebhookSignature(secret, timestamp string, body []byte, signature string, now time.Time) bool {
	if secret == "" || signature == "" || timestamp == "" {
		return false
	}
	signedAt, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return false
	}
	if skew := now.Sub(signedAt); skew > WebhookTolerance || skew < -WebhookTolerance {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
