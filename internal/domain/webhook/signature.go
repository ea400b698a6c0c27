package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// SignatureVerifier checks the x-signature header MercadoPago attaches to
// webhook deliveries: "ts=<timestamp>,v1=<hex hmac-sha256>" over the
// manifest "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
type SignatureVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewSignatureVerifier creates a verifier. A tolerance of 0 disables the
// timestamp age check.
func NewSignatureVerifier(secret string, tolerance time.Duration) *SignatureVerifier {
	return &SignatureVerifier{
		secret:    []byte(strings.TrimSpace(secret)),
		tolerance: tolerance,
		now:       time.Now,
	}
}

// Verify returns an error wrapping ErrInvalidSignature unless the delivery
// is signed with the configured secret.
func (v *SignatureVerifier) Verify(evt *InboundEvent, body DecodedBody) error {
	if len(v.secret) == 0 {
		return fmt.Errorf("%w: webhook secret not configured", ErrInvalidSignature)
	}

	ts, sig := parseSignatureHeader(evt.Signature)
	if ts == "" || sig == "" {
		return fmt.Errorf("%w: missing ts or v1", ErrInvalidSignature)
	}

	provided, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return fmt.Errorf("%w: v1 is not hex", ErrInvalidSignature)
	}

	dataID := firstNonEmpty(evt.Query.Get("data.id"), nestedID(body, "data"))
	expected := signManifest(v.secret, manifest(dataID, evt.RequestID, ts))
	if !hmac.Equal(expected, provided) {
		return fmt.Errorf("%w: mismatch", ErrInvalidSignature)
	}

	if v.tolerance > 0 {
		sent, err := parseTimestamp(ts)
		if err != nil {
			return fmt.Errorf("%w: bad ts", ErrInvalidSignature)
		}
		if age := v.now().Sub(sent); age > v.tolerance || age < -v.tolerance {
			return fmt.Errorf("%w: ts outside tolerance", ErrInvalidSignature)
		}
	}
	return nil
}

// ComputeSignature returns the hex v1 value for a delivery.
func ComputeSignature(secret, dataID, requestID, ts string) string {
	return hex.EncodeToString(signManifest([]byte(secret), manifest(dataID, requestID, ts)))
}

func manifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		if isAlphanumeric(dataID) {
			dataID = strings.ToLower(dataID)
		}
		b.WriteString("id:" + dataID + ";")
	}
	if requestID != "" {
		b.WriteString("request-id:" + requestID + ";")
	}
	b.WriteString("ts:" + ts + ";")
	return b.String()
}

func signManifest(secret []byte, manifest string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(manifest))
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	return ts, v1
}

// parseTimestamp accepts unix seconds or milliseconds.
func parseTimestamp(ts string) (time.Time, error) {
	n, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if n > 1_000_000_000_000 {
		return time.UnixMilli(n), nil
	}
	return time.Unix(n, 0), nil
}

func isAlphanumeric(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
		default:
			return false
		}
	}
	return hasLetter
}
