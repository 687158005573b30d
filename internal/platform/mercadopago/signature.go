package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fatflowers/marketpay/pkg/config"
)

var (
	ErrMissingSignature = errors.New("missing x-signature header")
	ErrBadSignature     = errors.New("webhook signature mismatch")
	ErrStaleSignature   = errors.New("webhook signature timestamp outside tolerance")
	ErrNoWebhookSecret  = errors.New("webhook secret not configured")
)

// SignedRequest carries the parts of a webhook delivery covered by the signature.
type SignedRequest struct {
	// Signature is the raw x-signature header: "ts=<ts>,v1=<hex hmac>".
	Signature string
	// RequestID is the x-request-id header.
	RequestID string
	// DataID is the data.id query parameter (or body field when absent from the URL).
	DataID string
}

// SignatureVerifier checks Mercado Pago webhook signatures. A zero secret rejects
// every delivery unless skip is set.
type SignatureVerifier struct {
	secret    []byte
	skip      bool
	tolerance time.Duration
	now       func() time.Time
}

func NewSignatureVerifier(cfg *config.Config) *SignatureVerifier {
	return &SignatureVerifier{
		secret:    []byte(cfg.MercadoPago.WebhookSecret),
		skip:      cfg.MercadoPago.SkipSignatureVerification,
		tolerance: cfg.MercadoPago.SignatureTolerance,
		now:       time.Now,
	}
}

// Verify returns nil when r carries a valid signature.
func (v *SignatureVerifier) Verify(r SignedRequest) error {
	if v.skip {
		return nil
	}
	if len(v.secret) == 0 {
		return ErrNoWebhookSecret
	}
	ts, sig := parseSignatureHeader(r.Signature)
	if ts == "" || sig == "" {
		return ErrMissingSignature
	}
	if v.tolerance > 0 {
		signedAt, err := parseSignatureTimestamp(ts)
		if err != nil {
			return ErrBadSignature
		}
		if d := v.now().Sub(signedAt); d > v.tolerance || d < -v.tolerance {
			return ErrStaleSignature
		}
	}

	expected := Sign(v.secret, manifest(r.DataID, r.RequestID, ts))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sig))) {
		return ErrBadSignature
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of manifest under secret.
func Sign(secret []byte, manifest string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

// manifest builds "id:<id>;request-id:<rid>;ts:<ts>;", dropping absent parts.
func manifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		b.WriteString("id:")
		b.WriteString(strings.ToLower(dataID))
		b.WriteString(";")
	}
	if requestID != "" {
		b.WriteString("request-id:")
		b.WriteString(requestID)
		b.WriteString(";")
	}
	if ts != "" {
		b.WriteString("ts:")
		b.WriteString(ts)
		b.WriteString(";")
	}
	return b.String()
}

func parseSignatureHeader(h string) (ts, v1 string) {
	for _, part := range strings.Split(h, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "ts":
			ts = strings.TrimSpace(val)
		case "v1":
			v1 = strings.TrimSpace(val)
		}
	}
	return ts, v1
}

// parseSignatureTimestamp accepts unix seconds or milliseconds.
func parseSignatureTimestamp(ts string) (time.Time, error) {
	n, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if n > 1e12 {
		return time.UnixMilli(n), nil
	}
	return time.Unix(n, 0), nil
}
