package veripos

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"
)

const (
	signatureAlgTag = "HMACSHA256"
	timestampLayout = "2006-01-02T15:04:05Z"
)

// SignatureComponents is the fixed, ordered set of signed request fields for a
// request without a body (e.g. a status query).
type SignatureComponents struct {
	ClientID  string
	RequestID string
	Timestamp string
	Target    string
}

func (c SignatureComponents) canonicalString() string {
	return strings.Join([]string{
		"ClientId:" + c.ClientID,
		"RequestId:" + c.RequestID,
		"Timestamp:" + c.Timestamp,
		"Target:" + c.Target,
	}, "\n")
}

// BodySignatureComponents extends SignatureComponents with the digest of the
// request body. The Digest line exists exactly when a body exists; having two
// component types makes the omission rule structural rather than a runtime
// presence check.
type BodySignatureComponents struct {
	SignatureComponents
	Digest string
}

func (c BodySignatureComponents) canonicalString() string {
	return c.SignatureComponents.canonicalString() + "\nDigest:" + c.Digest
}

// signable is implemented by the two component variants only
type signable interface {
	canonicalString() string
}

// Digest returns the base64-encoded SHA-256 hash of body. It must be computed
// over the literal bytes that go on, or came off, the wire; re-serializing the
// payload yields a different digest and invalidates the signature.
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Sign computes the keyed signature over the canonical string of the given
// components: base64(HMAC-SHA256(canonical, secret)) prefixed with the
// algorithm tag. The computation is pure and deterministic.
func Sign(components signable, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(components.canonicalString()))
	return signatureAlgTag + "=" + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// FormatTimestamp renders t as a signed timestamp: UTC, second precision, no
// fractional seconds. Signer and verifier must agree on this exact layout
// since the timestamp is itself a signed field, not just metadata.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
