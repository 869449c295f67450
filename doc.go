// Package ordapay provides an integration layer for the VeriPOS hosted
// checkout gateway, exposing payment creation, status queries, and webhook
// verification behind a small, standardized REST API.
//
// # Overview
//
// OrdaPay handles the parts of a VeriPOS integration that are easy to get
// wrong: request signing, body digests, and webhook signature verification.
// Applications call OrdaPay with a plain JSON payment request; OrdaPay
// serializes the gateway payload exactly once, digests those bytes, signs
// the canonical string with the tenant's secret key, and forwards the
// request to VeriPOS.
//
// # Request Signing
//
// Every outbound request carries four headers: X-Client-Id, X-Request-Id,
// X-Timestamp, and X-Signature. The signature is an HMAC-SHA256 over a
// canonical string of colon-separated lines. Requests with a body include
// a Digest line holding the base64 SHA-256 of the exact body bytes sent on
// the wire; bodiless requests omit the line entirely.
//
// # Webhook Verification
//
// Inbound webhook notifications are verified against the same scheme using
// the raw, unparsed body bytes. The signed target path is pinned from
// configuration rather than taken from the inbound request, so a notification
// replayed against a different path never verifies.
//
// # Multi-Tenant Support
//
// Each tenant holds its own VeriPOS credentials, stored in SQLite and
// selected per request via the X-Tenant-Id header. Secret keys never appear
// in logs or API responses.
package ordapay
