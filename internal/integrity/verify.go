// Package integrity checks downloaded export artifacts against the
// signature the backend attaches to them.
package integrity

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Result is the verification outcome for one artifact. A false Verified
// always carries a Reason.
type Result struct {
	Reason   string
	Verified bool
}

// Reasons reported for the common failure modes.
const (
	ReasonMissingSignature = "Missing signature header"
	ReasonHashMismatch     = "Hash mismatch (corrupt download)"
)

// Verify computes the SHA-256 digest of data and compares it against the
// server-supplied signature. The signature may arrive hex-encoded or
// base64/base64url-encoded; the signing side's encoding has not been stable
// across backend versions, so both are accepted. When expectedVersion is
// non-empty and the response carried a template version code, the two must
// agree. Verify never returns an error: every failure mode degrades to an
// unverified Result.
func Verify(data []byte, signature, versionCode, expectedVersion string) (result Result) {
	// Hashing and decoding must never take the run down with them.
	defer func() {
		if r := recover(); r != nil {
			result = Result{Reason: fmt.Sprintf("Verification failed: %v", r)}
		}
	}()

	if signature == "" {
		return Result{Reason: ReasonMissingSignature}
	}

	sum := sha256.Sum256(data)
	computed := hex.EncodeToString(sum[:])

	expected, err := decodeSignature(signature)
	if err != nil {
		return Result{Reason: fmt.Sprintf("Verification failed: %v", err)}
	}

	if !strings.EqualFold(computed, expected) {
		return Result{Reason: ReasonHashMismatch}
	}

	if expectedVersion != "" && versionCode != "" && versionCode != expectedVersion {
		return Result{Reason: fmt.Sprintf("Template mismatch (Server used %s, expected %s)", versionCode, expectedVersion)}
	}

	return Result{Verified: true}
}

// decodeSignature normalizes a signature header value to lowercase hex.
// A 64-character hex string is taken as-is; anything else is treated as
// base64, tolerating the url-safe alphabet and missing padding.
func decodeSignature(sig string) (string, error) {
	sig = strings.TrimSpace(sig)

	if len(sig) == hex.EncodedLen(sha256.Size) && isHex(sig) {
		return strings.ToLower(sig), nil
	}

	normalized := strings.NewReplacer("-", "+", "_", "/").Replace(sig)
	if pad := len(normalized) % 4; pad != 0 {
		normalized += strings.Repeat("=", 4-pad)
	}

	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return "", fmt.Errorf("undecodable signature %q: %w", sig, err)
	}

	return hex.EncodeToString(raw), nil
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
