package integrity

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestVerifyMissingSignature(t *testing.T) {
	result := Verify([]byte("payload"), "", "", "")
	assert.False(t, result.Verified)
	assert.Equal(t, ReasonMissingSignature, result.Reason)
}

func TestVerifyHexSignature(t *testing.T) {
	data := []byte("spreadsheet bytes")
	good := digestOf(data)

	t.Run("matching digest verifies", func(t *testing.T) {
		result := Verify(data, good, "", "")
		assert.True(t, result.Verified)
		assert.Empty(t, result.Reason)
	})

	t.Run("uppercase digest verifies", func(t *testing.T) {
		result := Verify(data, strings.ToUpper(good), "", "")
		assert.True(t, result.Verified)
	})

	t.Run("flipped character fails", func(t *testing.T) {
		flipped := []byte(good)
		if flipped[0] == 'a' {
			flipped[0] = 'b'
		} else {
			flipped[0] = 'a'
		}

		result := Verify(data, string(flipped), "", "")
		assert.False(t, result.Verified)
		assert.Equal(t, ReasonHashMismatch, result.Reason)
	})
}

func TestVerifyBase64Signature(t *testing.T) {
	data := []byte("artifact content")
	sum := sha256.Sum256(data)

	t.Run("standard base64", func(t *testing.T) {
		sig := base64.StdEncoding.EncodeToString(sum[:])
		result := Verify(data, sig, "", "")
		assert.True(t, result.Verified)
	})

	t.Run("base64url without padding", func(t *testing.T) {
		sig := base64.RawURLEncoding.EncodeToString(sum[:])
		result := Verify(data, sig, "", "")
		assert.True(t, result.Verified)
	})

	t.Run("base64 of the wrong digest fails", func(t *testing.T) {
		other := sha256.Sum256([]byte("different content"))
		sig := base64.StdEncoding.EncodeToString(other[:])
		result := Verify(data, sig, "", "")
		assert.False(t, result.Verified)
		assert.Equal(t, ReasonHashMismatch, result.Reason)
	})
}

func TestVerifyUndecodableSignature(t *testing.T) {
	result := Verify([]byte("data"), "!!not-base64-at-all!!", "", "")
	assert.False(t, result.Verified)
	assert.Contains(t, result.Reason, "Verification failed")
}

func TestVerifyTemplateVersion(t *testing.T) {
	data := []byte("versioned artifact")
	good := digestOf(data)

	t.Run("matching version verifies", func(t *testing.T) {
		result := Verify(data, good, "v7", "v7")
		assert.True(t, result.Verified)
	})

	t.Run("mismatched version fails with both codes", func(t *testing.T) {
		result := Verify(data, good, "v8", "v7")
		assert.False(t, result.Verified)
		assert.Equal(t, "Template mismatch (Server used v8, expected v7)", result.Reason)
	})

	t.Run("absent version header is ignored", func(t *testing.T) {
		result := Verify(data, good, "", "v7")
		assert.True(t, result.Verified)
	})

	t.Run("no expectation ignores version header", func(t *testing.T) {
		result := Verify(data, good, "v8", "")
		assert.True(t, result.Verified)
	})
}

func TestVerifyEmptyPayload(t *testing.T) {
	// The digest of zero bytes is still a digest; an empty artifact with a
	// correct signature verifies.
	result := Verify(nil, digestOf(nil), "", "")
	assert.True(t, result.Verified)
}
