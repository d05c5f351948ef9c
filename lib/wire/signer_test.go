package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignerRejectsUnknownScheme(t *testing.T) {
	for _, scheme := range []string{"hmac-sha512", "md5", "", "HMAC-SHA256"} {
		_, err := NewSigner(scheme, []byte("key"))
		require.Error(t, err, "scheme=%q", scheme)
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
	}
}

func TestSignIsDeterministicAndOrdered(t *testing.T) {
	signer, err := NewSigner(SchemeHMACSHA256, []byte("secret"))
	require.NoError(t, err)

	a := [][]byte{[]byte("header"), []byte("{}"), []byte("{}"), []byte("content")}
	assert.Equal(t, signer.Sign(a), signer.Sign(a))

	// Swapping part order changes the digest.
	b := [][]byte{[]byte("{}"), []byte("header"), []byte("{}"), []byte("content")}
	assert.NotEqual(t, signer.Sign(a), signer.Sign(b))
}

func TestVerifyRoundTrip(t *testing.T) {
	signer, err := NewSigner(SchemeHMACSHA256, []byte("secret"))
	require.NoError(t, err)

	parts := [][]byte{[]byte(`{"msg_type":"x"}`), []byte("{}"), []byte("{}"), []byte("{}")}
	sig := signer.Sign(parts)
	assert.True(t, signer.Verify(sig, parts))
}

func TestVerifyDetectsSingleByteFlip(t *testing.T) {
	signer, err := NewSigner(SchemeHMACSHA256, []byte("secret"))
	require.NoError(t, err)

	parts := [][]byte{[]byte("header"), []byte("parent"), []byte("meta"), []byte("content")}
	sig := signer.Sign(parts)

	for i := range parts {
		tampered := make([][]byte, len(parts))
		for j, p := range parts {
			cp := make([]byte, len(p))
			copy(cp, p)
			tampered[j] = cp
		}
		tampered[i][0] ^= 0x01
		assert.False(t, signer.Verify(sig, tampered), "flip in part %d not detected", i)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	s1, err := NewSigner(SchemeHMACSHA256, []byte("key-one"))
	require.NoError(t, err)
	s2, err := NewSigner(SchemeHMACSHA256, []byte("key-two"))
	require.NoError(t, err)

	parts := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}
	assert.False(t, s2.Verify(s1.Sign(parts), parts))
}

func TestEmptyKeySignsConsistently(t *testing.T) {
	signer, err := NewSigner(SchemeHMACSHA256, nil)
	require.NoError(t, err)
	parts := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}
	assert.True(t, signer.Verify(signer.Sign(parts), parts))
}
