package crypto_test

import (
	"testing"

	"github.com/goto/truora/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAES(t *testing.T) {
	c, err := crypto.NewAES("secret")
	require.NoError(t, err)

	t.Run("should decrypt what it encrypts", func(t *testing.T) {
		encrypted, err := c.Encrypt("my-api-key")
		require.NoError(t, err)
		assert.NotEqual(t, "my-api-key", encrypted)

		decrypted, err := c.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, "my-api-key", decrypted)
	})

	t.Run("should use a fresh nonce each time", func(t *testing.T) {
		a, _ := c.Encrypt("value")
		b, _ := c.Encrypt("value")
		assert.NotEqual(t, a, b)
	})

	t.Run("should fail with a different key", func(t *testing.T) {
		encrypted, err := c.Encrypt("value")
		require.NoError(t, err)

		other, err := crypto.NewAES("other-secret")
		require.NoError(t, err)
		_, err = other.Decrypt(encrypted)
		assert.ErrorIs(t, err, crypto.ErrInvalidEncrypted)
	})

	t.Run("should fail on garbage", func(t *testing.T) {
		_, err := c.Decrypt("not base64!")
		assert.ErrorIs(t, err, crypto.ErrInvalidEncrypted)

		_, err = c.Decrypt("YWJj")
		assert.ErrorIs(t, err, crypto.ErrInvalidEncrypted)
	})

	t.Run("should require a secret key", func(t *testing.T) {
		_, err := crypto.NewAES("")
		assert.ErrorIs(t, err, crypto.ErrEmptySecretKey)
	})
}
