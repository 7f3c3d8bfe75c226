package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var (
	ErrEmptySecretKey   = errors.New("encryption secret key is empty")
	ErrInvalidEncrypted = errors.New("invalid encrypted value")
)

// AES encrypts values with AES-256-GCM. The output is base64 of
// nonce followed by ciphertext.
type AES struct {
	key []byte
}

func NewAES(secretKey string) (*AES, error) {
	if secretKey == "" {
		return nil, ErrEmptySecretKey
	}
	sum := sha256.Sum256([]byte(secretKey))
	return &AES{key: sum[:]}, nil
}

func (c *AES) Encrypt(value string) (string, error) {
	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(value), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *AES) Decrypt(value string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncrypted, err)
	}

	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", ErrInvalidEncrypted
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncrypted, err)
	}
	return string(plain), nil
}

func (c *AES) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
