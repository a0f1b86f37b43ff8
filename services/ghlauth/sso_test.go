package ghlauth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

// encryptForTest produces the OpenSSL "Salted__" layout the GHL side uses:
// 8 magic bytes, 8 salt bytes, AES-256-CBC ciphertext with a key/IV derived
// via EVP_BytesToKey.
func encryptForTest(plaintext string, secret string) (string, error) {
	salt := make([]byte, ssoSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	derived := evpBytesToKey([]byte(secret), salt, ssoKeySize+ssoIVSize)
	block, err := aes.NewCipher(derived[:ssoKeySize])
	if err != nil {
		return "", err
	}

	padding := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := []byte(plaintext)
	for i := 0; i < padding; i++ {
		padded = append(padded, byte(padding))
	}

	cipherText := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, derived[ssoKeySize:ssoKeySize+ssoIVSize]).CryptBlocks(cipherText, padded)

	raw := append([]byte("Salted__"), salt...)
	raw = append(raw, cipherText...)

	return base64.StdEncoding.EncodeToString(raw), nil
}

func TestSSODecryptRoundTrip(t *testing.T) {
	decryptor := NewSSODecryptor("shared-sso-secret")

	encrypted, err := encryptForTest(`{"userId":"u1","role":"admin","activeLocation":"loc_1"}`, "shared-sso-secret")
	assert.NoError(t, err)

	payload, err := decryptor.Decrypt(encrypted)
	assert.NoError(t, err)
	assert.Equal(t, "u1", payload["userId"])
	assert.Equal(t, "admin", payload["role"])
	assert.Equal(t, "loc_1", payload["activeLocation"])
}

func TestSSODecryptFailures(t *testing.T) {
	decryptor := NewSSODecryptor("shared-sso-secret")

	t.Run("Not base64", func(t *testing.T) {
		_, err := decryptor.Decrypt("!!! definitely not base64 !!!")
		assert.Error(t, err)
	})

	t.Run("Too short", func(t *testing.T) {
		_, err := decryptor.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
		assert.Error(t, err)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		encrypted, err := encryptForTest(`{"userId":"u1"}`, "some-other-secret")
		assert.NoError(t, err)

		_, err = decryptor.Decrypt(encrypted)
		assert.Error(t, err)
	})

	t.Run("Corrupted ciphertext", func(t *testing.T) {
		encrypted, err := encryptForTest(`{"userId":"u1"}`, "shared-sso-secret")
		assert.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(encrypted)
		assert.NoError(t, err)
		raw[len(raw)-1] ^= 0xff

		_, err = decryptor.Decrypt(base64.StdEncoding.EncodeToString(raw))
		assert.Error(t, err)
	})

	t.Run("Plaintext is not json", func(t *testing.T) {
		encrypted, err := encryptForTest("just some text", "shared-sso-secret")
		assert.NoError(t, err)

		_, err = decryptor.Decrypt(encrypted)
		assert.Error(t, err)
	})

	t.Run("Errors never leak the secret", func(t *testing.T) {
		_, err := decryptor.Decrypt("AAAA")
		assert.Error(t, err)
		assert.NotContains(t, err.Error(), "shared-sso-secret")
	})
}
