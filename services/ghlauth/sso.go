package ghlauth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	ssoBlockSize = 16
	ssoKeySize   = 32
	ssoIVSize    = 16
	ssoSaltSize  = 8
)

// SSODecryptor decrypts the payload GHL embeds in custom-page SSO sessions.
// The scheme is the OpenSSL "Salted__" layout: an 8-byte salt at bytes [8:16)
// of the base64 payload, key and IV derived from the shared secret via
// iterated MD5 (EVP_BytesToKey), AES-256-CBC for the ciphertext. Kept as-is
// for compatibility with what the GHL side produces.
type SSODecryptor struct {
	secret []byte
}

func NewSSODecryptor(sharedSecret string) *SSODecryptor {
	return &SSODecryptor{
		secret: []byte(sharedSecret),
	}
}

// Decrypt returns the JSON payload hidden in the encoded key. Errors never
// include the shared secret or derived key material.
func (d *SSODecryptor) Decrypt(encodedKey string) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("error decoding sso payload: not base64")
	}
	if len(raw) <= ssoBlockSize {
		return nil, fmt.Errorf("error decoding sso payload: too short")
	}

	salt := raw[ssoSaltSize:ssoBlockSize]
	cipherText := raw[ssoBlockSize:]
	if len(cipherText) == 0 || len(cipherText)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("error decoding sso payload: invalid ciphertext length")
	}

	derived := evpBytesToKey(d.secret, salt, ssoKeySize+ssoIVSize)
	block, err := aes.NewCipher(derived[:ssoKeySize])
	if err != nil {
		return nil, fmt.Errorf("error initializing cipher")
	}

	plain := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(block, derived[ssoKeySize:ssoKeySize+ssoIVSize]).CryptBlocks(plain, cipherText)

	plain, err = pkcs7Unpad(plain)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{}
	err = json.Unmarshal(plain, &payload)
	if err != nil {
		return nil, fmt.Errorf("error decrypting sso payload: not valid json")
	}

	return payload, nil
}

// evpBytesToKey derives want bytes of key material the way OpenSSL's
// EVP_BytesToKey does with MD5: each round hashes the previous digest, the
// secret and the salt.
func evpBytesToKey(secret []byte, salt []byte, want int) []byte {
	result := make([]byte, 0, want)
	digest := []byte{}

	for len(result) < want {
		hasher := md5.New()
		hasher.Write(digest)
		hasher.Write(secret)
		hasher.Write(salt)
		digest = hasher.Sum(nil)
		result = append(result, digest...)
	}

	return result[:want]
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("error decrypting sso payload: empty plaintext")
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, fmt.Errorf("error decrypting sso payload: invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("error decrypting sso payload: invalid padding")
		}
	}

	return data[:len(data)-padding], nil
}
