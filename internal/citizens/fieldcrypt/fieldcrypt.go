// Package fieldcrypt seals personal data columns and derives the keyed
// hashes used for equality lookups on them.
//
// Ciphertexts are XChaCha20-Poly1305 with a random 24-byte nonce prepended.
// Hashes are hex HMAC-SHA256 over the normalized value; they only support
// equality search and collisions are accepted as negligible.
package fieldcrypt

import (
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the required encryption key length.
const KeySize = chacha20poly1305.KeySize

var ErrCiphertext = errors.New("fieldcrypt: malformed ciphertext")

type Sealer struct {
	aead    cipher.AEAD
	hashKey []byte
}

func New(encKey, hashKey []byte) (*Sealer, error) {
	if len(encKey) != KeySize {
		return nil, fmt.Errorf("fieldcrypt: encryption key must be %d bytes, got %d", KeySize, len(encKey))
	}
	if len(hashKey) == 0 {
		return nil, errors.New("fieldcrypt: hash key is required")
	}
	aead, err := chacha20poly1305.NewX(encKey)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: %w", err)
	}
	return &Sealer{aead: aead, hashKey: append([]byte(nil), hashKey...)}, nil
}

// NewFromHex accepts the hex-encoded encryption key found in configuration.
func NewFromHex(encKeyHex, hashKey string) (*Sealer, error) {
	key, err := hex.DecodeString(strings.TrimSpace(encKeyHex))
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: decode encryption key: %w", err)
	}
	return New(key, []byte(hashKey))
}

func (s *Sealer) Seal(plaintext string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("fieldcrypt: nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func (s *Sealer) Open(ciphertext []byte) (string, error) {
	n := s.aead.NonceSize()
	if len(ciphertext) < n+s.aead.Overhead() {
		return "", ErrCiphertext
	}
	plain, err := s.aead.Open(nil, ciphertext[:n], ciphertext[n:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	return string(plain), nil
}

// Hash is the keyed digest of an already normalized value.
func (s *Sealer) Hash(normalized string) string {
	mac := hmac.New(sha256.New, s.hashKey)
	mac.Write([]byte(normalized))
	return hex.EncodeToString(mac.Sum(nil))
}

// HashCURP hashes the trimmed, uppercased CURP.
func (s *Sealer) HashCURP(curp string) string {
	return s.Hash(strings.ToUpper(strings.TrimSpace(curp)))
}

// HashEmail hashes the trimmed, lowercased address.
func (s *Sealer) HashEmail(email string) string {
	return s.Hash(strings.ToLower(strings.TrimSpace(email)))
}
