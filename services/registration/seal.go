package registration

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var errUnsealable = errors.New("registration: sealed field cannot be opened")

// fieldSealer encrypts individual snapshot fields. Output is the nonce
// followed by the ciphertext, base64 encoded.
type fieldSealer struct {
	aead cipher.AEAD
}

func newFieldSealer(secret string) (*fieldSealer, error) {
	if secret == "" {
		return nil, errors.New("registration: session secret is empty")
	}
	key := sha256.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("registration: failed to create cipher: %w", err)
	}
	return &fieldSealer{aead: aead}, nil
}

func (s *fieldSealer) seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("registration: failed to generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(s.aead.Seal(nonce, nonce, []byte(plain), nil)), nil
}

func (s *fieldSealer) open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < s.aead.NonceSize() {
		return "", errUnsealable
	}
	n := s.aead.NonceSize()
	plain, err := s.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", errUnsealable
	}
	return string(plain), nil
}

// sealSnapshot returns snap with its password fields encrypted.
func (s *fieldSealer) sealSnapshot(snap Snapshot) (Snapshot, error) {
	var err error
	if snap.Record.Password, err = s.seal(snap.Record.Password); err != nil {
		return snap, err
	}
	if snap.Record.PasswordConfirm, err = s.seal(snap.Record.PasswordConfirm); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *fieldSealer) openSnapshot(snap Snapshot) (Snapshot, error) {
	var err error
	if snap.Record.Password, err = s.open(snap.Record.Password); err != nil {
		return snap, err
	}
	if snap.Record.PasswordConfirm, err = s.open(snap.Record.PasswordConfirm); err != nil {
		return snap, err
	}
	return snap, nil
}
