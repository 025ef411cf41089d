package sqlitestore

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
	sealInfo  = "todo-client session store v1"
)

var errOpen = errors.New("sealed value could not be opened")

// sealer encrypts values with NaCl secretbox under a key derived from a passphrase.
type sealer struct {
	key [keySize]byte
}

func newSealer(passphrase string) *sealer {
	s := &sealer{}
	kdf := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(sealInfo))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		// hkdf can produce far more than 32 bytes from sha256
		panic(err)
	}
	return s
}

func (s *sealer) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (s *sealer) open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize {
		return "", errOpen
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errOpen
	}
	return string(plain), nil
}
