package encryption

import (
	"fmt"
	"sync"

	"shelf-go/internal/shelf"
)

// PassphraseFunc supplies the passphrase that unlocks the private key. It is
// called at most once per successful unlock.
type PassphraseFunc func() (string, error)

// EncryptedBackend seals every blob before handing it to the wrapped backend
// and opens it on the way back. Writes never need the passphrase; the first
// read of an existing blob asks for it.
type EncryptedBackend struct {
	inner      shelf.Backend
	enc        Encryptor
	passphrase PassphraseFunc

	mu     sync.Mutex
	opener Opener
}

// NewEncryptedBackend wraps inner. enc must already have its keys set up and
// passphrase must be non-nil.
func NewEncryptedBackend(inner shelf.Backend, enc Encryptor, passphrase PassphraseFunc) (*EncryptedBackend, error) {
	if !enc.IsConfigured() {
		return nil, fmt.Errorf("encryption keys not found (run `shelf config init --encrypt`)")
	}
	if passphrase == nil {
		return nil, fmt.Errorf("encrypted storage needs a passphrase source")
	}
	return &EncryptedBackend{
		inner:      inner,
		enc:        enc,
		passphrase: passphrase,
	}, nil
}

func (b *EncryptedBackend) Get(key string) ([]byte, bool, error) {
	sealed, ok, err := b.inner.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}

	opener, err := b.unlock()
	if err != nil {
		return nil, false, err
	}

	plaintext, err := opener.Open(sealed)
	if err != nil {
		return nil, false, fmt.Errorf("decrypting %s: %w", key, err)
	}
	return plaintext, true, nil
}

func (b *EncryptedBackend) Set(key string, data []byte) error {
	sealed, err := b.enc.Seal(data)
	if err != nil {
		return fmt.Errorf("encrypting %s: %w", key, err)
	}
	return b.inner.Set(key, sealed)
}

func (b *EncryptedBackend) Close() error {
	return b.inner.Close()
}

func (b *EncryptedBackend) unlock() (Opener, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.opener != nil {
		return b.opener, nil
	}

	passphrase, err := b.passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	opener, err := b.enc.Unlock(passphrase)
	if err != nil {
		return nil, err
	}
	b.opener = opener
	return opener, nil
}

var _ shelf.Backend = (*EncryptedBackend)(nil)
