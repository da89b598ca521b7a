package encryption

import (
	"bytes"
	"fmt"
)

// testHeader marks blobs sealed by TestEncryptor.
var testHeader = []byte("SHELFENC")

// TestEncryptor is a deterministic stand-in for AgeEncryptor. Seal prepends
// a fixed header and Open strips it, so sealed output differs from the
// plaintext without any real cryptography. Unlock accepts only the
// passphrase given to Setup (any passphrase if Setup was never called).
type TestEncryptor struct {
	passphrase string
}

var _ Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Seal(plaintext []byte) ([]byte, error) {
	out := make([]byte, 0, len(testHeader)+len(plaintext))
	out = append(out, testHeader...)
	return append(out, plaintext...), nil
}

func (e *TestEncryptor) Unlock(passphrase string) (Opener, error) {
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, fmt.Errorf("incorrect passphrase")
	}
	return testOpener{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

type testOpener struct{}

func (testOpener) Open(ciphertext []byte) ([]byte, error) {
	if !bytes.HasPrefix(ciphertext, testHeader) {
		return nil, fmt.Errorf("invalid test encryption header")
	}
	return append([]byte(nil), ciphertext[len(testHeader):]...), nil
}
