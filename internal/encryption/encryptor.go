package encryption

// Encryptor seals stored blobs. Sealing needs only the public key; opening
// needs the private key, which is kept encrypted under the user's passphrase.
type Encryptor interface {
	// Setup generates a key pair, writes the public key in plaintext and the
	// private key encrypted with passphrase. Called by `shelf config init --encrypt`.
	Setup(passphrase string) error

	// Seal encrypts plaintext with the public key.
	Seal(plaintext []byte) ([]byte, error)

	// Unlock decrypts the private key with passphrase. An incorrect
	// passphrase is an error.
	Unlock(passphrase string) (Opener, error)

	// IsConfigured reports whether both key files exist.
	IsConfigured() bool
}

// Opener holds an unlocked private key in memory for the life of the process.
type Opener interface {
	// Open decrypts a blob produced by Seal.
	Open(ciphertext []byte) ([]byte, error)
}
