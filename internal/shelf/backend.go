package shelf

// Backend is the key-value capability the Store persists through.
// Each key holds one opaque blob; the Store decides what goes in it.
type Backend interface {
	// Get returns the blob stored under key. ok is false when the key has
	// never been set; that is not an error.
	Get(key string) (data []byte, ok bool, err error)

	// Set replaces the blob stored under key in a single write.
	Set(key string, data []byte) error

	// Close releases any resources held by the backend.
	Close() error
}
